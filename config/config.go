package config

import (
	"time"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		LogLevel   string `default:"info" env:"LOG_LEVEL"`
		BodyLimit  int64  `default:"4194304" env:"APP_BODY_LIMIT"`

		// ContentLimit предел размера загружаемого содержимого версии
		ContentLimit  int    `default:"52428800" env:"APP_CONTENT_LIMIT"`
		ErrNotifyAddr string `default:"" env:"APP_ERR_NOTIFY_ADDR"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"docflow" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Redis struct {
		Addr     string `default:"" env:"REDIS_ADDR"`
		Password string `default:"" env:"REDIS_PASSWORD"`
		DB       int    `default:"0" env:"REDIS_DB"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"docflow-content" env:"S3_BUCKET_NAME"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	Auth struct {
		JWTSecret string `default:"" env:"JWT_SECRET"`
	}
	Scheduler SchedulerConfig
	Voting    struct {
		EarlyResolution *bool `default:"true" env:"VOTING_EARLY_RESOLUTION"`
	}
	Notify NotifyConfig
}

// SchedulerConfig настройки проверки сроков голосований
type SchedulerConfig struct {
	Enable             *bool `yaml:"enable" default:"true" env:"SCHEDULER_ENABLE"`
	IntervalSec        int   `yaml:"interval" default:"60" env:"SCHEDULER_INTERVAL"`
	ForceCheckDelaySec int   `yaml:"forceCheckDelay" default:"10" env:"SCHEDULER_FORCE_CHECK_DELAY"`
}

func (c SchedulerConfig) IsEnabled() bool {
	return c.Enable != nil && *c.Enable
}

func (c SchedulerConfig) GetInterval() time.Duration {
	if c.IntervalSec <= 0 {
		return time.Minute
	}
	return time.Duration(c.IntervalSec) * time.Second
}

func (c SchedulerConfig) GetForceCheckDelay() time.Duration {
	if c.ForceCheckDelaySec < 0 {
		return 0
	}
	return time.Duration(c.ForceCheckDelaySec) * time.Second
}

type NotifyConfig struct {
	IntervalSec int `yaml:"interval" default:"30" env:"NOTIFY_INTERVAL"`
	MaxAttempts int `yaml:"maxAttempts" default:"5" env:"NOTIFY_MAX_ATTEMPTS"`
	BatchSize   int `yaml:"batchSize" default:"100" env:"NOTIFY_BATCH_SIZE"`
}

func (c NotifyConfig) GetInterval() time.Duration {
	if c.IntervalSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.IntervalSec) * time.Second
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	// .env не обязателен, переменные окружения могут быть заданы снаружи
	if err := godotenv.Load(); err != nil {
		log.Debug("файл .env не загружен")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}

func IsEarlyResolution() bool {
	if Conf == nil || Conf.Voting.EarlyResolution == nil {
		return true
	}
	return *Conf.Voting.EarlyResolution
}

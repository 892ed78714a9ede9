package initializers

import (
	"context"
	"docflow-backend/config"
	"docflow-backend/lib/utils/lock"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// InitRedis без адреса redis блокировки остаются внутри процесса (один экземпляр сервиса)
func InitRedis(ctx context.Context) {
	conf := config.Conf.Redis
	if conf.Addr == "" {
		log.Info("Redis не настроен, используются локальные блокировки")
		lock.NewHandler(nil)
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		panic(err.Error())
	}
	lock.NewHandler(client)
	log.WithField("addr", conf.Addr).Info("Redis клиент успешно инициализирован")
}

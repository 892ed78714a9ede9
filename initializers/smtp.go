package initializers

import (
	"docflow-backend/config"
	"docflow-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	conf := config.Conf.Smtp
	tlsEnabled := conf.TLSEnabled == nil || *conf.TLSEnabled
	err := smtp.Connect(conf.User, conf.Password, conf.Host, conf.Port, tlsEnabled)
	if err != nil {
		panic(err.Error())
	}
	if !smtp.Instance.IsConfigured() {
		log.Warn("SMTP не настроен, уведомления останутся в очереди")
	}
}

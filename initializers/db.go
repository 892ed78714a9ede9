package initializers

import (
	"docflow-backend/config"
	"docflow-backend/db"
)

func InitDBConnection() {
	conf := config.Conf.Database
	debugMode := conf.DebugMode != nil && *conf.DebugMode
	migrate := conf.MigrateOnStart == nil || *conf.MigrateOnStart
	err := db.Connect(conf.Host, conf.Port, conf.Name, conf.User, conf.Password, debugMode, migrate)
	if err != nil {
		panic(err.Error())
	}
}

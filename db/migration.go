package db

import (
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	entities := []struct {
		name  string
		model interface{}
	}{
		{"Department", &dbmodels.Department{}},
		{"User", &dbmodels.User{}},
		{"DocumentType", &dbmodels.DocumentType{}},
		{"Attribute", &dbmodels.Attribute{}},
		{"DocumentTypeAttribute", &dbmodels.DocumentTypeAttribute{}},
		{"Document", &dbmodels.Document{}},
		{"DocumentVersion", &dbmodels.DocumentVersion{}},
		{"AttributeValue", &dbmodels.AttributeValue{}},
		{"UserDocument", &dbmodels.UserDocument{}},
		{"VotingProcess", &dbmodels.VotingProcess{}},
		{"Vote", &dbmodels.Vote{}},
		{"Signature", &dbmodels.Signature{}},
		{"Substitution", &dbmodels.Substitution{}},
		{"Subscription", &dbmodels.Subscription{}},
		{"Notification", &dbmodels.Notification{}},
	}
	for _, entity := range entities {
		if err := DB.AutoMigrate(entity.model); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %s", entity.name)
		}
	}
	log.Info("Миграция прошла успешно")
	return nil
}

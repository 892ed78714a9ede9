package notificationstore

import (
	dbmodels "docflow-backend/models/db"
	"time"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Notification) error
	ListPending(maxAttempts, limit int) ([]dbmodels.Notification, error)
	MarkSent(id string, sentAt time.Time) error
	MarkFailed(id string, lastError string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Notification) error {
	return i.db.
		Save(&rec).
		Error
}

func (i impl) ListPending(maxAttempts, limit int) (list []dbmodels.Notification, err error) {
	list = []dbmodels.Notification{}
	err = i.db.
		Where("sent_at is null").
		Where("attempts < ?", maxAttempts).
		Order("created_at").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) MarkSent(id string, sentAt time.Time) error {
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("id = ?", id).
		Update("sent_at", sentAt).
		Error
}

func (i impl) MarkFailed(id string, lastError string) error {
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).
		Error
}

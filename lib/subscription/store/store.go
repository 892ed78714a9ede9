package subscriptionstore

import (
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Subscription) (id string, err error)
	Get(userID, documentID string) (*dbmodels.Subscription, error)
	ListByDocument(documentID string) ([]dbmodels.Subscription, error)
	Delete(id string) error
	DeleteByDocument(documentID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Subscription) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Get(userID, documentID string) (*dbmodels.Subscription, error) {
	rec := dbmodels.Subscription{}
	err := i.db.
		Where("user_id = ?", userID).
		Where("document_id = ?", documentID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByDocument(documentID string) (list []dbmodels.Subscription, err error) {
	list = []dbmodels.Subscription{}
	err = i.db.
		Where("document_id = ?", documentID).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Subscription{}).
		Error
}

func (i impl) DeleteByDocument(documentID string) error {
	return i.db.
		Where("document_id = ?", documentID).
		Delete(&dbmodels.Subscription{}).
		Error
}

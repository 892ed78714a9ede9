package documentstore

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Document) (id string, err error)
	GetByID(id string) (*dbmodels.Document, error)
	// GetForUpdate блокирует строку документа до конца транзакции
	GetForUpdate(id string) (*dbmodels.Document, error)
	ListForUser(userID string) ([]dbmodels.Document, error)
	UpdateStatus(id string, from []models.DocumentStatus, to models.DocumentStatus) (bool, error)
	Delete(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Document) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Document, error) {
	rec := dbmodels.Document{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) GetForUpdate(id string) (*dbmodels.Document, error) {
	rec := dbmodels.Document{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
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

func (i impl) ListForUser(userID string) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = i.db.
		Where("id in (select document_id from user_documents where user_id = ?)", userID).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus переводит документ в статус to, только если текущий статус входит в from
func (i impl) UpdateStatus(id string, from []models.DocumentStatus, to models.DocumentStatus) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Where("status in (?)", from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Document{}).
		Error
}

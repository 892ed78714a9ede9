package documenttypestore

import (
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.DocumentType) (id string, err error)
	GetByID(id string) (*dbmodels.DocumentType, error)
	List(organizationID string) ([]dbmodels.DocumentType, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.DocumentType) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.DocumentType, error) {
	rec := dbmodels.DocumentType{}
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

func (i impl) List(organizationID string) (list []dbmodels.DocumentType, err error) {
	list = []dbmodels.DocumentType{}
	tx := i.db.Order("name")
	if organizationID != "" {
		tx = tx.Where("organization_id = ?", organizationID)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

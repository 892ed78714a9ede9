package attributestore

import (
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Attribute) (id string, err error)
	GetByID(id string) (*dbmodels.Attribute, error)
	List() ([]dbmodels.Attribute, error)
	Link(rec dbmodels.DocumentTypeAttribute) (id string, err error)
	GetLink(documentTypeID, attributeID string) (*dbmodels.DocumentTypeAttribute, error)
	ListLinks(documentTypeID string) ([]dbmodels.DocumentTypeAttribute, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Attribute) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Attribute, error) {
	rec := dbmodels.Attribute{}
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

func (i impl) List() (list []dbmodels.Attribute, err error) {
	list = []dbmodels.Attribute{}
	err = i.db.
		Order("name").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Link(rec dbmodels.DocumentTypeAttribute) (id string, err error) {
	err = i.db.
		Omit("Attribute").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetLink(documentTypeID, attributeID string) (*dbmodels.DocumentTypeAttribute, error) {
	rec := dbmodels.DocumentTypeAttribute{}
	err := i.db.
		Where("document_type_id = ?", documentTypeID).
		Where("attribute_id = ?", attributeID).
		Preload("Attribute").
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

func (i impl) ListLinks(documentTypeID string) (list []dbmodels.DocumentTypeAttribute, err error) {
	list = []dbmodels.DocumentTypeAttribute{}
	err = i.db.
		Where("document_type_id = ?", documentTypeID).
		Order("created_at ASC").
		Preload("Attribute").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

package documentversionstore

import (
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.DocumentVersion) (id string, err error)
	GetByID(id string) (*dbmodels.DocumentVersion, error)
	GetLatest(documentID string) (*dbmodels.DocumentVersion, error)
	List(documentID string) ([]dbmodels.DocumentVersion, error)
	DeleteByDocument(documentID string) (contentIDs []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Create сохраняет версию вместе со значениями атрибутов
func (i impl) Create(rec dbmodels.DocumentVersion) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.DocumentVersion, error) {
	rec := dbmodels.DocumentVersion{}
	err := i.db.
		Where("id = ?", id).
		Preload("Values").
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

func (i impl) GetLatest(documentID string) (*dbmodels.DocumentVersion, error) {
	rec := dbmodels.DocumentVersion{}
	err := i.db.
		Where("document_id = ?", documentID).
		Order("number DESC").
		Preload("Values").
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

func (i impl) List(documentID string) (list []dbmodels.DocumentVersion, err error) {
	list = []dbmodels.DocumentVersion{}
	err = i.db.
		Where("document_id = ?", documentID).
		Order("number DESC").
		Preload("Values").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) DeleteByDocument(documentID string) (contentIDs []string, err error) {
	err = i.db.
		Model(&dbmodels.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Where("content_id is not null").
		Distinct().
		Pluck("content_id", &contentIDs).
		Error
	if err != nil {
		return nil, err
	}
	err = i.db.
		Where("document_version_id in (select id from document_versions where document_id = ?)", documentID).
		Delete(&dbmodels.AttributeValue{}).
		Error
	if err != nil {
		return nil, err
	}
	err = i.db.
		Where("document_id = ?", documentID).
		Delete(&dbmodels.DocumentVersion{}).
		Error
	if err != nil {
		return nil, err
	}
	return contentIDs, nil
}

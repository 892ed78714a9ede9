package signaturestore

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Signature) (id string, err error)
	GetByID(id string) (*dbmodels.Signature, error)
	GetByUser(versionID, userID string) (*dbmodels.Signature, error)
	ListByVersion(versionID string) ([]dbmodels.Signature, error)
	ListByDocument(documentID string) ([]dbmodels.Signature, error)
	Update(id string, updMap map[string]interface{}) error
	MarkSigned(id string, signedAt time.Time) (bool, error)
	CountUnsigned(versionID string) (int64, error)
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

func (i impl) Create(rec dbmodels.Signature) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Signature, error) {
	rec := dbmodels.Signature{}
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

func (i impl) GetByUser(versionID, userID string) (*dbmodels.Signature, error) {
	rec := dbmodels.Signature{}
	err := i.db.
		Where("document_version_id = ?", versionID).
		Where("user_id = ?", userID).
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

func (i impl) ListByVersion(versionID string) (list []dbmodels.Signature, err error) {
	list = []dbmodels.Signature{}
	err = i.db.
		Where("document_version_id = ?", versionID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByDocument(documentID string) (list []dbmodels.Signature, err error) {
	list = []dbmodels.Signature{}
	err = i.db.
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Signature{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

// MarkSigned ставит подпись, только если она еще не поставлена
func (i impl) MarkSigned(id string, signedAt time.Time) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Signature{}).
		Where("id = ?", id).
		Where("status = ?", models.SignatureNotSigned).
		Updates(map[string]interface{}{
			"status":    models.SignatureSigned,
			"signed_at": signedAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) CountUnsigned(versionID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.Signature{}).
		Where("document_version_id = ?", versionID).
		Where("status = ?", models.SignatureNotSigned).
		Count(&count).
		Error
	return count, err
}

func (i impl) DeleteByDocument(documentID string) error {
	return i.db.
		Where("document_id = ?", documentID).
		Delete(&dbmodels.Signature{}).
		Error
}

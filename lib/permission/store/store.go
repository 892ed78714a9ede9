package permissionstore

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Get(userID, documentID string) (*dbmodels.UserDocument, error)
	// GetForShare не дает изменить права до конца транзакции
	GetForShare(userID, documentID string) (*dbmodels.UserDocument, error)
	ListByDocument(documentID string) ([]dbmodels.UserDocument, error)
	AddPermissions(userID, documentID string, permissions []models.DocumentPermission) error
	RemovePermissions(userID, documentID string, permissions []models.DocumentPermission) error
	DeleteReadOnly(documentID string) (userIDs []string, err error)
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

func toArray(permissions []models.DocumentPermission) pq.StringArray {
	result := make(pq.StringArray, 0, len(permissions))
	for _, p := range permissions {
		result = append(result, string(p))
	}
	return result
}

func (i impl) Get(userID, documentID string) (*dbmodels.UserDocument, error) {
	rec := dbmodels.UserDocument{}
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

func (i impl) GetForShare(userID, documentID string) (*dbmodels.UserDocument, error) {
	rec := dbmodels.UserDocument{}
	err := i.db.
		Clauses(clause.Locking{Strength: "SHARE"}).
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

func (i impl) ListByDocument(documentID string) (list []dbmodels.UserDocument, err error) {
	list = []dbmodels.UserDocument{}
	err = i.db.
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// AddPermissions одним запросом создает запись или дополняет набор прав
func (i impl) AddPermissions(userID, documentID string, permissions []models.DocumentPermission) error {
	rec := dbmodels.UserDocument{
		UserID:      userID,
		DocumentID:  documentID,
		Permissions: toArray(permissions),
	}
	return i.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "document_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"permissions": gorm.Expr("ARRAY(SELECT DISTINCT unnest(user_documents.permissions || excluded.permissions))"),
				"updated_at":  time.Now(),
			}),
		}).
		Create(&rec).
		Error
}

func (i impl) RemovePermissions(userID, documentID string, permissions []models.DocumentPermission) error {
	err := i.db.
		Model(&dbmodels.UserDocument{}).
		Where("user_id = ?", userID).
		Where("document_id = ?", documentID).
		Update("permissions", gorm.Expr("ARRAY(SELECT unnest(permissions) EXCEPT SELECT unnest(?::text[]))", toArray(permissions))).
		Error
	if err != nil {
		return err
	}
	return i.db.
		Where("user_id = ?", userID).
		Where("document_id = ?", documentID).
		Where("cardinality(permissions) = 0").
		Delete(&dbmodels.UserDocument{}).
		Error
}

// DeleteReadOnly удаляет записи, в которых есть только право READ
func (i impl) DeleteReadOnly(documentID string) (userIDs []string, err error) {
	list := []dbmodels.UserDocument{}
	err = i.db.
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "user_id"}}}).
		Where("document_id = ?", documentID).
		Where("permissions = ?", pq.StringArray{string(models.ReadPermission)}).
		Delete(&list).
		Error
	if err != nil {
		return nil, err
	}
	userIDs = make([]string, 0, len(list))
	for _, rec := range list {
		userIDs = append(userIDs, rec.UserID)
	}
	return userIDs, nil
}

func (i impl) DeleteByDocument(documentID string) error {
	return i.db.
		Where("document_id = ?", documentID).
		Delete(&dbmodels.UserDocument{}).
		Error
}

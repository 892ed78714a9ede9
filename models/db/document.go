package dbmodels

import (
	"docflow-backend/models"

	"github.com/lib/pq"
)

type Document struct {
	BaseModel
	DocumentTypeID string                `gorm:"type:varchar(36);index"`
	Name           string                `gorm:"type:varchar(255)"`
	Status         models.DocumentStatus `gorm:"type:varchar(50);index"`
	AuthorID       string                `gorm:"type:varchar(36)"`
}

// DocumentVersion неизменяемый снимок документа
type DocumentVersion struct {
	BaseModel
	DocumentID  string           `gorm:"type:varchar(36);uniqueIndex:idx_document_number,priority:1"`
	Number      int              `gorm:"uniqueIndex:idx_document_number,priority:2"`
	ContentID   *string          `gorm:"type:varchar(64)"`
	ContentName string           `gorm:"type:varchar(255)"`
	ContentType string           `gorm:"type:varchar(255)"`
	AuthorID    string           `gorm:"type:varchar(36)"`
	Values      []AttributeValue `gorm:"foreignKey:DocumentVersionID"`
}

type AttributeValue struct {
	BaseModel
	DocumentVersionID string `gorm:"type:varchar(36);uniqueIndex:idx_version_attribute,priority:1"`
	AttributeID       string `gorm:"type:varchar(36);uniqueIndex:idx_version_attribute,priority:2"`
	Value             string
}

// UserDocument набор прав пользователя на документ, не более одной записи на пару (пользователь, документ)
type UserDocument struct {
	BaseModel
	UserID      string         `gorm:"type:varchar(36);uniqueIndex:idx_user_document,priority:1"`
	DocumentID  string         `gorm:"type:varchar(36);uniqueIndex:idx_user_document,priority:2;index"`
	Permissions pq.StringArray `gorm:"type:text[]"`
}

func (r UserDocument) Has(predicate models.PermissionPredicate) bool {
	for _, p := range r.Permissions {
		if predicate(models.DocumentPermission(p)) {
			return true
		}
	}
	return false
}

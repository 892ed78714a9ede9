package dbmodels

import (
	"docflow-backend/models"

	"github.com/pkg/errors"
)

type DocumentType struct {
	BaseModel
	OrganizationID string `gorm:"type:varchar(36);index"`
	Name           string `gorm:"type:varchar(255)"`
}

func (r *DocumentType) Validate() error {
	if r.Name == "" {
		return errors.New("не указано название типа документа")
	}
	return nil
}

type Attribute struct {
	BaseModel
	Name string               `gorm:"type:varchar(255)"`
	Type models.AttributeType `gorm:"type:varchar(20)"`
}

func (r *Attribute) Validate() error {
	if r.Name == "" {
		return errors.New("не указано название атрибута")
	}
	if !r.Type.IsValid() {
		return errors.Errorf("неизвестный тип атрибута: %v", r.Type)
	}
	return nil
}

// DocumentTypeAttribute привязка атрибута к типу документа
type DocumentTypeAttribute struct {
	BaseModel
	DocumentTypeID string     `gorm:"type:varchar(36);uniqueIndex:idx_type_attribute,priority:1"`
	AttributeID    string     `gorm:"type:varchar(36);uniqueIndex:idx_type_attribute,priority:2"`
	Attribute      *Attribute `gorm:"foreignKey:AttributeID"`
	Optional       bool
}

package dictapimodels

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
)

type DocumentTypeData struct {
	Name string `json:"name"`
}

func (c DocumentTypeData) Validate() error {
	if c.Name == "" {
		return errors.New("не указано название типа документа")
	}
	return nil
}

type DocumentTypeView struct {
	DocumentTypeData
	ID             string              `json:"id"`
	OrganizationID string              `json:"organization_id"`
	Attributes     []TypeAttributeView `json:"attributes,omitempty"`
}

func DocumentTypeConvert(rec dbmodels.DocumentType) DocumentTypeView {
	return DocumentTypeView{
		DocumentTypeData: DocumentTypeData{
			Name: rec.Name,
		},
		ID:             rec.ID,
		OrganizationID: rec.OrganizationID,
	}
}

type AttributeData struct {
	Name string               `json:"name"`
	Type models.AttributeType `json:"type"` // STRING, NUMBER, DATE, BOOLEAN
}

func (c AttributeData) Validate() error {
	if c.Name == "" {
		return errors.New("не указано название атрибута")
	}
	if !c.Type.IsValid() {
		return errors.Errorf("неизвестный тип атрибута: %v", c.Type)
	}
	return nil
}

type AttributeView struct {
	AttributeData
	ID string `json:"id"`
}

func AttributeConvert(rec dbmodels.Attribute) AttributeView {
	return AttributeView{
		AttributeData: AttributeData{
			Name: rec.Name,
			Type: rec.Type,
		},
		ID: rec.ID,
	}
}

type TypeAttributeData struct {
	AttributeID string `json:"attribute_id"`
	Optional    bool   `json:"optional"`
}

func (c TypeAttributeData) Validate() error {
	if c.AttributeID == "" {
		return errors.New("не указан атрибут")
	}
	return nil
}

type TypeAttributeView struct {
	TypeAttributeData
	Name string               `json:"name"`
	Type models.AttributeType `json:"type"`
}

func TypeAttributeConvert(rec dbmodels.DocumentTypeAttribute) TypeAttributeView {
	result := TypeAttributeView{
		TypeAttributeData: TypeAttributeData{
			AttributeID: rec.AttributeID,
			Optional:    rec.Optional,
		},
	}
	if rec.Attribute != nil {
		result.Name = rec.Attribute.Name
		result.Type = rec.Attribute.Type
	}
	return result
}

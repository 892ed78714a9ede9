package attributehandler

import (
	"docflow-backend/db"
	"docflow-backend/lib/repository"
	apperrors "docflow-backend/lib/utils/app-errors"
	dictapimodels "docflow-backend/models/api/dict"
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider каталог атрибутов и их привязка к типам документов
type Provider interface {
	CreateAttribute(request dictapimodels.AttributeData) (dictapimodels.AttributeView, error)
	GetAttribute(id string) (dictapimodels.AttributeView, error)
	ListAttributes() ([]dictapimodels.AttributeView, error)
	LinkToType(documentTypeID string, request dictapimodels.TypeAttributeData) (dictapimodels.TypeAttributeView, error)
	ListForType(documentTypeID string) ([]dictapimodels.TypeAttributeView, error)
	// MandatoryIDs атрибуты типа, обязательные в каждой версии
	MandatoryIDs(documentTypeID string) ([]string, error)
	// IsLinked атрибут привязан к типу документа
	IsLinked(documentTypeID, attributeID string) (bool, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(repository.NewStores(db.DB))
}

func NewInstance(stores repository.Stores) Provider {
	return impl{
		stores: stores,
	}
}

type impl struct {
	stores repository.Stores
}

func (i impl) getLogger(documentTypeID, attributeID string) *log.Entry {
	return log.
		WithField("document_type_id", documentTypeID).
		WithField("attribute_id", attributeID)
}

func (i impl) CreateAttribute(request dictapimodels.AttributeData) (dictapimodels.AttributeView, error) {
	if err := request.Validate(); err != nil {
		return dictapimodels.AttributeView{}, apperrors.InvalidRequest(err.Error())
	}
	rec := dbmodels.Attribute{
		Name: request.Name,
		Type: request.Type,
	}
	id, err := i.stores.Attributes.Create(rec)
	if err != nil {
		return dictapimodels.AttributeView{}, errors.Wrap(err, "ошибка создания атрибута")
	}
	rec.ID = id
	i.getLogger("", id).Info("создан атрибут")
	return dictapimodels.AttributeConvert(rec), nil
}

func (i impl) GetAttribute(id string) (dictapimodels.AttributeView, error) {
	rec, err := i.stores.Attributes.GetByID(id)
	if err != nil {
		return dictapimodels.AttributeView{}, err
	}
	if rec == nil {
		return dictapimodels.AttributeView{}, apperrors.NotFound(apperrors.CodeAttributeNotFound, id)
	}
	return dictapimodels.AttributeConvert(*rec), nil
}

func (i impl) ListAttributes() ([]dictapimodels.AttributeView, error) {
	list, err := i.stores.Attributes.List()
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.AttributeView, 0, len(list))
	for _, rec := range list {
		result = append(result, dictapimodels.AttributeConvert(rec))
	}
	return result, nil
}

func (i impl) LinkToType(documentTypeID string, request dictapimodels.TypeAttributeData) (dictapimodels.TypeAttributeView, error) {
	if err := request.Validate(); err != nil {
		return dictapimodels.TypeAttributeView{}, apperrors.InvalidRequest(err.Error())
	}
	docType, err := i.stores.DocumentTypes.GetByID(documentTypeID)
	if err != nil {
		return dictapimodels.TypeAttributeView{}, err
	}
	if docType == nil {
		return dictapimodels.TypeAttributeView{}, apperrors.NotFound(apperrors.CodeDocumentTypeNotFound, documentTypeID)
	}
	attribute, err := i.stores.Attributes.GetByID(request.AttributeID)
	if err != nil {
		return dictapimodels.TypeAttributeView{}, err
	}
	if attribute == nil {
		return dictapimodels.TypeAttributeView{}, apperrors.NotFound(apperrors.CodeAttributeNotFound, request.AttributeID)
	}
	existing, err := i.stores.Attributes.GetLink(documentTypeID, request.AttributeID)
	if err != nil {
		return dictapimodels.TypeAttributeView{}, err
	}
	if existing != nil {
		return dictapimodels.TypeAttributeView{}, apperrors.Conflict(apperrors.CodeAttributeAlreadyLinked, request.AttributeID)
	}
	rec := dbmodels.DocumentTypeAttribute{
		DocumentTypeID: documentTypeID,
		AttributeID:    request.AttributeID,
		Optional:       request.Optional,
	}
	_, err = i.stores.Attributes.Link(rec)
	if err != nil {
		return dictapimodels.TypeAttributeView{}, errors.Wrap(err, "ошибка привязки атрибута к типу документа")
	}
	rec.Attribute = attribute
	i.getLogger(documentTypeID, request.AttributeID).
		WithField("optional", request.Optional).
		Info("атрибут привязан к типу документа")
	return dictapimodels.TypeAttributeConvert(rec), nil
}

func (i impl) ListForType(documentTypeID string) ([]dictapimodels.TypeAttributeView, error) {
	list, err := i.stores.Attributes.ListLinks(documentTypeID)
	if err != nil {
		return nil, err
	}
	result := make([]dictapimodels.TypeAttributeView, 0, len(list))
	for _, rec := range list {
		result = append(result, dictapimodels.TypeAttributeConvert(rec))
	}
	return result, nil
}

func (i impl) MandatoryIDs(documentTypeID string) ([]string, error) {
	list, err := i.stores.Attributes.ListLinks(documentTypeID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения атрибутов типа документа")
	}
	result := []string{}
	for _, rec := range list {
		if !rec.Optional {
			result = append(result, rec.AttributeID)
		}
	}
	return result, nil
}

func (i impl) IsLinked(documentTypeID, attributeID string) (bool, error) {
	link, err := i.stores.Attributes.GetLink(documentTypeID, attributeID)
	if err != nil {
		return false, errors.Wrap(err, "ошибка получения атрибута типа документа")
	}
	return link != nil, nil
}

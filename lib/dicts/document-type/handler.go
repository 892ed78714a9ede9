package documenttypeprovider

import (
	"docflow-backend/db"
	attributehandler "docflow-backend/lib/attribute"
	"docflow-backend/lib/repository"
	apperrors "docflow-backend/lib/utils/app-errors"
	dictapimodels "docflow-backend/models/api/dict"
	dbmodels "docflow-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(organizationID string, request dictapimodels.DocumentTypeData) (id string, err error)
	Get(organizationID, id string) (item dictapimodels.DocumentTypeView, err error)
	List(organizationID string) (list []dictapimodels.DocumentTypeView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(repository.NewStores(db.DB))
}

func NewInstance(stores repository.Stores) Provider {
	return impl{
		stores:     stores,
		attributes: attributehandler.NewInstance(stores),
	}
}

type impl struct {
	stores     repository.Stores
	attributes attributehandler.Provider
}

func (i impl) Create(organizationID string, request dictapimodels.DocumentTypeData) (id string, err error) {
	if err = request.Validate(); err != nil {
		return "", apperrors.InvalidRequest(err.Error())
	}
	rec := dbmodels.DocumentType{
		OrganizationID: organizationID,
		Name:           request.Name,
	}
	id, err = i.stores.DocumentTypes.Create(rec)
	if err != nil {
		return "", err
	}
	log.
		WithField("organization_id", organizationID).
		WithField("rec_id", id).
		Info("создан тип документа")
	return id, nil
}

func (i impl) Get(organizationID, id string) (item dictapimodels.DocumentTypeView, err error) {
	rec, err := i.stores.DocumentTypes.GetByID(id)
	if err != nil {
		return dictapimodels.DocumentTypeView{}, err
	}
	if rec == nil || (organizationID != "" && rec.OrganizationID != organizationID) {
		return dictapimodels.DocumentTypeView{}, apperrors.NotFound(apperrors.CodeDocumentTypeNotFound, id)
	}
	item = dictapimodels.DocumentTypeConvert(*rec)
	item.Attributes, err = i.attributes.ListForType(id)
	if err != nil {
		return dictapimodels.DocumentTypeView{}, err
	}
	return item, nil
}

func (i impl) List(organizationID string) (list []dictapimodels.DocumentTypeView, err error) {
	recList, err := i.stores.DocumentTypes.List(organizationID)
	if err != nil {
		return nil, err
	}
	list = make([]dictapimodels.DocumentTypeView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, dictapimodels.DocumentTypeConvert(rec))
	}
	return list, nil
}

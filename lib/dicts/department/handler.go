package departmentprovider

import (
	"docflow-backend/db"
	"docflow-backend/lib/repository"
	apperrors "docflow-backend/lib/utils/app-errors"
	initchecker "docflow-backend/lib/utils/init-checker"
	dictapimodels "docflow-backend/models/api/dict"
	dbmodels "docflow-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(organizationID string, request dictapimodels.DepartmentData) (id string, err error)
	Get(organizationID, id string) (item dictapimodels.DepartmentView, err error)
	Tree(organizationID string) (list []dictapimodels.DepartmentTreeItem, err error)
}

var Instance Provider

func NewHandler() {
	instance := NewInstance(repository.NewStores(db.DB))
	Instance = instance
}

func NewInstance(stores repository.Stores) Provider {
	instance := impl{
		stores: stores,
	}
	initchecker.CheckInit(
		"departments", instance.stores.Departments,
	)
	return instance
}

type impl struct {
	stores repository.Stores
}

func (i impl) Create(organizationID string, request dictapimodels.DepartmentData) (id string, err error) {
	logger := log.WithField("organization_id", organizationID)
	if err = request.Validate(); err != nil {
		return "", apperrors.InvalidRequest(err.Error())
	}
	rec := dbmodels.Department{
		OrganizationID: organizationID,
		Name:           request.Name,
	}
	if request.ParentID != "" {
		parent, err := i.stores.Departments.GetByID(request.ParentID)
		if err != nil {
			return "", err
		}
		if parent == nil || parent.OrganizationID != organizationID {
			return "", apperrors.NotFound(apperrors.CodeDepartmentNotFound, request.ParentID)
		}
		rec.ParentID = &request.ParentID
	}
	id, err = i.stores.Departments.Create(rec)
	if err != nil {
		return "", err
	}
	logger.
		WithField("department_name", rec.Name).
		WithField("rec_id", id).
		Info("создано подразделение")
	return id, nil
}

func (i impl) Get(organizationID, id string) (item dictapimodels.DepartmentView, err error) {
	rec, err := i.stores.Departments.GetByID(id)
	if err != nil {
		return dictapimodels.DepartmentView{}, err
	}
	if rec == nil || rec.OrganizationID != organizationID {
		return dictapimodels.DepartmentView{}, apperrors.NotFound(apperrors.CodeDepartmentNotFound, id)
	}
	return dictapimodels.DepartmentConvert(*rec), nil
}

func (i impl) Tree(organizationID string) (list []dictapimodels.DepartmentTreeItem, err error) {
	recList, err := i.stores.Departments.List(organizationID)
	if err != nil {
		return nil, err
	}
	tree := []dictapimodels.DepartmentTreeItem{}
	for _, rec := range recList {
		if rec.ParentID != nil {
			continue
		}
		item := dictapimodels.DepartmentTreeItem{
			DepartmentView: dictapimodels.DepartmentConvert(rec),
			SubUnits:       getChildren(rec.ID, recList),
		}
		tree = append(tree, item)
	}
	return tree, nil
}

func getChildren(parentID string, recList []dbmodels.Department) []dictapimodels.DepartmentTreeItem {
	result := []dictapimodels.DepartmentTreeItem{}
	for _, rec := range recList {
		if rec.ParentID == nil || *rec.ParentID != parentID {
			continue
		}
		result = append(result, dictapimodels.DepartmentTreeItem{
			DepartmentView: dictapimodels.DepartmentConvert(rec),
			SubUnits:       getChildren(rec.ID, recList),
		})
	}
	return result
}

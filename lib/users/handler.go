package usershandler

import (
	"docflow-backend/db"
	"docflow-backend/lib/repository"
	usersstore "docflow-backend/lib/users/store"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/helpers"
	"docflow-backend/models"
	usersapimodels "docflow-backend/models/api/users"
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider справочник сотрудников: подразделение, организация, почта, признак активности
type Provider interface {
	Create(organizationID string, request usersapimodels.UserData) (id string, err error)
	Get(id string) (usersapimodels.UserView, error)
	GetByEmail(email string) (usersapimodels.UserView, error)
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

func (i impl) Create(organizationID string, request usersapimodels.UserData) (id string, err error) {
	logger := log.WithField("organization_id", organizationID)
	if err = request.Validate(); err != nil {
		return "", apperrors.InvalidRequest(err.Error())
	}
	rec := dbmodels.User{
		FirstName:      request.FirstName,
		LastName:       request.LastName,
		Email:          helpers.NormalizeEmail(request.Email),
		IsActive:       request.IsActive,
		OrganizationID: organizationID,
		Role:           request.Role,
	}
	if rec.Role == "" {
		rec.Role = models.EmployeeRole
	}
	existing, err := i.stores.Users.FindByEmail(rec.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperrors.InvalidRequest("сотрудник с такой почтой уже существует")
	}
	if request.DepartmentID != "" {
		department, err := i.stores.Departments.GetByID(request.DepartmentID)
		if err != nil {
			return "", err
		}
		if department == nil || department.OrganizationID != organizationID {
			return "", apperrors.NotFound(apperrors.CodeDepartmentNotFound, request.DepartmentID)
		}
		rec.DepartmentID = &request.DepartmentID
	}
	id, err = i.stores.Users.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания сотрудника")
	}
	logger.WithField("user_id", id).Info("создан сотрудник")
	return id, nil
}

func (i impl) Get(id string) (usersapimodels.UserView, error) {
	rec, err := i.stores.Users.GetByID(id)
	if err != nil {
		return usersapimodels.UserView{}, err
	}
	if rec == nil {
		return usersapimodels.UserView{}, apperrors.NotFound(apperrors.CodeUserNotFound, id)
	}
	return usersapimodels.UserConvert(*rec), nil
}

func (i impl) GetByEmail(email string) (usersapimodels.UserView, error) {
	rec, err := i.stores.Users.FindByEmail(email)
	if err != nil {
		return usersapimodels.UserView{}, err
	}
	if rec == nil {
		return usersapimodels.UserView{}, apperrors.NotFound(apperrors.CodeUserNotFound, email)
	}
	return usersapimodels.UserConvert(*rec), nil
}

// AssertExist проверяет, что все пользователи из списка заведены
func AssertExist(store usersstore.Provider, userIDs []string) error {
	users, err := store.ListByIDs(userIDs)
	if err != nil {
		return errors.Wrap(err, "ошибка получения сотрудников")
	}
	found := map[string]bool{}
	for _, user := range users {
		found[user.ID] = true
	}
	for _, id := range userIDs {
		if !found[id] {
			return apperrors.NotFound(apperrors.CodeUserNotFound, id)
		}
	}
	return nil
}

package substitutionhandler

import (
	"context"
	"docflow-backend/db"
	"docflow-backend/lib/repository"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/helpers"
	usersapimodels "docflow-backend/models/api/users"
	dbmodels "docflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider заместители сотрудников, у сотрудника не больше одного заместителя
type Provider interface {
	Assign(ctx context.Context, userID string, data usersapimodels.SubstitutionData) (usersapimodels.SubstitutionView, error)
	Get(ctx context.Context, userID string) (usersapimodels.SubstitutionView, error)
	Remove(ctx context.Context, userID string) error
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(repository.NewStores(db.DB))
}

func NewInstance(stores repository.Stores) Provider {
	return impl{
		stores: stores,
		now:    time.Now,
	}
}

type impl struct {
	stores repository.Stores
	now    func() time.Time
}

func (i impl) Assign(ctx context.Context, userID string, data usersapimodels.SubstitutionData) (usersapimodels.SubstitutionView, error) {
	if err := data.Validate(); err != nil {
		return usersapimodels.SubstitutionView{}, apperrors.InvalidRequest(err.Error())
	}
	logger := log.WithField("user_id", userID)
	user, err := i.stores.Users.GetByID(userID)
	if err != nil {
		return usersapimodels.SubstitutionView{}, err
	}
	if user == nil {
		return usersapimodels.SubstitutionView{}, apperrors.NotFound(apperrors.CodeUserNotFound, userID)
	}
	substitute, err := i.stores.Users.FindByEmail(helpers.NormalizeEmail(data.Email))
	if err != nil {
		return usersapimodels.SubstitutionView{}, err
	}
	if substitute == nil {
		return usersapimodels.SubstitutionView{}, apperrors.NotFound(apperrors.CodeUserNotFound, data.Email)
	}
	if !user.IsColleague(*substitute) {
		return usersapimodels.SubstitutionView{}, apperrors.PermissionDenied(apperrors.CodeOnlyYourDepartment, substitute.ID)
	}
	if substitute.ID == user.ID {
		return usersapimodels.SubstitutionView{}, apperrors.InvalidState(apperrors.CodeSelfSubstitution, userID)
	}
	existing, err := i.stores.Substitutions.GetByUser(userID)
	if err != nil {
		return usersapimodels.SubstitutionView{}, err
	}
	if existing != nil {
		return usersapimodels.SubstitutionView{}, apperrors.Conflict(apperrors.CodeUserAlreadySubstituted, existing.ID)
	}
	rec := dbmodels.Substitution{
		UserID:       userID,
		SubstituteID: substitute.ID,
		AssignedAt:   i.now(),
	}
	id, err := i.stores.Substitutions.Create(rec)
	if err != nil {
		return usersapimodels.SubstitutionView{}, errors.Wrap(err, "ошибка назначения заместителя")
	}
	rec.ID = id
	logger.
		WithField("substitute_id", substitute.ID).
		Info("назначен заместитель")
	return usersapimodels.SubstitutionConvert(rec), nil
}

func (i impl) Get(ctx context.Context, userID string) (usersapimodels.SubstitutionView, error) {
	rec, err := i.stores.Substitutions.GetByUser(userID)
	if err != nil {
		return usersapimodels.SubstitutionView{}, err
	}
	if rec == nil {
		return usersapimodels.SubstitutionView{}, apperrors.NotFound(apperrors.CodeSubstitutionNotFound, userID)
	}
	return usersapimodels.SubstitutionConvert(*rec), nil
}

func (i impl) Remove(ctx context.Context, userID string) error {
	rec, err := i.stores.Substitutions.GetByUser(userID)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperrors.NotFound(apperrors.CodeSubstitutionNotFound, userID)
	}
	err = i.stores.Substitutions.Delete(rec.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления заместителя")
	}
	log.WithField("user_id", userID).Info("заместитель снят")
	return nil
}

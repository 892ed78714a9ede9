package permissionhandler

import (
	permissionstore "docflow-backend/lib/permission/store"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
)

// Provider проверка прав пользователя на документ.
// Права каждый раз читаются из хранилища: они меняются при создании версий и делегировании.
type Provider interface {
	LacksPermission(userID, documentID string, predicate models.PermissionPredicate) (bool, error)
	AssertHasPermission(userID, documentID string, predicate models.PermissionPredicate, label string) error
	// AssertHoldsPermission проверка внутри транзакции: права не меняются до ее завершения
	AssertHoldsPermission(userID, documentID string, predicate models.PermissionPredicate, label string) error
	Grant(userID, documentID string, permissions ...models.DocumentPermission) error
	Revoke(userID, documentID string, permissions ...models.DocumentPermission) error
	// GrantReaders выдает READ пользователям, у которых еще нет прав на документ
	GrantReaders(documentID string, userIDs ...string) error
}

// NewInstance обработчик создается на хранилище транзакции, в которой меняются права
func NewInstance(store permissionstore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store permissionstore.Provider
}

func (i impl) LacksPermission(userID, documentID string, predicate models.PermissionPredicate) (bool, error) {
	return lacks(i.store.Get, userID, documentID, predicate)
}

func lacks(get func(userID, documentID string) (*dbmodels.UserDocument, error), userID, documentID string, predicate models.PermissionPredicate) (bool, error) {
	rec, err := get(userID, documentID)
	if err != nil {
		return true, errors.Wrap(err, "ошибка получения прав на документ")
	}
	if rec == nil {
		return true, nil
	}
	return !rec.Has(predicate), nil
}

func (i impl) AssertHasPermission(userID, documentID string, predicate models.PermissionPredicate, label string) error {
	lacks, err := i.LacksPermission(userID, documentID, predicate)
	if err != nil {
		return err
	}
	if lacks {
		return apperrors.MissingDocumentPermission(label)
	}
	return nil
}

func (i impl) AssertHoldsPermission(userID, documentID string, predicate models.PermissionPredicate, label string) error {
	lacking, err := lacks(i.store.GetForShare, userID, documentID, predicate)
	if err != nil {
		return err
	}
	if lacking {
		return apperrors.MissingDocumentPermission(label)
	}
	return nil
}

func (i impl) Grant(userID, documentID string, permissions ...models.DocumentPermission) error {
	if len(permissions) == 0 {
		return nil
	}
	err := i.store.AddPermissions(userID, documentID, permissions)
	if err != nil {
		return errors.Wrap(err, "ошибка выдачи прав на документ")
	}
	return nil
}

func (i impl) Revoke(userID, documentID string, permissions ...models.DocumentPermission) error {
	if len(permissions) == 0 {
		return nil
	}
	err := i.store.RemovePermissions(userID, documentID, permissions)
	if err != nil {
		return errors.Wrap(err, "ошибка отзыва прав на документ")
	}
	return nil
}

func (i impl) GrantReaders(documentID string, userIDs ...string) error {
	for _, userID := range userIDs {
		rec, err := i.store.Get(userID, documentID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения прав на документ")
		}
		if rec != nil {
			continue
		}
		err = i.Grant(userID, documentID, models.ReadPermission)
		if err != nil {
			return err
		}
	}
	return nil
}

package subscriptionhandler

import (
	"context"
	"docflow-backend/db"
	notificationhandler "docflow-backend/lib/notification"
	permissionhandler "docflow-backend/lib/permission"
	"docflow-backend/lib/repository"
	apperrors "docflow-backend/lib/utils/app-errors"
	initchecker "docflow-backend/lib/utils/init-checker"
	"docflow-backend/models"
	documentapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider подписки пользователей на события документа
type Provider interface {
	Subscribe(ctx context.Context, documentID, userID string) (documentapimodels.SubscriptionView, error)
	Unsubscribe(ctx context.Context, documentID, userID string) error
	NotifySubscribers(documentID string, payload notificationhandler.Payload)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"notificationhandler", notificationhandler.Instance,
	)
	Instance = NewInstance(repository.NewStores(db.DB), notificationhandler.Instance)
}

func NewInstance(stores repository.Stores, notifier notificationhandler.Provider) Provider {
	return impl{
		stores:   stores,
		gate:     permissionhandler.NewInstance(stores.Permissions),
		notifier: notifier,
	}
}

type impl struct {
	stores   repository.Stores
	gate     permissionhandler.Provider
	notifier notificationhandler.Provider
}

func (i impl) GetLogger(documentID, userID string) *log.Entry {
	return log.
		WithField("document_id", documentID).
		WithField("user_id", userID)
}

func (i impl) Subscribe(ctx context.Context, documentID, userID string) (documentapimodels.SubscriptionView, error) {
	doc, err := i.stores.Documents.GetByID(documentID)
	if err != nil {
		return documentapimodels.SubscriptionView{}, err
	}
	if doc == nil {
		return documentapimodels.SubscriptionView{}, apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
	}
	err = i.gate.AssertHasPermission(userID, documentID, models.CanRead, "read")
	if err != nil {
		return documentapimodels.SubscriptionView{}, err
	}
	existing, err := i.stores.Subscriptions.Get(userID, documentID)
	if err != nil {
		return documentapimodels.SubscriptionView{}, err
	}
	if existing != nil {
		return documentapimodels.SubscriptionView{}, apperrors.Conflict(apperrors.CodeSubscriptionAlreadyExists, existing.ID)
	}
	rec := dbmodels.Subscription{
		UserID:     userID,
		DocumentID: documentID,
	}
	id, err := i.stores.Subscriptions.Create(rec)
	if err != nil {
		return documentapimodels.SubscriptionView{}, errors.Wrap(err, "ошибка создания подписки")
	}
	created, err := i.stores.Subscriptions.Get(userID, documentID)
	if err != nil {
		return documentapimodels.SubscriptionView{}, err
	}
	if created == nil {
		return documentapimodels.SubscriptionView{}, apperrors.NotFound(apperrors.CodeSubscriptionNotFound, id)
	}
	i.GetLogger(documentID, userID).Info("оформлена подписка на документ")
	return documentapimodels.SubscriptionConvert(*created), nil
}

func (i impl) Unsubscribe(ctx context.Context, documentID, userID string) error {
	existing, err := i.stores.Subscriptions.Get(userID, documentID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NotFound(apperrors.CodeSubscriptionNotFound, documentID)
	}
	err = i.stores.Subscriptions.Delete(existing.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления подписки")
	}
	i.GetLogger(documentID, userID).Info("подписка на документ удалена")
	return nil
}

func (i impl) NotifySubscribers(documentID string, payload notificationhandler.Payload) {
	list, err := i.stores.Subscriptions.ListByDocument(documentID)
	if err != nil {
		i.GetLogger(documentID, "").WithError(err).Error("ошибка получения подписчиков документа")
		return
	}
	userIDs := make([]string, 0, len(list))
	for _, rec := range list {
		userIDs = append(userIDs, rec.UserID)
	}
	i.notifier.NotifyUsers(userIDs, payload)
}

package documenthandler

import (
	"context"
	"docflow-backend/db"
	blobstorage "docflow-backend/lib/blob-storage"
	permissionhandler "docflow-backend/lib/permission"
	"docflow-backend/lib/repository"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/helpers"
	initchecker "docflow-backend/lib/utils/init-checker"
	"docflow-backend/models"
	documentapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider документы: создание, просмотр, удаление и явная выдача прав автором
type Provider interface {
	Create(ctx context.Context, userID string, data documentapimodels.DocumentData) (documentapimodels.DocumentView, error)
	Get(ctx context.Context, userID, documentID string) (documentapimodels.DocumentView, error)
	List(ctx context.Context, userID string) ([]documentapimodels.DocumentView, error)
	Delete(ctx context.Context, userID, documentID string) error
	Grant(ctx context.Context, userID, documentID string, data documentapimodels.GrantData) (documentapimodels.GrantView, error)
	Revoke(ctx context.Context, userID, documentID string, data documentapimodels.GrantData) error
	ListGrants(ctx context.Context, userID, documentID string) ([]documentapimodels.GrantView, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"blobstorage", blobstorage.Instance,
	)
	Instance = NewInstance(repository.NewInstance(db.DB), blobstorage.Instance)
}

func NewInstance(repo repository.Provider, blobs blobstorage.Provider) Provider {
	return impl{
		repo:  repo,
		blobs: blobs,
	}
}

type impl struct {
	repo  repository.Provider
	blobs blobstorage.Provider
}

func (i impl) GetLogger(documentID, userID string) *log.Entry {
	return log.
		WithField("document_id", documentID).
		WithField("user_id", userID)
}

func (i impl) Create(ctx context.Context, userID string, data documentapimodels.DocumentData) (documentapimodels.DocumentView, error) {
	if err := data.Validate(); err != nil {
		return documentapimodels.DocumentView{}, apperrors.InvalidRequest(err.Error())
	}
	stores := i.repo.Stores()
	docType, err := stores.DocumentTypes.GetByID(data.DocumentTypeID)
	if err != nil {
		return documentapimodels.DocumentView{}, err
	}
	if docType == nil {
		return documentapimodels.DocumentView{}, apperrors.NotFound(apperrors.CodeDocumentTypeNotFound, data.DocumentTypeID)
	}
	var documentID string
	err = i.repo.InTx(func(tx repository.Stores) error {
		rec := dbmodels.Document{
			DocumentTypeID: data.DocumentTypeID,
			Name:           data.Name,
			Status:         models.DocumentStatusDraft,
			AuthorID:       userID,
		}
		var err error
		documentID, err = tx.Documents.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания документа")
		}
		return permissionhandler.NewInstance(tx.Permissions).Grant(userID, documentID, models.CreatorPermission)
	})
	if err != nil {
		return documentapimodels.DocumentView{}, err
	}
	i.GetLogger(documentID, userID).Info("создан документ")
	return i.Get(ctx, userID, documentID)
}

func (i impl) Get(ctx context.Context, userID, documentID string) (documentapimodels.DocumentView, error) {
	stores := i.repo.Stores()
	doc, err := stores.Documents.GetByID(documentID)
	if err != nil {
		return documentapimodels.DocumentView{}, err
	}
	if doc == nil {
		return documentapimodels.DocumentView{}, apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
	}
	grant, err := stores.Permissions.Get(userID, documentID)
	if err != nil {
		return documentapimodels.DocumentView{}, err
	}
	if grant == nil || !grant.Has(models.CanRead) {
		return documentapimodels.DocumentView{}, apperrors.MissingDocumentPermission("read")
	}
	result := documentapimodels.DocumentConvert(*doc)
	result.Permissions = append([]string{}, grant.Permissions...)
	return result, nil
}

func (i impl) List(ctx context.Context, userID string) ([]documentapimodels.DocumentView, error) {
	stores := i.repo.Stores()
	list, err := stores.Documents.ListForUser(userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка документов")
	}
	result := make([]documentapimodels.DocumentView, 0, len(list))
	for _, doc := range list {
		grant, err := stores.Permissions.Get(userID, doc.ID)
		if err != nil {
			return nil, err
		}
		if grant == nil || !grant.Has(models.CanRead) {
			continue
		}
		view := documentapimodels.DocumentConvert(doc)
		view.Permissions = append([]string{}, grant.Permissions...)
		result = append(result, view)
	}
	return result, nil
}

// Delete удаляет документ вместе с версиями, голосованиями, подписями и правами.
// Содержимое версий удаляется из хранилища после фиксации транзакции.
func (i impl) Delete(ctx context.Context, userID, documentID string) error {
	logger := i.GetLogger(documentID, userID)
	err := i.assertCreator(userID, documentID)
	if err != nil {
		return err
	}
	var contentIDs []string
	err = i.repo.InTx(func(tx repository.Stores) error {
		if err := tx.Voting.DeleteByDocument(documentID); err != nil {
			return errors.Wrap(err, "ошибка удаления голосований")
		}
		if err := tx.Signatures.DeleteByDocument(documentID); err != nil {
			return errors.Wrap(err, "ошибка удаления подписей")
		}
		ids, err := tx.Versions.DeleteByDocument(documentID)
		if err != nil {
			return errors.Wrap(err, "ошибка удаления версий")
		}
		contentIDs = ids
		if err := tx.Subscriptions.DeleteByDocument(documentID); err != nil {
			return errors.Wrap(err, "ошибка удаления подписок")
		}
		if err := tx.Permissions.DeleteByDocument(documentID); err != nil {
			return errors.Wrap(err, "ошибка удаления прав")
		}
		if err := tx.Documents.Delete(documentID); err != nil {
			return errors.Wrap(err, "ошибка удаления документа")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("документ удален")

	// одно содержимое может использоваться несколькими версиями
	for _, ref := range helpers.Distinct(contentIDs) {
		_, err := i.blobs.Delete(context.WithoutCancel(ctx), ref)
		if err != nil {
			logger.
				WithField("content_id", ref).
				WithError(err).
				Warn("не удалось удалить содержимое удаленного документа")
		}
	}
	return nil
}

func (i impl) Grant(ctx context.Context, userID, documentID string, data documentapimodels.GrantData) (documentapimodels.GrantView, error) {
	if err := data.Validate(); err != nil {
		return documentapimodels.GrantView{}, apperrors.InvalidRequest(err.Error())
	}
	err := i.assertCreator(userID, documentID)
	if err != nil {
		return documentapimodels.GrantView{}, err
	}
	stores := i.repo.Stores()
	target, err := stores.Users.GetByID(data.UserID)
	if err != nil {
		return documentapimodels.GrantView{}, err
	}
	if target == nil {
		return documentapimodels.GrantView{}, apperrors.NotFound(apperrors.CodeUserNotFound, data.UserID)
	}
	err = permissionhandler.NewInstance(stores.Permissions).Grant(data.UserID, documentID, data.Permissions...)
	if err != nil {
		return documentapimodels.GrantView{}, err
	}
	rec, err := stores.Permissions.Get(data.UserID, documentID)
	if err != nil {
		return documentapimodels.GrantView{}, err
	}
	if rec == nil {
		return documentapimodels.GrantView{}, apperrors.MissingDocumentPermission("grant")
	}
	i.GetLogger(documentID, userID).
		WithField("target_user_id", data.UserID).
		WithField("permissions", data.Permissions).
		Info("выданы права на документ")
	return documentapimodels.GrantConvert(*rec), nil
}

func (i impl) Revoke(ctx context.Context, userID, documentID string, data documentapimodels.GrantData) error {
	if err := data.Validate(); err != nil {
		return apperrors.InvalidRequest(err.Error())
	}
	err := i.assertCreator(userID, documentID)
	if err != nil {
		return err
	}
	err = permissionhandler.NewInstance(i.repo.Stores().Permissions).Revoke(data.UserID, documentID, data.Permissions...)
	if err != nil {
		return err
	}
	i.GetLogger(documentID, userID).
		WithField("target_user_id", data.UserID).
		WithField("permissions", data.Permissions).
		Info("отозваны права на документ")
	return nil
}

func (i impl) ListGrants(ctx context.Context, userID, documentID string) ([]documentapimodels.GrantView, error) {
	stores := i.repo.Stores()
	doc, err := stores.Documents.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
	}
	err = permissionhandler.NewInstance(stores.Permissions).AssertHasPermission(userID, documentID, models.CanRead, "read")
	if err != nil {
		return nil, err
	}
	list, err := stores.Permissions.ListByDocument(documentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения прав на документ")
	}
	result := make([]documentapimodels.GrantView, 0, len(list))
	for _, rec := range list {
		result = append(result, documentapimodels.GrantConvert(rec))
	}
	return result, nil
}

func (i impl) assertCreator(userID, documentID string) error {
	stores := i.repo.Stores()
	doc, err := stores.Documents.GetByID(documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
	}
	return permissionhandler.NewInstance(stores.Permissions).AssertHasPermission(userID, documentID, models.IsCreator, "creator")
}

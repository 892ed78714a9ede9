package documentversionhandler

import (
	"context"
	"docflow-backend/db"
	attributehandler "docflow-backend/lib/attribute"
	blobstorage "docflow-backend/lib/blob-storage"
	notificationhandler "docflow-backend/lib/notification"
	permissionhandler "docflow-backend/lib/permission"
	"docflow-backend/lib/repository"
	subscriptionhandler "docflow-backend/lib/subscription"
	apperrors "docflow-backend/lib/utils/app-errors"
	initchecker "docflow-backend/lib/utils/init-checker"
	"docflow-backend/models"
	documentapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	CreateVersion(ctx context.Context, documentID, userID string, data documentapimodels.VersionData) (documentapimodels.VersionView, error)
	GetVersion(ctx context.Context, userID, versionID string) (documentapimodels.VersionView, error)
	ListVersions(ctx context.Context, userID, documentID string) ([]documentapimodels.VersionView, error)
	GetContent(ctx context.Context, userID, versionID string) (documentapimodels.ContentView, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"blobstorage", blobstorage.Instance,
		"subscriptionhandler", subscriptionhandler.Instance,
	)
	Instance = NewInstance(repository.NewInstance(db.DB), blobstorage.Instance, subscriptionhandler.Instance)
}

func NewInstance(repo repository.Provider, blobs blobstorage.Provider, subscriptions subscriptionhandler.Provider) Provider {
	return impl{
		repo:          repo,
		blobs:         blobs,
		subscriptions: subscriptions,
	}
}

type impl struct {
	repo          repository.Provider
	blobs         blobstorage.Provider
	subscriptions subscriptionhandler.Provider
}

func (i impl) GetLogger(documentID, userID string) *log.Entry {
	return log.
		WithField("document_id", documentID).
		WithField("user_id", userID)
}

func (i impl) CreateVersion(ctx context.Context, documentID, userID string, data documentapimodels.VersionData) (view documentapimodels.VersionView, err error) {
	logger := i.GetLogger(documentID, userID)
	stores := i.repo.Stores()
	doc, err := stores.Documents.GetByID(documentID)
	if err != nil {
		return documentapimodels.VersionView{}, err
	}
	if doc == nil {
		return documentapimodels.VersionView{}, apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
	}
	err = permissionhandler.NewInstance(stores.Permissions).AssertHasPermission(userID, documentID, models.CanEdit, "edit")
	if err != nil {
		return documentapimodels.VersionView{}, err
	}
	// проверяем атрибуты до загрузки содержимого, чтобы не загружать его зря
	latest, err := stores.Versions.GetLatest(documentID)
	if err != nil {
		return documentapimodels.VersionView{}, err
	}
	_, err = resolveValues(attributehandler.NewInstance(stores), *doc, latest, data.Attributes)
	if err != nil {
		return documentapimodels.VersionView{}, err
	}

	uploadedRef := ""
	if data.Content != nil {
		uploadedRef, err = i.blobs.Put(ctx, data.Content.Data, data.Content.Type)
		if err != nil {
			return documentapimodels.VersionView{}, apperrors.Infrastructure(err, apperrors.CodeBlobStorageFailure)
		}
	}
	defer func() {
		if err != nil && uploadedRef != "" {
			i.compensate(ctx, logger, uploadedRef)
		}
	}()

	var version *dbmodels.DocumentVersion
	var revoked []string
	err = i.repo.InTx(func(tx repository.Stores) error {
		// строка документа блокируется: номера версий выдаются по очереди
		locked, err := tx.Documents.GetForUpdate(documentID)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
		}
		err = permissionhandler.NewInstance(tx.Permissions).AssertHoldsPermission(userID, documentID, models.CanEdit, "edit")
		if err != nil {
			return err
		}
		doc = locked
		latest, err := tx.Versions.GetLatest(documentID)
		if err != nil {
			return err
		}
		values, err := resolveValues(attributehandler.NewInstance(tx), *doc, latest, data.Attributes)
		if err != nil {
			return err
		}
		rec := dbmodels.DocumentVersion{
			DocumentID: documentID,
			Number:     1,
			AuthorID:   userID,
			Values:     values,
		}
		if latest != nil {
			rec.Number = latest.Number + 1
		}
		if data.Content != nil {
			rec.ContentID = &uploadedRef
			rec.ContentName = data.Content.Name
			rec.ContentType = data.Content.Type
		} else if latest != nil {
			rec.ContentID = latest.ContentID
			rec.ContentName = latest.ContentName
			rec.ContentType = latest.ContentType
		}
		versionID, err := tx.Versions.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка сохранения версии документа")
		}
		revoked, err = tx.Permissions.DeleteReadOnly(documentID)
		if err != nil {
			return errors.Wrap(err, "ошибка отзыва прав на чтение")
		}
		version, err = tx.Versions.GetByID(versionID)
		if err != nil {
			return err
		}
		if version == nil {
			return apperrors.NotFound(apperrors.CodeDocumentVersionNotFound, versionID)
		}
		return nil
	})
	if err != nil {
		return documentapimodels.VersionView{}, err
	}

	logger.
		WithField("version_id", version.ID).
		WithField("number", version.Number).
		WithField("revoked_readers", len(revoked)).
		Info("создана версия документа")
	if i.subscriptions != nil {
		i.subscriptions.NotifySubscribers(documentID, notificationhandler.VersionCreated(*doc, *version))
	}
	return documentapimodels.VersionConvert(*version), nil
}

// compensate удаляет только что загруженное содержимое, если версию сохранить не удалось
func (i impl) compensate(ctx context.Context, logger *log.Entry, ref string) {
	_, err := i.blobs.Delete(context.WithoutCancel(ctx), ref)
	if err != nil {
		logger.
			WithField("content_id", ref).
			WithError(err).
			Error("ошибка удаления загруженного содержимого")
		return
	}
	logger.WithField("content_id", ref).Warn("загруженное содержимое удалено, версия не создана")
}

// resolveValues значения атрибутов новой версии.
// Без атрибутов копируются значения последней версии, первая версия без атрибутов недопустима.
func resolveValues(catalog attributehandler.Provider, doc dbmodels.Document, latest *dbmodels.DocumentVersion, requested []documentapimodels.AttributeValueData) ([]dbmodels.AttributeValue, error) {
	if requested == nil {
		if latest == nil {
			mandatory, err := catalog.MandatoryIDs(doc.DocumentTypeID)
			if err != nil {
				return nil, err
			}
			return nil, apperrors.InvalidState(apperrors.CodeMissingAttributes, doc.ID, mandatory...)
		}
		values := make([]dbmodels.AttributeValue, 0, len(latest.Values))
		for _, value := range latest.Values {
			values = append(values, dbmodels.AttributeValue{
				AttributeID: value.AttributeID,
				Value:       value.Value,
			})
		}
		return values, nil
	}

	supplied := map[string]bool{}
	values := make([]dbmodels.AttributeValue, 0, len(requested))
	for _, item := range requested {
		if supplied[item.AttributeID] {
			return nil, apperrors.InvalidRequest("атрибут указан несколько раз: " + item.AttributeID)
		}
		supplied[item.AttributeID] = true
		values = append(values, dbmodels.AttributeValue{
			AttributeID: item.AttributeID,
			Value:       item.Value,
		})
	}
	mandatory, err := catalog.MandatoryIDs(doc.DocumentTypeID)
	if err != nil {
		return nil, err
	}
	missing := []string{}
	for _, attributeID := range mandatory {
		if !supplied[attributeID] {
			missing = append(missing, attributeID)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.InvalidState(apperrors.CodeMissingAttributes, doc.ID, missing...)
	}
	for _, item := range requested {
		linked, err := catalog.IsLinked(doc.DocumentTypeID, item.AttributeID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, apperrors.NotFound(apperrors.CodeAttributeNotFound, item.AttributeID)
		}
	}
	return values, nil
}

// readableVersion версия и проверка права чтения на ее документ
func (i impl) readableVersion(userID, versionID string) (*dbmodels.DocumentVersion, error) {
	stores := i.repo.Stores()
	version, err := stores.Versions.GetByID(versionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, apperrors.NotFound(apperrors.CodeDocumentVersionNotFound, versionID)
	}
	err = permissionhandler.NewInstance(stores.Permissions).AssertHasPermission(userID, version.DocumentID, models.CanRead, "read")
	if err != nil {
		return nil, err
	}
	return version, nil
}

func (i impl) GetVersion(ctx context.Context, userID, versionID string) (documentapimodels.VersionView, error) {
	version, err := i.readableVersion(userID, versionID)
	if err != nil {
		return documentapimodels.VersionView{}, err
	}
	return documentapimodels.VersionConvert(*version), nil
}

func (i impl) ListVersions(ctx context.Context, userID, documentID string) ([]documentapimodels.VersionView, error) {
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
	list, err := stores.Versions.List(documentID)
	if err != nil {
		return nil, err
	}
	result := make([]documentapimodels.VersionView, 0, len(list))
	for _, rec := range list {
		result = append(result, documentapimodels.VersionConvert(rec))
	}
	return result, nil
}

func (i impl) GetContent(ctx context.Context, userID, versionID string) (documentapimodels.ContentView, error) {
	version, err := i.readableVersion(userID, versionID)
	if err != nil {
		return documentapimodels.ContentView{}, err
	}
	if version.ContentID == nil {
		return documentapimodels.ContentView{}, apperrors.NotFound(apperrors.CodeContentNotFound, versionID)
	}
	content, err := i.blobs.Get(ctx, *version.ContentID)
	if err != nil {
		return documentapimodels.ContentView{}, apperrors.Infrastructure(err, apperrors.CodeBlobStorageFailure)
	}
	if content == nil {
		return documentapimodels.ContentView{}, apperrors.NotFound(apperrors.CodeContentNotFound, *version.ContentID)
	}
	return documentapimodels.ContentView{
		Name: version.ContentName,
		Type: version.ContentType,
		Data: content,
	}, nil
}

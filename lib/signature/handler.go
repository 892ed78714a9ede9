package signaturehandler

import (
	"context"
	"docflow-backend/db"
	notificationhandler "docflow-backend/lib/notification"
	permissionhandler "docflow-backend/lib/permission"
	"docflow-backend/lib/repository"
	usershandler "docflow-backend/lib/users"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/helpers"
	initchecker "docflow-backend/lib/utils/init-checker"
	"docflow-backend/models"
	votingapimodels "docflow-backend/models/api/voting"
	dbmodels "docflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider подписание последней версии документа
type Provider interface {
	SendForSigning(ctx context.Context, documentID, userID string, data votingapimodels.SignatureData) ([]votingapimodels.SignatureView, error)
	Sign(ctx context.Context, signatureID, userID string) (votingapimodels.SignatureView, error)
	List(ctx context.Context, documentID, userID string) ([]votingapimodels.SignatureView, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"notificationhandler", notificationhandler.Instance,
	)
	Instance = NewInstance(repository.NewInstance(db.DB), notificationhandler.Instance)
}

func NewInstance(repo repository.Provider, notifier notificationhandler.Provider) Provider {
	return impl{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

type impl struct {
	repo     repository.Provider
	notifier notificationhandler.Provider
	now      func() time.Time
}

func (i impl) GetLogger(documentID, userID string) *log.Entry {
	return log.
		WithField("document_id", documentID).
		WithField("user_id", userID)
}

func (i impl) SendForSigning(ctx context.Context, documentID, userID string, data votingapimodels.SignatureData) ([]votingapimodels.SignatureView, error) {
	if err := data.Validate(); err != nil {
		return nil, apperrors.InvalidRequest(err.Error())
	}
	stores := i.repo.Stores()
	doc, err := stores.Documents.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
	}
	err = permissionhandler.NewInstance(stores.Permissions).AssertHasPermission(userID, documentID, models.CanSendForSigning, "send_for_signing")
	if err != nil {
		return nil, err
	}
	signerIDs := helpers.Distinct(data.SignerIDs)
	if len(signerIDs) != len(data.SignerIDs) {
		return nil, apperrors.InvalidRequest("подписанты повторяются")
	}
	if err = usershandler.AssertExist(stores.Users, signerIDs); err != nil {
		return nil, err
	}

	now := i.now()
	var versionID string
	err = i.repo.InTx(func(tx repository.Stores) error {
		locked, err := tx.Documents.GetForUpdate(documentID)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
		}
		err = permissionhandler.NewInstance(tx.Permissions).AssertHoldsPermission(userID, documentID, models.CanSendForSigning, "send_for_signing")
		if err != nil {
			return err
		}
		doc = locked
		latest, err := tx.Versions.GetLatest(documentID)
		if err != nil {
			return err
		}
		if latest == nil {
			return apperrors.NotFound(apperrors.CodeDocumentVersionNotFound, documentID)
		}
		versionID = latest.ID
		moved, err := tx.Documents.UpdateStatus(documentID, models.RoundStartStatuses, models.DocumentStatusSignatureInProgress)
		if err != nil {
			return errors.Wrap(err, "ошибка смены статуса документа")
		}
		if !moved {
			return apperrors.InvalidState(apperrors.CodeStatusIncorrectForRound, documentID, string(doc.Status))
		}
		for _, signerID := range signerIDs {
			existing, err := tx.Signatures.GetByUser(latest.ID, signerID)
			if err != nil {
				return err
			}
			if existing != nil {
				return apperrors.Conflict(apperrors.CodeSignatureAlreadyExists, existing.ID)
			}
			_, err = tx.Signatures.Create(dbmodels.Signature{
				Name:              data.Name,
				Status:            models.SignatureNotSigned,
				SentAt:            now,
				UserID:            signerID,
				DocumentVersionID: latest.ID,
				DocumentID:        documentID,
			})
			if err != nil {
				return errors.Wrap(err, "ошибка создания подписи")
			}
		}
		return permissionhandler.NewInstance(tx.Permissions).GrantReaders(documentID, signerIDs...)
	})
	if err != nil {
		return nil, err
	}

	list, err := stores.Signatures.ListByVersion(versionID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения подписей")
	}
	result := make([]votingapimodels.SignatureView, 0, len(list))
	for _, rec := range list {
		result = append(result, votingapimodels.SignatureConvert(rec))
		if i.notifier != nil {
			i.notifier.NotifyUsers([]string{rec.UserID}, notificationhandler.SignatureRequested(*doc, rec))
		}
	}
	i.GetLogger(documentID, userID).
		WithField("signers", len(signerIDs)).
		Info("документ отправлен на подпись")
	return result, nil
}

func (i impl) Sign(ctx context.Context, signatureID, userID string) (votingapimodels.SignatureView, error) {
	now := i.now()
	var signature *dbmodels.Signature
	var signedDoc *dbmodels.Document
	err := i.repo.InTx(func(tx repository.Stores) error {
		var err error
		signature, err = tx.Signatures.GetByID(signatureID)
		if err != nil {
			return err
		}
		if signature == nil {
			return apperrors.NotFound(apperrors.CodeSignatureNotFound, signatureID)
		}
		if signature.UserID != userID {
			return apperrors.MissingDocumentPermission("sign")
		}
		// блокировка документа, чтобы последние подписи не разошлись при подсчете
		doc, err := tx.Documents.GetForUpdate(signature.DocumentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return apperrors.NotFound(apperrors.CodeDocumentNotFound, signature.DocumentID)
		}
		if doc.Status != models.DocumentStatusSignatureInProgress {
			return apperrors.InvalidState(apperrors.CodeStatusIncorrectForSigning, doc.ID, string(doc.Status))
		}
		signed, err := tx.Signatures.MarkSigned(signatureID, now)
		if err != nil {
			return errors.Wrap(err, "ошибка сохранения подписи")
		}
		if !signed {
			return apperrors.InvalidState(apperrors.CodeSignatureAlreadySigned, signatureID)
		}
		signature.Status = models.SignatureSigned
		signature.SignedAt = &now
		left, err := tx.Signatures.CountUnsigned(signature.DocumentVersionID)
		if err != nil {
			return errors.Wrap(err, "ошибка подсчета подписей")
		}
		if left > 0 {
			return nil
		}
		_, err = tx.Documents.UpdateStatus(doc.ID, []models.DocumentStatus{models.DocumentStatusSignatureInProgress}, models.DocumentStatusSigned)
		if err != nil {
			return errors.Wrap(err, "ошибка смены статуса документа")
		}
		signedDoc = doc
		return nil
	})
	if err != nil {
		return votingapimodels.SignatureView{}, err
	}
	logger := i.GetLogger(signature.DocumentID, userID).WithField("signature_id", signatureID)
	logger.Info("документ подписан участником")
	if signedDoc != nil {
		logger.Info("документ подписан всеми участниками")
		i.notifySigned(*signedDoc, signature.DocumentVersionID)
	}
	return votingapimodels.SignatureConvert(*signature), nil
}

func (i impl) notifySigned(doc dbmodels.Document, versionID string) {
	if i.notifier == nil {
		return
	}
	recipients := []string{doc.AuthorID}
	list, err := i.repo.Stores().Signatures.ListByVersion(versionID)
	if err != nil {
		i.GetLogger(doc.ID, "").WithError(err).Error("ошибка получения подписантов для уведомления")
	}
	for _, rec := range list {
		recipients = append(recipients, rec.UserID)
	}
	i.notifier.NotifyUsers(recipients, notificationhandler.DocumentSigned(doc))
}

func (i impl) List(ctx context.Context, documentID, userID string) ([]votingapimodels.SignatureView, error) {
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
	list, err := stores.Signatures.ListByDocument(documentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения подписей")
	}
	result := make([]votingapimodels.SignatureView, 0, len(list))
	for _, rec := range list {
		result = append(result, votingapimodels.SignatureConvert(rec))
	}
	return result, nil
}

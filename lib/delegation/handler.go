package delegationhandler

import (
	"context"
	"docflow-backend/db"
	notificationhandler "docflow-backend/lib/notification"
	permissionhandler "docflow-backend/lib/permission"
	"docflow-backend/lib/repository"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/helpers"
	initchecker "docflow-backend/lib/utils/init-checker"
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider передача незакрытого голоса или подписи коллеге из своего подразделения
type Provider interface {
	Delegate(ctx context.Context, documentID, currentUserID, delegateEmail string) error
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

func (i impl) Delegate(ctx context.Context, documentID, currentUserID, delegateEmail string) error {
	stores := i.repo.Stores()
	current, err := stores.Users.GetByID(currentUserID)
	if err != nil {
		return err
	}
	if current == nil {
		return apperrors.NotFound(apperrors.CodeUserNotFound, currentUserID)
	}
	delegate, err := stores.Users.FindByEmail(helpers.NormalizeEmail(delegateEmail))
	if err != nil {
		return err
	}
	if delegate == nil {
		return apperrors.NotFound(apperrors.CodeUserNotFound, delegateEmail)
	}
	if !current.IsColleague(*delegate) {
		return apperrors.PermissionDenied(apperrors.CodeOnlyYourDepartment, delegate.ID)
	}
	lacks, err := permissionhandler.NewInstance(stores.Permissions).LacksPermission(currentUserID, documentID, models.IsCreator)
	if err != nil {
		return err
	}
	if lacks {
		return apperrors.InvalidState(apperrors.CodeInvalidDocumentForDelegation, documentID)
	}

	var doc *dbmodels.Document
	err = i.repo.InTx(func(tx repository.Stores) error {
		var err error
		doc, err = tx.Documents.GetForUpdate(documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
		}
		err = permissionhandler.NewInstance(tx.Permissions).AssertHoldsPermission(currentUserID, documentID, models.IsCreator, "creator")
		if apperrors.IsCode(err, apperrors.CodeMissingDocumentPermission) {
			return apperrors.InvalidState(apperrors.CodeInvalidDocumentForDelegation, documentID)
		}
		if err != nil {
			return err
		}
		latest, err := tx.Versions.GetLatest(documentID)
		if err != nil {
			return err
		}
		switch doc.Status {
		case models.DocumentStatusVotingInProgress:
			if latest == nil {
				return apperrors.NotFound(apperrors.CodeVoteNotFound, documentID)
			}
			err = moveVote(tx, latest.ID, currentUserID, delegate.ID)
		case models.DocumentStatusSignatureInProgress:
			if latest == nil {
				return apperrors.NotFound(apperrors.CodeSignatureNotFound, documentID)
			}
			err = moveSignature(tx, latest.ID, currentUserID, delegate.ID, i.now())
		default:
			return apperrors.InvalidState(apperrors.CodeStatusIncorrectForDelegation, documentID, string(doc.Status))
		}
		if err != nil {
			return err
		}
		return permissionhandler.NewInstance(tx.Permissions).Grant(delegate.ID, documentID, models.ReadPermission)
	})
	if err != nil {
		return err
	}
	i.GetLogger(documentID, currentUserID).
		WithField("delegate_id", delegate.ID).
		WithField("status", doc.Status).
		Info("участие в согласовании передано")
	if i.notifier != nil {
		i.notifier.Notify(delegate.Email, notificationhandler.Delegated(*doc, *current))
	}
	return nil
}

// moveVote переназначает голос открытого голосования последней версии
func moveVote(tx repository.Stores, versionID, fromUserID, toUserID string) error {
	processes, err := tx.Voting.ListByVersion(versionID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения голосований версии")
	}
	if len(processes) == 0 {
		return apperrors.NotFound(apperrors.CodeVoteNotFound, versionID)
	}
	var open *dbmodels.VotingProcess
	for n := range processes {
		if processes[n].Status == models.VotingInProgress {
			open = &processes[n]
			break
		}
	}
	if open == nil {
		return apperrors.InvalidState(apperrors.CodeVotingProcessIsOver, processes[0].ID)
	}
	process, err := tx.Voting.GetForUpdate(open.ID)
	if err != nil {
		return err
	}
	if process == nil {
		return apperrors.NotFound(apperrors.CodeVotingProcessNotFound, open.ID)
	}
	if process.Status.IsTerminal() {
		return apperrors.InvalidState(apperrors.CodeVotingProcessIsOver, process.ID)
	}
	existing, err := tx.Voting.GetVote(process.ID, toUserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.Conflict(apperrors.CodeVoteAlreadyExists, existing.ID)
	}
	vote, err := tx.Voting.GetVote(process.ID, fromUserID)
	if err != nil {
		return err
	}
	if vote == nil {
		return apperrors.NotFound(apperrors.CodeVoteNotFound, process.ID)
	}
	err = tx.Voting.UpdateVote(vote.ID, map[string]interface{}{
		"user_id": toUserID,
		"status":  models.VoteNotVoted,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка переназначения голоса")
	}
	return nil
}

// moveSignature переназначает неподписанную подпись последней версии
func moveSignature(tx repository.Stores, versionID, fromUserID, toUserID string, now time.Time) error {
	existing, err := tx.Signatures.GetByUser(versionID, toUserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.Conflict(apperrors.CodeSignatureAlreadyExists, existing.ID)
	}
	signature, err := tx.Signatures.GetByUser(versionID, fromUserID)
	if err != nil {
		return err
	}
	if signature == nil {
		return apperrors.NotFound(apperrors.CodeSignatureNotFound, versionID)
	}
	if signature.Status == models.SignatureSigned {
		return apperrors.InvalidState(apperrors.CodeSignatureAlreadySigned, signature.ID)
	}
	err = tx.Signatures.Update(signature.ID, map[string]interface{}{
		"user_id":   toUserID,
		"status":    models.SignatureNotSigned,
		"sent_at":   now,
		"signed_at": nil,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка переназначения подписи")
	}
	return nil
}

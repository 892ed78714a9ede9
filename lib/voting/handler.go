package votinghandler

import (
	"context"
	"docflow-backend/config"
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

type Provider interface {
	Start(ctx context.Context, documentID, userID string, data votingapimodels.VotingData) (votingapimodels.VotingView, error)
	CastVote(ctx context.Context, votingProcessID, userID string, status models.VoteStatus) (votingapimodels.VoteView, error)
	// Close завершает голосование по текущему подсчету; false, если оно уже завершено
	Close(ctx context.Context, votingProcessID string, now time.Time) (bool, error)
	Get(ctx context.Context, userID, votingProcessID string) (votingapimodels.VotingView, error)
	ListForDocument(ctx context.Context, userID, documentID string) ([]votingapimodels.VotingView, error)
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
		repo:            repo,
		notifier:        notifier,
		now:             time.Now,
		earlyResolution: config.IsEarlyResolution(),
	}
}

type impl struct {
	repo            repository.Provider
	notifier        notificationhandler.Provider
	now             func() time.Time
	earlyResolution bool
}

// completion уведомление о завершении, отправляется после фиксации транзакции
type completion struct {
	recipients []string
	payload    notificationhandler.Payload
}

func (i impl) GetLogger(votingProcessID, userID string) *log.Entry {
	return log.
		WithField("voting_process_id", votingProcessID).
		WithField("user_id", userID)
}

func (i impl) Start(ctx context.Context, documentID, userID string, data votingapimodels.VotingData) (votingapimodels.VotingView, error) {
	now := i.now()
	if err := data.Validate(now); err != nil {
		return votingapimodels.VotingView{}, apperrors.InvalidRequest(err.Error())
	}
	stores := i.repo.Stores()
	doc, err := stores.Documents.GetByID(documentID)
	if err != nil {
		return votingapimodels.VotingView{}, err
	}
	if doc == nil {
		return votingapimodels.VotingView{}, apperrors.NotFound(apperrors.CodeDocumentNotFound, documentID)
	}
	err = permissionhandler.NewInstance(stores.Permissions).AssertHasPermission(userID, documentID, models.CanSendForSigning, "send_for_signing")
	if err != nil {
		return votingapimodels.VotingView{}, err
	}
	participantIDs := helpers.Distinct(data.ParticipantIDs)
	if len(participantIDs) != len(data.ParticipantIDs) {
		return votingapimodels.VotingView{}, apperrors.InvalidRequest("участники голосования повторяются")
	}
	if err = usershandler.AssertExist(stores.Users, participantIDs); err != nil {
		return votingapimodels.VotingView{}, err
	}

	var processID string
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
		moved, err := tx.Documents.UpdateStatus(documentID, models.RoundStartStatuses, models.DocumentStatusVotingInProgress)
		if err != nil {
			return errors.Wrap(err, "ошибка смены статуса документа")
		}
		if !moved {
			return apperrors.InvalidState(apperrors.CodeStatusIncorrectForRound, documentID, string(doc.Status))
		}
		rec := dbmodels.VotingProcess{
			Name:              data.Name,
			Threshold:         data.Threshold,
			Status:            models.VotingInProgress,
			Deadline:          data.Deadline,
			DocumentVersionID: latest.ID,
			DocumentID:        documentID,
			AuthorID:          userID,
		}
		for _, participantID := range participantIDs {
			rec.Votes = append(rec.Votes, dbmodels.Vote{
				Status: models.VoteNotVoted,
				UserID: participantID,
			})
		}
		processID, err = tx.Voting.Create(rec)
		if err != nil {
			return errors.Wrap(err, "ошибка создания голосования")
		}
		return permissionhandler.NewInstance(tx.Permissions).GrantReaders(documentID, participantIDs...)
	})
	if err != nil {
		return votingapimodels.VotingView{}, err
	}

	process, err := stores.Voting.GetByID(processID)
	if err != nil {
		return votingapimodels.VotingView{}, err
	}
	if process == nil {
		return votingapimodels.VotingView{}, apperrors.NotFound(apperrors.CodeVotingProcessNotFound, processID)
	}
	i.GetLogger(processID, userID).
		WithField("document_id", documentID).
		WithField("participants", len(participantIDs)).
		Info("голосование запущено")
	i.notifier.NotifyUsers(participantIDs, notificationhandler.VoteRequested(*doc, *process))
	return votingapimodels.VotingConvert(*process), nil
}

func (i impl) CastVote(ctx context.Context, votingProcessID, userID string, status models.VoteStatus) (votingapimodels.VoteView, error) {
	if err := (votingapimodels.VoteData{Status: status}).Validate(); err != nil {
		return votingapimodels.VoteView{}, apperrors.InvalidRequest(err.Error())
	}
	logger := i.GetLogger(votingProcessID, userID)
	now := i.now()
	var vote *dbmodels.Vote
	var done *completion
	err := i.repo.InTx(func(tx repository.Stores) error {
		process, err := tx.Voting.GetForUpdate(votingProcessID)
		if err != nil {
			return err
		}
		if process == nil {
			return apperrors.NotFound(apperrors.CodeVotingProcessNotFound, votingProcessID)
		}
		vote, err = tx.Voting.GetVote(votingProcessID, userID)
		if err != nil {
			return err
		}
		if vote == nil {
			return apperrors.NotFound(apperrors.CodeVoteNotFound, votingProcessID)
		}
		if process.Status.IsTerminal() || process.Deadline.Before(now) {
			return apperrors.InvalidState(apperrors.CodeVotingProcessIsOver, votingProcessID)
		}
		err = tx.Voting.UpdateVote(vote.ID, map[string]interface{}{"status": status})
		if err != nil {
			return errors.Wrap(err, "ошибка сохранения голоса")
		}
		vote.Status = status
		if !i.earlyResolution {
			return nil
		}
		process, err = tx.Voting.GetForUpdate(votingProcessID)
		if err != nil {
			return err
		}
		if process == nil || !process.AllVoted() {
			return nil
		}
		done, err = i.closeLocked(tx, *process, now)
		return err
	})
	if err != nil {
		return votingapimodels.VoteView{}, err
	}
	logger.WithField("status", status).Info("голос учтен")
	i.sendCompletion(done)
	return votingapimodels.VoteConvert(*vote), nil
}

func (i impl) Close(ctx context.Context, votingProcessID string, now time.Time) (bool, error) {
	var done *completion
	err := i.repo.InTx(func(tx repository.Stores) error {
		process, err := tx.Voting.GetForUpdate(votingProcessID)
		if err != nil {
			return err
		}
		if process == nil {
			return apperrors.NotFound(apperrors.CodeVotingProcessNotFound, votingProcessID)
		}
		done, err = i.closeLocked(tx, *process, now)
		return err
	})
	if err != nil {
		return false, err
	}
	i.sendCompletion(done)
	return done != nil, nil
}

// closeLocked вызывается в транзакции под блокировкой строки голосования.
// Завершенное голосование пропускается, поэтому повторное закрытие ничего не меняет.
func (i impl) closeLocked(tx repository.Stores, process dbmodels.VotingProcess, now time.Time) (*completion, error) {
	logger := i.GetLogger(process.ID, "")
	if process.Status.IsTerminal() {
		return nil, nil
	}
	favour, against := process.Tally()
	status := Resolve(favour, against, process.Threshold)
	resolved, err := tx.Voting.Resolve(process.ID, status, now)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка сохранения итога голосования")
	}
	if !resolved {
		return nil, nil
	}
	moved, err := tx.Documents.UpdateStatus(process.DocumentID, []models.DocumentStatus{models.DocumentStatusVotingInProgress}, status.ToDocumentStatus())
	if err != nil {
		return nil, errors.Wrap(err, "ошибка смены статуса документа")
	}
	if !moved {
		logger.
			WithField("document_id", process.DocumentID).
			Warn("документ уже не на голосовании, статус документа не изменен")
	}
	doc, err := tx.Documents.GetByID(process.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperrors.NotFound(apperrors.CodeDocumentNotFound, process.DocumentID)
	}
	process.Status = status
	recipients := []string{doc.AuthorID}
	for _, vote := range process.Votes {
		recipients = append(recipients, vote.UserID)
	}
	logger.
		WithField("document_id", process.DocumentID).
		WithField("favour", favour).
		WithField("against", against).
		WithField("status", status).
		Info("голосование завершено")
	return &completion{
		recipients: recipients,
		payload:    notificationhandler.VotingCompleted(*doc, process, now),
	}, nil
}

func (i impl) sendCompletion(done *completion) {
	if done == nil || i.notifier == nil {
		return
	}
	i.notifier.NotifyUsers(done.recipients, done.payload)
}

func (i impl) Get(ctx context.Context, userID, votingProcessID string) (votingapimodels.VotingView, error) {
	stores := i.repo.Stores()
	process, err := stores.Voting.GetByID(votingProcessID)
	if err != nil {
		return votingapimodels.VotingView{}, err
	}
	if process == nil {
		return votingapimodels.VotingView{}, apperrors.NotFound(apperrors.CodeVotingProcessNotFound, votingProcessID)
	}
	err = permissionhandler.NewInstance(stores.Permissions).AssertHasPermission(userID, process.DocumentID, models.CanRead, "read")
	if err != nil {
		return votingapimodels.VotingView{}, err
	}
	return votingapimodels.VotingConvert(*process), nil
}

func (i impl) ListForDocument(ctx context.Context, userID, documentID string) ([]votingapimodels.VotingView, error) {
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
	list, err := stores.Voting.ListByDocument(documentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения голосований документа")
	}
	result := make([]votingapimodels.VotingView, 0, len(list))
	for _, rec := range list {
		result = append(result, votingapimodels.VotingConvert(rec))
	}
	return result, nil
}

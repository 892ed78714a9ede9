package delegationhandler

import (
	"context"
	notificationhandler "docflow-backend/lib/notification"
	"docflow-backend/lib/repository"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/memstore"
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memstore.Store
	handler    impl
	clock      time.Time
	creatorID  string
	peerID     string
	voterID    string
	foreignID  string
	documentID string
	versionID  string
}

func newFixture(status models.DocumentStatus) *fixture {
	store := memstore.New()
	f := &fixture{
		store: store,
		clock: time.Date(2026, 4, 7, 14, 0, 0, 0, time.UTC),
	}
	f.handler = impl{
		repo:     store,
		notifier: notificationhandler.NewInstance(store.Stores()),
		now:      func() time.Time { return f.clock },
	}
	departmentID := store.AddDepartment("Отдел закупок")
	otherDepartmentID := store.AddDepartment("Отдел продаж")
	f.creatorID = store.AddUser("Ксения", "xenia@docflow.ru", departmentID, true)
	f.peerID = store.AddUser("Юрий", "yuri@docflow.ru", departmentID, true)
	f.voterID = store.AddUser("Зоя", "zoya@docflow.ru", departmentID, true)
	f.foreignID = store.AddUser("Федор", "fedor@docflow.ru", otherDepartmentID, true)
	typeID := store.AddDocumentType("Заявка")
	f.documentID = store.AddDocument(typeID, "Заявка на закупку", f.creatorID, status)
	f.versionID = store.AddVersion(f.documentID, f.creatorID, 1, nil)
	return f
}

func (f *fixture) startVoting(t *testing.T, participants ...string) string {
	rec := dbmodels.VotingProcess{
		Name:              "Закупка",
		Threshold:         0.5,
		Status:            models.VotingInProgress,
		Deadline:          f.clock.Add(24 * time.Hour),
		DocumentVersionID: f.versionID,
		DocumentID:        f.documentID,
		AuthorID:          f.creatorID,
	}
	for _, id := range participants {
		rec.Votes = append(rec.Votes, dbmodels.Vote{Status: models.VoteInFavour, UserID: id})
	}
	id, err := f.store.Stores().Voting.Create(rec)
	require.NoError(t, err)
	return id
}

func TestDelegateVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.DocumentStatusVotingInProgress)
	processID := f.startVoting(t, f.creatorID, f.voterID)
	before := f.store.Votes(processID)

	err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "Yuri@Docflow.ru")
	require.NoError(t, err)

	after := f.store.Votes(processID)
	require.Len(t, after, 2)
	var moved dbmodels.Vote
	for _, vote := range after {
		require.NotEqual(t, f.creatorID, vote.UserID)
		if vote.UserID == f.peerID {
			moved = vote
		}
	}
	require.Equal(t, models.VoteNotVoted, moved.Status)
	require.Equal(t, before[0].ID, moved.ID)
	require.Equal(t, []string{"READ"}, f.store.Grants(f.documentID)[f.peerID])

	events := f.store.Notifications()
	require.Len(t, events, 1)
	require.Equal(t, models.EventDelegated, events[0].Event)
	require.Equal(t, "yuri@docflow.ru", events[0].Email)

	t.Run("у получателя уже есть голос", func(t *testing.T) {
		f.store.Grant(f.voterID, f.documentID, models.CreatorPermission)
		err := f.handler.Delegate(ctx, f.documentID, f.voterID, "yuri@docflow.ru")
		require.True(t, apperrors.IsCode(err, apperrors.CodeVoteAlreadyExists))
	})
}

func TestDelegateOtherDepartment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.DocumentStatusVotingInProgress)
	processID := f.startVoting(t, f.creatorID)
	before := f.store.Votes(processID)
	grants := f.store.Grants(f.documentID)

	err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "fedor@docflow.ru")
	require.True(t, apperrors.IsCode(err, apperrors.CodeOnlyYourDepartment))
	require.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	require.Equal(t, before, f.store.Votes(processID))
	require.Equal(t, grants, f.store.Grants(f.documentID))
	require.Empty(t, f.store.Notifications())

	t.Run("неактивный коллега", func(t *testing.T) {
		inactiveID := f.store.AddUser("Лев", "lev@docflow.ru", "", false)
		require.NotEmpty(t, inactiveID)
		err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "lev@docflow.ru")
		require.True(t, apperrors.IsCode(err, apperrors.CodeOnlyYourDepartment))
	})
}

func TestDelegateCreatorRevokedConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.DocumentStatusVotingInProgress)
	processID := f.startVoting(t, f.creatorID)
	before := f.store.Votes(processID)
	f.store.BeforeTx(func(tx repository.Stores) error {
		return tx.Permissions.RemovePermissions(f.creatorID, f.documentID, []models.DocumentPermission{models.CreatorPermission})
	})

	err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "yuri@docflow.ru")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidDocumentForDelegation))
	f.store.BeforeTx(nil)
	require.Equal(t, before, f.store.Votes(processID))
	require.NotContains(t, f.store.Grants(f.documentID), f.peerID)
	require.Empty(t, f.store.Notifications())

	t.Run("ошибка чтения прав не подменяется", func(t *testing.T) {
		f.store.FailOn("permissions.GetForShare")
		defer f.store.ClearFailures()
		err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "yuri@docflow.ru")
		require.ErrorIs(t, err, memstore.ErrInjected)
	})
}

func TestDelegatePreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("только автор документа", func(t *testing.T) {
		f := newFixture(models.DocumentStatusVotingInProgress)
		f.startVoting(t, f.voterID)
		err := f.handler.Delegate(ctx, f.documentID, f.voterID, "yuri@docflow.ru")
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidDocumentForDelegation))
	})
	t.Run("документ не на согласовании", func(t *testing.T) {
		f := newFixture(models.DocumentStatusDraft)
		err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "yuri@docflow.ru")
		require.True(t, apperrors.IsCode(err, apperrors.CodeStatusIncorrectForDelegation))
		require.Empty(t, f.store.Grants(f.documentID)[f.peerID])
	})
	t.Run("голосование уже завершено", func(t *testing.T) {
		f := newFixture(models.DocumentStatusVotingInProgress)
		processID := f.startVoting(t, f.creatorID)
		f.store.SetVotingStatus(processID, models.VotingAccepted)
		err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "yuri@docflow.ru")
		require.True(t, apperrors.IsCode(err, apperrors.CodeVotingProcessIsOver))
	})
	t.Run("нет голосования", func(t *testing.T) {
		f := newFixture(models.DocumentStatusVotingInProgress)
		err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "yuri@docflow.ru")
		require.True(t, apperrors.IsCode(err, apperrors.CodeVoteNotFound))
	})
	t.Run("автор не участвует в голосовании", func(t *testing.T) {
		f := newFixture(models.DocumentStatusVotingInProgress)
		f.startVoting(t, f.voterID)
		err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "yuri@docflow.ru")
		require.True(t, apperrors.IsCode(err, apperrors.CodeVoteNotFound))
		require.Empty(t, f.store.Grants(f.documentID)[f.peerID])
	})
	t.Run("неизвестная почта", func(t *testing.T) {
		f := newFixture(models.DocumentStatusVotingInProgress)
		err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "nobody@docflow.ru")
		require.True(t, apperrors.IsCode(err, apperrors.CodeUserNotFound))
	})
}

func TestDelegateSignature(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.DocumentStatusSignatureInProgress)
	signatureID, err := f.store.Stores().Signatures.Create(dbmodels.Signature{
		Name:              "Подписание заявки",
		Status:            models.SignatureNotSigned,
		SentAt:            f.clock.Add(-time.Hour),
		UserID:            f.creatorID,
		DocumentVersionID: f.versionID,
		DocumentID:        f.documentID,
	})
	require.NoError(t, err)

	err = f.handler.Delegate(ctx, f.documentID, f.creatorID, "yuri@docflow.ru")
	require.NoError(t, err)

	rec, err := f.store.Stores().Signatures.GetByID(signatureID)
	require.NoError(t, err)
	require.Equal(t, f.peerID, rec.UserID)
	require.Equal(t, models.SignatureNotSigned, rec.Status)
	require.Equal(t, f.clock, rec.SentAt)
	require.Nil(t, rec.SignedAt)
	require.Equal(t, []string{"READ"}, f.store.Grants(f.documentID)[f.peerID])

	t.Run("подпись уже передана", func(t *testing.T) {
		err := f.handler.Delegate(ctx, f.documentID, f.creatorID, "zoya@docflow.ru")
		require.True(t, apperrors.IsCode(err, apperrors.CodeSignatureNotFound))
	})
}

package votinghandler

import (
	"context"
	notificationhandler "docflow-backend/lib/notification"
	"docflow-backend/lib/repository"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/memstore"
	"docflow-backend/models"
	votingapimodels "docflow-backend/models/api/voting"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store        *memstore.Store
	handler      impl
	clock        time.Time
	authorID     string
	participants []string
	outsiderID   string
	documentID   string
}

func newFixture(t *testing.T, participants int, early bool) *fixture {
	store := memstore.New()
	f := &fixture{
		store: store,
		clock: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	f.handler = impl{
		repo:            store,
		notifier:        notificationhandler.NewInstance(store.Stores()),
		now:             func() time.Time { return f.clock },
		earlyResolution: early,
	}
	departmentID := store.AddDepartment("Совет директоров")
	f.authorID = store.AddUser("Автор", "author@docflow.ru", departmentID, true)
	for n := 0; n < participants; n++ {
		email := string(rune('a'+n)) + "@docflow.ru"
		f.participants = append(f.participants, store.AddUser("Участник", email, departmentID, true))
	}
	f.outsiderID = store.AddUser("Посторонний", "outsider@docflow.ru", departmentID, true)
	typeID := store.AddDocumentType("Решение")
	f.documentID = store.AddDocument(typeID, "Решение совета", f.authorID, models.DocumentStatusDraft)
	store.AddVersion(f.documentID, f.authorID, 1, nil)
	return f
}

func (f *fixture) start(t *testing.T, threshold float64) votingapimodels.VotingView {
	view, err := f.handler.Start(context.Background(), f.documentID, f.authorID, votingapimodels.VotingData{
		Name:           "Утверждение",
		Threshold:      threshold,
		Deadline:       f.clock.Add(48 * time.Hour),
		ParticipantIDs: f.participants,
	})
	require.NoError(t, err)
	return view
}

func (f *fixture) cast(t *testing.T, processID string, statuses ...models.VoteStatus) {
	for n, status := range statuses {
		_, err := f.handler.CastVote(context.Background(), processID, f.participants[n], status)
		require.NoError(t, err)
	}
}

func TestStart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2, true)

	t.Run("без права отправки", func(t *testing.T) {
		f.store.Grant(f.outsiderID, f.documentID, models.ReadPermission, models.EditPermission)
		_, err := f.handler.Start(ctx, f.documentID, f.outsiderID, votingapimodels.VotingData{
			Name: "x", Threshold: 0.5, Deadline: f.clock.Add(time.Hour), ParticipantIDs: f.participants,
		})
		require.True(t, apperrors.IsCode(err, apperrors.CodeMissingDocumentPermission))
	})
	t.Run("срок в прошлом", func(t *testing.T) {
		_, err := f.handler.Start(ctx, f.documentID, f.authorID, votingapimodels.VotingData{
			Name: "x", Threshold: 0.5, Deadline: f.clock.Add(-time.Hour), ParticipantIDs: f.participants,
		})
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
	})
	t.Run("порог вне диапазона", func(t *testing.T) {
		_, err := f.handler.Start(ctx, f.documentID, f.authorID, votingapimodels.VotingData{
			Name: "x", Threshold: 1.5, Deadline: f.clock.Add(time.Hour), ParticipantIDs: f.participants,
		})
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
	})
	t.Run("неизвестный участник", func(t *testing.T) {
		_, err := f.handler.Start(ctx, f.documentID, f.authorID, votingapimodels.VotingData{
			Name: "x", Threshold: 0.5, Deadline: f.clock.Add(time.Hour), ParticipantIDs: []string{"missing"},
		})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUserNotFound))
	})

	view := f.start(t, 0.5)
	require.Equal(t, models.VotingInProgress, view.Status)
	require.Len(t, view.Votes, 2)
	for _, vote := range view.Votes {
		require.Equal(t, models.VoteNotVoted, vote.Status)
	}
	require.Equal(t, models.DocumentStatusVotingInProgress, f.store.Document(f.documentID).Status)
	grants := f.store.Grants(f.documentID)
	for _, id := range f.participants {
		require.Equal(t, []string{"READ"}, grants[id])
	}
	events := f.store.Notifications()
	require.Len(t, events, 2)
	require.Equal(t, models.EventVoteRequested, events[0].Event)

	t.Run("второе голосование во время первого", func(t *testing.T) {
		_, err := f.handler.Start(ctx, f.documentID, f.authorID, votingapimodels.VotingData{
			Name: "x", Threshold: 0.5, Deadline: f.clock.Add(time.Hour), ParticipantIDs: f.participants,
		})
		require.True(t, apperrors.IsCode(err, apperrors.CodeStatusIncorrectForRound))
		list, err := f.handler.ListForDocument(ctx, f.authorID, f.documentID)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
}

func TestStartPermissionRevokedConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2, true)
	f.store.Grant(f.outsiderID, f.documentID, models.SendForSigningPermission)
	f.store.BeforeTx(func(tx repository.Stores) error {
		return tx.Permissions.RemovePermissions(f.outsiderID, f.documentID, []models.DocumentPermission{models.SendForSigningPermission})
	})

	_, err := f.handler.Start(ctx, f.documentID, f.outsiderID, votingapimodels.VotingData{
		Name: "x", Threshold: 0.5, Deadline: f.clock.Add(time.Hour), ParticipantIDs: f.participants,
	})
	require.True(t, apperrors.IsCode(err, apperrors.CodeMissingDocumentPermission))
	f.store.BeforeTx(nil)
	require.Equal(t, models.DocumentStatusDraft, f.store.Document(f.documentID).Status)
	list, err := f.handler.ListForDocument(ctx, f.authorID, f.documentID)
	require.NoError(t, err)
	require.Empty(t, list)
	require.Empty(t, f.store.Notifications())
	for _, id := range f.participants {
		require.NotContains(t, f.store.Grants(f.documentID), id)
	}
}

func TestScenarioAccepted(t *testing.T) {
	f := newFixture(t, 5, true)
	view := f.start(t, 0.6)
	f.cast(t, view.ID, models.VoteInFavour, models.VoteAgainst, models.VoteInFavour, models.VoteAgainst, models.VoteInFavour)

	result, err := f.handler.Get(context.Background(), f.authorID, view.ID)
	require.NoError(t, err)
	require.Equal(t, models.VotingAccepted, result.Status)
	require.Equal(t, 3, result.Favour)
	require.Equal(t, 2, result.Against)
	require.NotNil(t, result.ResolvedAt)
	require.Equal(t, models.DocumentStatusVotingAccepted, f.store.Document(f.documentID).Status)

	completed := 0
	for _, rec := range f.store.Notifications() {
		if rec.Event == models.EventVotingCompleted {
			completed++
			payload, err := notificationhandler.Decode(rec)
			require.NoError(t, err)
			require.Equal(t, string(models.VotingAccepted), payload.Outcome)
		}
	}
	require.Equal(t, 6, completed)
}

func TestScenarioDenied(t *testing.T) {
	f := newFixture(t, 5, true)
	view := f.start(t, 0.6)
	f.cast(t, view.ID, models.VoteInFavour, models.VoteAgainst, models.VoteInFavour, models.VoteAgainst, models.VoteAgainst)

	result, err := f.handler.Get(context.Background(), f.authorID, view.ID)
	require.NoError(t, err)
	require.Equal(t, models.VotingDenied, result.Status)
	require.Equal(t, models.DocumentStatusVotingDenied, f.store.Document(f.documentID).Status)
}

func TestVoteExclusivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2, true)
	view := f.start(t, 0.5)

	_, err := f.handler.CastVote(ctx, view.ID, f.participants[0], models.VoteInFavour)
	require.NoError(t, err)
	vote, err := f.handler.CastVote(ctx, view.ID, f.participants[0], models.VoteAgainst)
	require.NoError(t, err)
	require.Equal(t, models.VoteAgainst, vote.Status)

	votes := f.store.Votes(view.ID)
	require.Len(t, votes, 2)
	mine := 0
	for _, rec := range votes {
		if rec.UserID == f.participants[0] {
			mine++
			require.Equal(t, vote.ID, rec.ID)
			require.Equal(t, models.VoteAgainst, rec.Status)
		}
	}
	require.Equal(t, 1, mine)

	t.Run("неизвестное голосование", func(t *testing.T) {
		_, err := f.handler.CastVote(ctx, "missing", f.participants[0], models.VoteInFavour)
		require.True(t, apperrors.IsCode(err, apperrors.CodeVotingProcessNotFound))
	})
	t.Run("не участник", func(t *testing.T) {
		_, err := f.handler.CastVote(ctx, view.ID, f.outsiderID, models.VoteInFavour)
		require.True(t, apperrors.IsCode(err, apperrors.CodeVoteNotFound))
	})
	t.Run("недопустимый голос", func(t *testing.T) {
		_, err := f.handler.CastVote(ctx, view.ID, f.participants[0], models.VoteNotVoted)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
	})
}

func TestTerminalImmutability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2, true)
	view := f.start(t, 0.5)
	f.cast(t, view.ID, models.VoteInFavour, models.VoteAbstained)

	result, err := f.handler.Get(ctx, f.authorID, view.ID)
	require.NoError(t, err)
	require.Equal(t, models.VotingAccepted, result.Status)
	notifications := len(f.store.Notifications())

	for _, status := range []models.VoteStatus{models.VoteInFavour, models.VoteAgainst, models.VoteAbstained} {
		for _, participantID := range f.participants {
			_, err := f.handler.CastVote(ctx, view.ID, participantID, status)
			require.True(t, apperrors.IsCode(err, apperrors.CodeVotingProcessIsOver))
		}
	}
	closed, err := f.handler.Close(ctx, view.ID, f.clock.Add(72*time.Hour))
	require.NoError(t, err)
	require.False(t, closed)

	result, err = f.handler.Get(ctx, f.authorID, view.ID)
	require.NoError(t, err)
	require.Equal(t, models.VotingAccepted, result.Status)
	require.Equal(t, 1, result.Favour)
	require.Len(t, f.store.Notifications(), notifications)
}

func TestDeadline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3, false)
	view := f.start(t, 0.5)
	f.cast(t, view.ID, models.VoteAgainst, models.VoteAgainst, models.VoteAgainst)

	t.Run("без досрочного завершения голосование остается открытым", func(t *testing.T) {
		result, err := f.handler.Get(ctx, f.authorID, view.ID)
		require.NoError(t, err)
		require.Equal(t, models.VotingInProgress, result.Status)
	})
	t.Run("голос после срока", func(t *testing.T) {
		f.clock = f.clock.Add(49 * time.Hour)
		_, err := f.handler.CastVote(ctx, view.ID, f.participants[0], models.VoteInFavour)
		require.True(t, apperrors.IsCode(err, apperrors.CodeVotingProcessIsOver))
	})

	closed, err := f.handler.Close(ctx, view.ID, f.clock)
	require.NoError(t, err)
	require.True(t, closed)
	result, err := f.handler.Get(ctx, f.authorID, view.ID)
	require.NoError(t, err)
	require.Equal(t, models.VotingDenied, result.Status)
	require.Equal(t, 3, result.Against)

	_, err = f.handler.Close(ctx, "missing", f.clock)
	require.True(t, apperrors.IsCode(err, apperrors.CodeVotingProcessNotFound))
}

func TestCloseRollback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, false)
	view := f.start(t, 0.5)
	f.store.FailOn("documents.UpdateStatus")

	_, err := f.handler.Close(ctx, view.ID, f.clock)
	require.ErrorIs(t, err, memstore.ErrInjected)
	result, err := f.handler.Get(ctx, f.authorID, view.ID)
	require.NoError(t, err)
	require.Equal(t, models.VotingInProgress, result.Status)

	f.store.ClearFailures()
	closed, err := f.handler.Close(ctx, view.ID, f.clock)
	require.NoError(t, err)
	require.True(t, closed)
}

package deadlineworker

import (
	"context"
	notificationhandler "docflow-backend/lib/notification"
	"docflow-backend/lib/utils/lock"
	"docflow-backend/lib/utils/memstore"
	votinghandler "docflow-backend/lib/voting"
	"docflow-backend/models"
	votingapimodels "docflow-backend/models/api/voting"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memstore.Store
	voting   votinghandler.Provider
	authorID string
	voters   []string
}

func newFixture() *fixture {
	store := memstore.New()
	f := &fixture{
		store:  store,
		voting: votinghandler.NewInstance(store, notificationhandler.NewInstance(store.Stores())),
	}
	departmentID := store.AddDepartment("Правление")
	f.authorID = store.AddUser("Автор", "author@docflow.ru", departmentID, true)
	f.voters = []string{
		store.AddUser("Первый", "first@docflow.ru", departmentID, true),
		store.AddUser("Второй", "second@docflow.ru", departmentID, true),
	}
	return f
}

// process запускает голосование по новому документу
func (f *fixture) process(t *testing.T, deadline time.Time) string {
	typeID := f.store.AddDocumentType("Протокол")
	documentID := f.store.AddDocument(typeID, "Протокол заседания", f.authorID, models.DocumentStatusDraft)
	f.store.AddVersion(documentID, f.authorID, 1, nil)
	view, err := f.voting.Start(context.Background(), documentID, f.authorID, votingapimodels.VotingData{
		Name:           "Утверждение протокола",
		Threshold:      0.5,
		Deadline:       deadline,
		ParticipantIDs: f.voters,
	})
	require.NoError(t, err)
	return view.ID
}

func (f *fixture) completed() int {
	count := 0
	for _, rec := range f.store.Notifications() {
		if rec.Event == models.EventVotingCompleted {
			count++
		}
	}
	return count
}

func TestSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	deadline := time.Now().Add(time.Hour)
	first := f.process(t, deadline)
	second := f.process(t, deadline)
	later := f.process(t, deadline.Add(24*time.Hour))
	early := f.process(t, deadline)
	for _, voterID := range f.voters {
		_, err := f.voting.CastVote(ctx, early, voterID, models.VoteInFavour)
		require.NoError(t, err)
	}
	_, err := f.voting.CastVote(ctx, first, f.voters[0], models.VoteInFavour)
	require.NoError(t, err)
	require.Equal(t, 3, f.completed())

	now := deadline.Add(time.Minute)
	result := Sweep(ctx, f.store.Stores().Voting, f.voting, now)
	require.Equal(t, Result{Checked: 2, Closed: 2}, result)
	require.Equal(t, 9, f.completed())

	for id, status := range map[string]models.VotingStatus{
		first:  models.VotingAccepted,
		second: models.VotingDenied,
		later:  models.VotingInProgress,
		early:  models.VotingAccepted,
	} {
		view, err := f.voting.Get(ctx, f.authorID, id)
		require.NoError(t, err)
		require.Equal(t, status, view.Status)
	}

	resolves := f.store.Calls("voting.Resolve")
	result = Sweep(ctx, f.store.Stores().Voting, f.voting, now.Add(time.Minute))
	require.Equal(t, Result{}, result)
	require.Equal(t, 9, f.completed())
	require.Equal(t, resolves, f.store.Calls("voting.Resolve"))
}

func TestSweepIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	deadline := time.Now().Add(time.Hour)
	broken := f.process(t, deadline)
	healthy := f.process(t, deadline)
	f.store.FailOn("voting.Resolve", broken)

	now := deadline.Add(time.Minute)
	result := Sweep(ctx, f.store.Stores().Voting, f.voting, now)
	require.Equal(t, Result{Checked: 2, Closed: 1, Failed: 1}, result)

	view, err := f.voting.Get(ctx, f.authorID, healthy)
	require.NoError(t, err)
	require.Equal(t, models.VotingDenied, view.Status)
	view, err = f.voting.Get(ctx, f.authorID, broken)
	require.NoError(t, err)
	require.Equal(t, models.VotingInProgress, view.Status)

	f.store.ClearFailures()
	result = Sweep(ctx, f.store.Stores().Voting, f.voting, now)
	require.Equal(t, Result{Checked: 1, Closed: 1}, result)
}

type staleCloser struct{}

func (staleCloser) Close(ctx context.Context, votingProcessID string, now time.Time) (bool, error) {
	return false, nil
}

func TestSweepSkipsResolved(t *testing.T) {
	f := newFixture()
	deadline := time.Now().Add(time.Hour)
	f.process(t, deadline)

	result := Sweep(context.Background(), f.store.Stores().Voting, staleCloser{}, deadline.Add(time.Minute))
	require.Equal(t, Result{Checked: 1, Skipped: 1}, result)
}

func TestHandleTakesLease(t *testing.T) {
	f := newFixture()
	deadline := time.Now().Add(-time.Minute)
	locker := lock.NewLocal()
	i := impl{
		store:  f.store.Stores().Voting,
		closer: f.voting,
		locker: locker,
		lease:  time.Minute,
	}
	// голосование со сроком в прошлом создать нельзя, поэтому срок сдвигается в хранилище
	id := f.process(t, time.Now().Add(time.Hour))
	f.store.SetVotingDeadline(id, deadline)

	release, ok, err := locker.TryLock(context.Background(), leaseKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	i.handle(context.Background())
	view, err := f.voting.Get(context.Background(), f.authorID, id)
	require.NoError(t, err)
	require.Equal(t, models.VotingInProgress, view.Status)

	release()
	i.handle(context.Background())
	view, err = f.voting.Get(context.Background(), f.authorID, id)
	require.NoError(t, err)
	require.Equal(t, models.VotingDenied, view.Status)
}

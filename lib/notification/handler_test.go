package notificationhandler

import (
	"docflow-backend/lib/utils/memstore"
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNotify(t *testing.T) {
	store := memstore.New()
	stores := store.Stores()
	activeID, err := stores.Users.Create(dbmodels.User{Email: "Active@Docflow.ru", IsActive: true})
	require.NoError(t, err)
	firedID, err := stores.Users.Create(dbmodels.User{Email: "fired@docflow.ru", IsActive: false})
	require.NoError(t, err)

	notifier := NewInstance(stores)
	payload := Payload{Event: models.EventVersionCreated, DocumentID: "doc-1", Subject: "s", Text: "t"}

	t.Run("пустой адрес пропускается", func(t *testing.T) {
		notifier.Notify("  ", payload)
		require.Empty(t, store.Notifications())
	})
	t.Run("уведомления только активным пользователям", func(t *testing.T) {
		notifier.NotifyUsers([]string{activeID, firedID, activeID, "unknown"}, payload)
		list := store.Notifications()
		require.Len(t, list, 1)
		require.Equal(t, "active@docflow.ru", list[0].Email)
		require.Equal(t, models.EventVersionCreated, list[0].Event)

		decoded, err := Decode(list[0])
		require.NoError(t, err)
		require.Equal(t, payload, decoded)
	})
	t.Run("ошибка хранилища не выходит наружу", func(t *testing.T) {
		store.FailOn("notifications.Create")
		defer store.ClearFailures()
		require.NotPanics(t, func() { notifier.Notify("x@docflow.ru", payload) })
		require.Len(t, store.Notifications(), 1)
	})
}

func TestVotingCompletedMessage(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	process := dbmodels.VotingProcess{
		BaseModel: dbmodels.BaseModel{ID: "vp-1", CreatedAt: created},
		Name:      "Утверждение устава",
		Status:    models.VotingAccepted,
		Votes: []dbmodels.Vote{
			{Status: models.VoteInFavour},
			{Status: models.VoteInFavour},
			{Status: models.VoteAgainst},
			{Status: models.VoteAbstained},
		},
	}
	doc := dbmodels.Document{BaseModel: dbmodels.BaseModel{ID: "doc-1"}, Name: "Устав"}

	payload := VotingCompleted(doc, process, created.Add(26*time.Hour+30*time.Minute))
	require.Equal(t, models.EventVotingCompleted, payload.Event)
	require.Equal(t, "ACCEPTED", payload.Outcome)
	require.Equal(t, "vp-1", payload.VotingProcessID)
	require.Contains(t, payload.Text, "документ принят (за 2, против 1)")
	require.Contains(t, payload.Text, "Голосование длилось "+HumanDuration(26*time.Hour+30*time.Minute))

	process.Status = models.VotingDenied
	require.Contains(t, VotingCompleted(doc, process, created.Add(time.Hour)).Text, "документ отклонен")
}

func TestHumanDuration(t *testing.T) {
	require.NotEmpty(t, HumanDuration(0))
	require.NotContains(t, HumanDuration(90*time.Minute+500*time.Millisecond), "миллисекунд")
}

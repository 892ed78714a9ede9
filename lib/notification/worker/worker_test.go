package notificationworker

import (
	"context"
	notificationhandler "docflow-backend/lib/notification"
	"docflow-backend/lib/utils/lock"
	"docflow-backend/lib/utils/memstore"
	"docflow-backend/models"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, message string
}

type fakeSender struct {
	configured bool
	failFor    string
	sent       []sentMail
}

func (f *fakeSender) IsConfigured() bool {
	return f.configured
}

func (f *fakeSender) SendEMail(to, subject, message string) error {
	if to == f.failFor {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, message: message})
	return nil
}

func TestDeliver(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	notifier := notificationhandler.NewInstance(store.Stores())
	payload := notificationhandler.Payload{
		Event:      models.EventDocumentSigned,
		DocumentID: "doc-1",
		Subject:    "Документ подписан",
		Text:       "Документ «Устав» подписан всеми участниками.",
	}
	notifier.Notify("ok@docflow.ru", payload)
	notifier.Notify("broken@docflow.ru", payload)

	t.Run("без smtp уведомления остаются в очереди", func(t *testing.T) {
		sender := &fakeSender{}
		worker := NewInstance(store.Stores().Notifications, sender, 2, 10)
		require.Equal(t, 0, worker.Deliver(ctx, time.Now()))
		pending, err := store.Stores().Notifications.ListPending(2, 10)
		require.NoError(t, err)
		require.Len(t, pending, 2)
	})
	t.Run("ошибка одного письма не мешает остальным", func(t *testing.T) {
		sender := &fakeSender{configured: true, failFor: "broken@docflow.ru"}
		worker := NewInstance(store.Stores().Notifications, sender, 2, 10)
		require.Equal(t, 1, worker.Deliver(ctx, time.Now()))
		require.Len(t, sender.sent, 1)
		require.Equal(t, "ok@docflow.ru", sender.sent[0].to)
		require.Equal(t, "Документ подписан", sender.sent[0].subject)

		pending, err := store.Stores().Notifications.ListPending(2, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		require.Equal(t, 1, pending[0].Attempts)
		require.Equal(t, "mailbox unavailable", pending[0].LastError)
	})
	t.Run("после исчерпания попыток уведомление больше не отправляется", func(t *testing.T) {
		sender := &fakeSender{configured: true, failFor: "broken@docflow.ru"}
		worker := NewInstance(store.Stores().Notifications, sender, 2, 10)
		require.Equal(t, 0, worker.Deliver(ctx, time.Now()))
		require.Equal(t, 0, worker.Deliver(ctx, time.Now()))
		require.Len(t, sender.sent, 0)
		pending, err := store.Stores().Notifications.ListPending(2, 10)
		require.NoError(t, err)
		require.Empty(t, pending)
	})
}

func TestDeliveryLease(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	notificationhandler.NewInstance(store.Stores()).Notify("ok@docflow.ru", notificationhandler.Payload{
		Event:      models.EventVersionCreated,
		DocumentID: "doc-1",
		Subject:    "Новая версия",
		Text:       "Создана новая версия документа.",
	})
	locker := lock.NewLocal()
	sender := &fakeSender{configured: true}
	worker := NewInstance(store.Stores().Notifications, sender, 2, 10)
	worker.locker = locker

	t.Run("очередь занята другим экземпляром", func(t *testing.T) {
		release, ok, err := locker.TryLock(ctx, leaseKey, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
		worker.handle(ctx)
		require.Empty(t, sender.sent)
		release()
	})
	t.Run("после освобождения аренды письма уходят", func(t *testing.T) {
		worker.handle(ctx)
		require.Len(t, sender.sent, 1)
		_, ok, err := locker.TryLock(ctx, leaseKey, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
	})
}

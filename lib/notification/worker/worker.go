package notificationworker

import (
	"context"
	"docflow-backend/config"
	"docflow-backend/db"
	notificationhandler "docflow-backend/lib/notification"
	notificationstore "docflow-backend/lib/notification/store"
	"docflow-backend/lib/smtp"
	baseworker "docflow-backend/lib/utils/base-worker"
	"docflow-backend/lib/utils/helpers"
	"docflow-backend/lib/utils/lock"
	"time"
)

const leaseKey = "notification-delivery"

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl:    *baseworker.NewInstance("NotificationWorker", 20*time.Second, config.Conf.Notify.GetInterval()),
		store:       notificationstore.NewInstance(db.DB),
		sender:      smtp.Instance,
		maxAttempts: config.Conf.Notify.MaxAttempts,
		batchSize:   config.Conf.Notify.BatchSize,
		locker:      lock.Instance,
		lease:       config.Conf.Notify.GetInterval(),
	}
	go i.Run(ctx, i.handle)
}

func NewInstance(store notificationstore.Provider, sender smtp.Provider, maxAttempts, batchSize int) *impl {
	return &impl{
		BaseImpl:    *baseworker.NewInstance("NotificationWorker", 0, time.Minute),
		store:       store,
		sender:      sender,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		locker:      lock.NewLocal(),
		lease:       time.Minute,
	}
}

type impl struct {
	baseworker.BaseImpl
	store       notificationstore.Provider
	sender      smtp.Provider
	maxAttempts int
	batchSize   int
	locker      lock.Provider
	lease       time.Duration
}

// handle очередь разбирает только экземпляр, взявший аренду
func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	acquired, err := lock.WithLease(ctx, i.locker, leaseKey, i.lease, func() error {
		sent := i.Deliver(ctx, time.Now())
		if sent > 0 {
			logger.WithField("sent", sent).Info("уведомления отправлены")
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("ошибка получения блокировки отправки уведомлений")
		return
	}
	if !acquired {
		logger.Debug("уведомления отправляет другой экземпляр")
	}
}

// Deliver отправляет накопленные уведомления, возвращает число отправленных
func (i impl) Deliver(ctx context.Context, now time.Time) (sent int) {
	logger := i.GetLogger()
	if i.sender == nil || !i.sender.IsConfigured() {
		logger.Debug("smtp не настроен, уведомления остаются в очереди")
		return 0
	}
	list, err := i.store.ListPending(i.maxAttempts, i.batchSize)
	if err != nil {
		logger.WithError(err).Error("Ошибка получения списка уведомлений для отправки")
		return 0
	}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		recLogger := logger.
			WithField("notification_id", rec.ID).
			WithField("event", rec.Event)
		payload, err := notificationhandler.Decode(rec)
		if err != nil {
			recLogger.WithError(err).Error("Ошибка разбора уведомления")
			i.markFailed(rec.ID, err)
			continue
		}
		err = i.sender.SendEMail(rec.Email, payload.Subject, payload.Text)
		if err != nil {
			recLogger.WithError(err).Warn("Ошибка отправки уведомления")
			i.markFailed(rec.ID, err)
			continue
		}
		err = i.store.MarkSent(rec.ID, now)
		if err != nil {
			recLogger.WithError(err).Error("Ошибка отметки уведомления как отправленного")
			continue
		}
		sent++
	}
	return sent
}

func (i impl) markFailed(id string, cause error) {
	err := i.store.MarkFailed(id, cause.Error())
	if err != nil {
		i.GetLogger().
			WithField("notification_id", id).
			WithError(err).
			Error("Ошибка сохранения попытки отправки уведомления")
	}
}

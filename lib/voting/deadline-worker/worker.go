package deadlineworker

import (
	"context"
	"docflow-backend/config"
	"docflow-backend/db"
	baseworker "docflow-backend/lib/utils/base-worker"
	"docflow-backend/lib/utils/helpers"
	"docflow-backend/lib/utils/lock"
	votinghandler "docflow-backend/lib/voting"
	votingstore "docflow-backend/lib/voting/store"
	"time"

	log "github.com/sirupsen/logrus"
)

const leaseKey = "voting-deadline-sweep"

// Closer завершает одно голосование, false если оно уже было завершено
type Closer interface {
	Close(ctx context.Context, votingProcessID string, now time.Time) (bool, error)
}

type Result struct {
	Checked int
	Closed  int
	Skipped int
	Failed  int
}

func StartWorker(ctx context.Context) {
	scheduler := config.Conf.Scheduler
	if !scheduler.IsEnabled() {
		log.WithField("worker_name", "VotingDeadlineWorker").Info("проверка сроков голосований отключена")
		return
	}
	i := &impl{
		BaseImpl: *baseworker.NewInstance("VotingDeadlineWorker", scheduler.GetForceCheckDelay(), scheduler.GetInterval()),
		store:    votingstore.NewInstance(db.DB),
		closer:   votinghandler.Instance,
		locker:   lock.Instance,
		lease:    scheduler.GetInterval(),
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store  votingstore.Provider
	closer Closer
	locker lock.Provider
	lease  time.Duration
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	acquired, err := lock.WithLease(ctx, i.locker, leaseKey, i.lease, func() error {
		result := Sweep(ctx, i.store, i.closer, time.Now())
		if result.Checked > 0 {
			logger.
				WithField("checked", result.Checked).
				WithField("closed", result.Closed).
				WithField("skipped", result.Skipped).
				WithField("failed", result.Failed).
				Info("проверка сроков голосований завершена")
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("ошибка получения блокировки проверки сроков")
		return
	}
	if !acquired {
		logger.Debug("проверку сроков выполняет другой экземпляр")
	}
}

// Sweep завершает голосования в статусе IN_PROGRESS, срок которых истек до now.
// Ошибка по одному голосованию не прерывает обработку остальных.
func Sweep(ctx context.Context, store votingstore.Provider, closer Closer, now time.Time) (result Result) {
	logger := log.WithField("worker_name", "VotingDeadlineWorker")
	list, err := store.ListOverdue(now)
	if err != nil {
		logger.WithError(err).Error("ошибка получения просроченных голосований")
		return result
	}
	for _, process := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		result.Checked++
		closed, err := closer.Close(ctx, process.ID, now)
		if err != nil {
			result.Failed++
			logger.
				WithField("voting_process_id", process.ID).
				WithField("document_id", process.DocumentID).
				WithError(err).
				Error("ошибка завершения просроченного голосования")
			continue
		}
		if !closed {
			result.Skipped++
			continue
		}
		result.Closed++
	}
	return result
}

package initializers

import (
	"context"
	"docflow-backend/config"
	"docflow-backend/fiberlog"
	attributehandler "docflow-backend/lib/attribute"
	delegationhandler "docflow-backend/lib/delegation"
	departmentprovider "docflow-backend/lib/dicts/department"
	documenttypeprovider "docflow-backend/lib/dicts/document-type"
	documenthandler "docflow-backend/lib/document"
	documentversionhandler "docflow-backend/lib/document-version"
	notificationhandler "docflow-backend/lib/notification"
	notificationworker "docflow-backend/lib/notification/worker"
	signaturehandler "docflow-backend/lib/signature"
	subscriptionhandler "docflow-backend/lib/subscription"
	substitutionhandler "docflow-backend/lib/substitution"
	usershandler "docflow-backend/lib/users"
	votinghandler "docflow-backend/lib/voting"
	deadlineworker "docflow-backend/lib/voting/deadline-worker"
	"time"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	config.InitConfig()
	LoggerConfig = InitLogger()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	InitRedis(ctx)
	// порядок важен: обработчики получают зависимости через Instance
	notificationhandler.NewHandler()
	subscriptionhandler.NewHandler()
	departmentprovider.NewHandler()
	usershandler.NewHandler()
	documenttypeprovider.NewHandler()
	attributehandler.NewHandler()
	documenthandler.NewHandler()
	documentversionhandler.NewHandler()
	votinghandler.NewHandler()
	signaturehandler.NewHandler()
	delegationhandler.NewHandler()
	substitutionhandler.NewHandler()
	go initWorkers(ctx)
}

// запускаем с промежутком, чтобы размыть нагрузку
func initWorkers(ctx context.Context) {
	// Задача закрытия голосований с истекшим сроком
	deadlineworker.StartWorker(ctx)

	if makeTimeGap(ctx) {
		// Задача доставки уведомлений по почте
		notificationworker.StartWorker(ctx)
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}

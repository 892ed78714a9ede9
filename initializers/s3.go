package initializers

import (
	"context"
	"docflow-backend/config"
	blobstorage "docflow-backend/lib/blob-storage"
	s3client "docflow-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	minioClient, err := s3client.NewClient()
	if err != nil {
		panic(err.Error())
	}
	// без бакета версии документов создавать нельзя, но api на чтение остается доступным
	if err = s3client.MakeBucket(ctx, minioClient, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).
			WithField("bucket", config.Conf.S3.BucketName).
			Error("S3: не удалось проверить или создать бакет")
	}
	blobstorage.NewHandler(minioClient, config.Conf.S3.BucketName)
	log.Info("S3 клиент успешно инициализирован")
}

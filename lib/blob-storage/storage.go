package blobstorage

import (
	"bytes"
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider хранилище содержимого версий документов
type Provider interface {
	// Put сохраняет содержимое и возвращает ссылку на него
	Put(ctx context.Context, content []byte, contentType string) (ref string, err error)
	// Get возвращает nil, nil, если содержимого нет
	Get(ctx context.Context, ref string) ([]byte, error)
	// Delete возвращает false, если удалять было нечего
	Delete(ctx context.Context, ref string) (bool, error)
}

var Instance Provider

const noSuchKey = "NoSuchKey"

func NewHandler(client *minio.Client, bucketName string) {
	Instance = NewInstance(client, bucketName)
}

func NewInstance(client *minio.Client, bucketName string) Provider {
	return &impl{
		client:     client,
		bucketName: bucketName,
	}
}

type impl struct {
	client     *minio.Client
	bucketName string
}

func (i impl) getLogger(ref string) *log.Entry {
	return log.
		WithField("bucket", i.bucketName).
		WithField("content_id", ref)
}

func (i impl) Put(ctx context.Context, content []byte, contentType string) (ref string, err error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ref = uuid.NewString()
	_, err = i.client.PutObject(ctx, i.bucketName, ref, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки содержимого в хранилище")
	}
	i.getLogger(ref).WithField("size", len(content)).Debug("содержимое сохранено")
	return ref, nil
}

func (i impl) Get(ctx context.Context, ref string) ([]byte, error) {
	object, err := i.client.GetObject(ctx, i.bucketName, ref, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "ошибка получения содержимого из хранилища")
	}
	defer object.Close()
	content, err := io.ReadAll(object)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "ошибка чтения содержимого из хранилища")
	}
	return content, nil
}

func (i impl) Delete(ctx context.Context, ref string) (bool, error) {
	_, err := i.client.StatObject(ctx, i.bucketName, ref, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "ошибка проверки содержимого в хранилище")
	}
	err = i.client.RemoveObject(ctx, i.bucketName, ref, minio.RemoveObjectOptions{})
	if err != nil {
		return false, errors.Wrap(err, "ошибка удаления содержимого из хранилища")
	}
	i.getLogger(ref).Debug("содержимое удалено")
	return true, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == noSuchKey
}

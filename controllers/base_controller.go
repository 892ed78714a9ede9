package controllers

import (
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("не указан параметр %s", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path()).
		WithField("user_id", middleware.GetUserID(ctx))
}

// SendError ответ по типу ошибки; ошибки инфраструктуры логируются, клиент видит только сообщение
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, message string) error {
	appErr, ok := apperrors.As(err)
	if !ok {
		logger.WithError(err).Error(message)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(message))
	}
	status := fiber.StatusInternalServerError
	switch appErr.Kind {
	case apperrors.KindNotFound:
		status = fiber.StatusNotFound
	case apperrors.KindPermissionDenied:
		status = fiber.StatusForbidden
	case apperrors.KindConflict:
		status = fiber.StatusConflict
	case apperrors.KindInvalidState:
		status = fiber.StatusUnprocessableEntity
		if appErr.Code == apperrors.CodeInvalidRequest {
			status = fiber.StatusBadRequest
		}
	}
	if status == fiber.StatusInternalServerError {
		logger.WithError(err).Error(message)
		return ctx.Status(status).JSON(apimodels.NewError(message))
	}
	logger.
		WithField("code", appErr.Code).
		Warn(appErr.Error())
	return ctx.Status(status).JSON(apimodels.Response{
		Status:  "fail",
		Message: appErr.Error(),
		Data:    appErr,
	})
}

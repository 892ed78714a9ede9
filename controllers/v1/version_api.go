package apiv1

import (
	"docflow-backend/config"
	"docflow-backend/controllers"
	documentversionhandler "docflow-backend/lib/document-version"
	"docflow-backend/lib/utils/helpers"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
	documentapimodels "docflow-backend/models/api/document"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type versionApiController struct {
	controllers.BaseAPIController
}

func InitVersionApiRouters(app *fiber.App) {
	controller := versionApiController{}
	app.Route("versions", func(router fiber.Router) {
		router.Get(":id", controller.get)
		router.Get(":id/content", controller.content)
	})
}

// @Summary Новая версия документа
// @Tags Версии документа
// @Description Создание версии. Без атрибутов или без содержимого они берутся из предыдущей версии.
// @Description Пользователи, у которых было только право READ, теряют доступ к документу
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Param   attributes			formData	string	false	"JSON массив documentapimodels.AttributeValueData"
// @Param   content				formData	file 	false 	"Содержимое версии"
// @Success 200 {object} apimodels.Response{data=documentapimodels.VersionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/versions [post]
func (c *versionApiController) create(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload, err := c.parseVersion(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := documentversionhandler.Instance.CreateVersion(ctx.UserContext(), id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания версии документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// parseVersion json тело без содержимого или multipart форма с файлом content
func (c *versionApiController) parseVersion(ctx *fiber.Ctx) (documentapimodels.VersionData, error) {
	var payload documentapimodels.VersionData
	if !strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if len(ctx.Body()) == 0 {
			return payload, nil
		}
		if err := c.BodyParser(ctx, &payload); err != nil {
			return payload, err
		}
		return payload, nil
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		return payload, errors.New("не удалось получить данные формы")
	}
	if raw := form.Value["attributes"]; len(raw) != 0 && raw[0] != "" {
		if err = json.Unmarshal([]byte(raw[0]), &payload.Attributes); err != nil {
			return payload, errors.New("некорректный список атрибутов")
		}
	}
	files := form.File["content"]
	if len(files) == 0 {
		return payload, nil
	}
	file := files[0]
	limit := config.Conf.App.ContentLimit
	if limit > 0 && file.Size > int64(limit) {
		return payload, errors.Errorf("размер содержимого превышает %d байт", limit)
	}
	buffer, err := file.Open()
	if err != nil {
		return payload, errors.New("не удалось прочитать содержимое версии")
	}
	defer buffer.Close()
	body, err := io.ReadAll(buffer)
	if err != nil {
		return payload, errors.New("не удалось прочитать содержимое версии")
	}
	payload.Content = &documentapimodels.ContentData{
		Name: file.Filename,
		Type: helpers.GetFileContentType(file, body),
		Data: body,
	}
	return payload, nil
}

// @Summary Версия документа
// @Tags Версии документа
// @Description Версия с атрибутами
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "version ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.VersionView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/versions/{id} [get]
func (c *versionApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := documentversionhandler.Instance.GetVersion(ctx.UserContext(), userID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения версии документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Версии документа
// @Tags Версии документа
// @Description Версии документа, начиная с последней
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response{data=[]documentapimodels.VersionView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/versions [get]
func (c *versionApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := documentversionhandler.Instance.ListVersions(ctx.UserContext(), userID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения версий документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Скачать содержимое версии
// @Tags Версии документа
// @Description Скачать содержимое версии
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "version ID"
// @Success 200
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/versions/{id}/content [get]
func (c *versionApiController) content(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := documentversionhandler.Instance.GetContent(ctx.UserContext(), userID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения содержимого версии")
	}
	if result.Type != "" {
		ctx.Set(fiber.HeaderContentType, result.Type)
	}
	if result.Name != "" {
		ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(result.Name)))
	}
	return ctx.Send(result.Data)
}

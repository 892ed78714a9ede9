package apiv1

import (
	"docflow-backend/controllers"
	delegationhandler "docflow-backend/lib/delegation"
	documenthandler "docflow-backend/lib/document"
	subscriptionhandler "docflow-backend/lib/subscription"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
	documentapimodels "docflow-backend/models/api/document"

	"github.com/gofiber/fiber/v2"
)

type documentApiController struct {
	controllers.BaseAPIController
}

func InitDocumentApiRouters(app *fiber.App) {
	controller := documentApiController{}
	versions := versionApiController{}
	voting := votingApiController{}
	signatures := signatureApiController{}
	app.Route("documents", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("", controller.list)
		router.Get(":id", controller.get)
		router.Delete(":id", controller.delete)

		router.Get(":id/grants", controller.listGrants)
		router.Post(":id/grants", controller.grant)
		router.Delete(":id/grants", controller.revoke)

		router.Post(":id/subscription", controller.subscribe)
		router.Delete(":id/subscription", controller.unsubscribe)

		router.Post(":id/delegate", controller.delegate)

		router.Post(":id/versions", versions.create)
		router.Get(":id/versions", versions.list)

		router.Post(":id/voting", voting.start)
		router.Get(":id/voting", voting.listForDocument)

		router.Post(":id/signatures", signatures.sendForSigning)
		router.Get(":id/signatures", signatures.list)
	})
}

// @Summary Создание документа
// @Tags Документы
// @Description Создание документа в статусе DRAFT, автор получает право CREATOR
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 documentapimodels.DocumentData	true	"request body"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents [post]
func (c *documentApiController) create(ctx *fiber.Ctx) error {
	var payload documentapimodels.DocumentData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := documenthandler.Instance.Create(ctx.UserContext(), userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Список документов
// @Tags Документы
// @Description Документы, доступные пользователю на чтение
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]documentapimodels.DocumentView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents [get]
func (c *documentApiController) list(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	result, err := documenthandler.Instance.List(ctx.UserContext(), userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка документов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Документ
// @Tags Документы
// @Description Документ с правами текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.DocumentView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id} [get]
func (c *documentApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := documenthandler.Instance.Get(ctx.UserContext(), userID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Удаление документа
// @Tags Документы
// @Description Удаление документа со всеми версиями, голосованиями и подписями. Доступно только автору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id} [delete]
func (c *documentApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	if err = documenthandler.Instance.Delete(ctx.UserContext(), userID, id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Права на документ
// @Tags Права на документ
// @Description Список выданных прав
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response{data=[]documentapimodels.GrantView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/grants [get]
func (c *documentApiController) listGrants(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := documenthandler.Instance.ListGrants(ctx.UserContext(), userID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения прав на документ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Выдать права
// @Tags Права на документ
// @Description Выдать права пользователю. Доступно только автору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Param	body body	 documentapimodels.GrantData	true	"request body"
// @Success 200 {object} apimodels.Response{data=documentapimodels.GrantView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/grants [post]
func (c *documentApiController) grant(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload documentapimodels.GrantData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := documenthandler.Instance.Grant(ctx.UserContext(), userID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выдачи прав на документ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Отозвать права
// @Tags Права на документ
// @Description Отозвать права пользователя. Доступно только автору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Param	body body	 documentapimodels.GrantData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/grants [delete]
func (c *documentApiController) revoke(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload documentapimodels.GrantData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	if err = documenthandler.Instance.Revoke(ctx.UserContext(), userID, id, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отзыва прав на документ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Подписаться на документ
// @Tags Подписки
// @Description Уведомления о новых версиях документа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response{data=documentapimodels.SubscriptionView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/subscription [post]
func (c *documentApiController) subscribe(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := subscriptionhandler.Instance.Subscribe(ctx.UserContext(), id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка подписки на документ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Отписаться от документа
// @Tags Подписки
// @Description Отписаться от документа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/subscription [delete]
func (c *documentApiController) unsubscribe(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	if err = subscriptionhandler.Instance.Unsubscribe(ctx.UserContext(), id, userID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отписки от документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Делегировать
// @Tags Делегирование
// @Description Передать голос или подпись автора коллеге из того же подразделения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Param	body body	 documentapimodels.DelegationData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/delegate [post]
func (c *documentApiController) delegate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload documentapimodels.DelegationData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	if err = delegationhandler.Instance.Delegate(ctx.UserContext(), id, userID, payload.Email); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка делегирования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

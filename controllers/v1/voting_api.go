package apiv1

import (
	"docflow-backend/controllers"
	signaturehandler "docflow-backend/lib/signature"
	votinghandler "docflow-backend/lib/voting"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
	votingapimodels "docflow-backend/models/api/voting"
	"time"

	"github.com/gofiber/fiber/v2"
)

type votingApiController struct {
	controllers.BaseAPIController
}

type signatureApiController struct {
	controllers.BaseAPIController
}

func InitVotingApiRouters(app *fiber.App) {
	controller := votingApiController{}
	app.Route("voting", func(router fiber.Router) {
		router.Get(":id", controller.get)
		router.Post(":id/vote", controller.vote)
	})
}

func InitSignatureApiRouters(app *fiber.App) {
	controller := signatureApiController{}
	app.Route("signatures", func(router fiber.Router) {
		router.Post(":id/sign", controller.sign)
	})
}

// @Summary Запуск голосования
// @Tags Голосование
// @Description Голосование по последней версии документа, участники получают право READ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Param	body body	 votingapimodels.VotingData	true	"request body"
// @Success 200 {object} apimodels.Response{data=votingapimodels.VotingView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/voting [post]
func (c *votingApiController) start(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload votingapimodels.VotingData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(time.Now()); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := votinghandler.Instance.Start(ctx.UserContext(), id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка запуска голосования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Голосования по документу
// @Tags Голосование
// @Description Голосования по документу с подсчетом голосов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response{data=[]votingapimodels.VotingView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/voting [get]
func (c *votingApiController) listForDocument(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := votinghandler.Instance.ListForDocument(ctx.UserContext(), userID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка голосований")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Голосование
// @Tags Голосование
// @Description Голосование с голосами участников
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "voting ID"
// @Success 200 {object} apimodels.Response{data=votingapimodels.VotingView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/voting/{id} [get]
func (c *votingApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := votinghandler.Instance.Get(ctx.UserContext(), userID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения голосования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Проголосовать
// @Tags Голосование
// @Description Голос участника, до завершения голосования его можно изменить
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "voting ID"
// @Param	body body	 votingapimodels.VoteData	true	"request body"
// @Success 200 {object} apimodels.Response{data=votingapimodels.VoteView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/voting/{id}/vote [post]
func (c *votingApiController) vote(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload votingapimodels.VoteData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := votinghandler.Instance.CastVote(ctx.UserContext(), id, userID, payload.Status)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка голосования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Отправить на подпись
// @Tags Подписание
// @Description Подписание последней версии документа, подписанты получают право READ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Param	body body	 votingapimodels.SignatureData	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]votingapimodels.SignatureView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/signatures [post]
func (c *signatureApiController) sendForSigning(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload votingapimodels.SignatureData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := signaturehandler.Instance.SendForSigning(ctx.UserContext(), id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отправки документа на подпись")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Подписи документа
// @Tags Подписание
// @Description Подписи документа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "document ID"
// @Success 200 {object} apimodels.Response{data=[]votingapimodels.SignatureView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/documents/{id}/signatures [get]
func (c *signatureApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := signaturehandler.Instance.List(ctx.UserContext(), id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения подписей документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Подписать
// @Tags Подписание
// @Description Подпись текущего пользователя, последняя подпись переводит документ в SIGNED
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "signature ID"
// @Success 200 {object} apimodels.Response{data=votingapimodels.SignatureView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/signatures/{id}/sign [post]
func (c *signatureApiController) sign(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := signaturehandler.Instance.Sign(ctx.UserContext(), id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка подписания документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

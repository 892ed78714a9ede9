package apiv1

import (
	"docflow-backend/controllers"
	substitutionhandler "docflow-backend/lib/substitution"
	usershandler "docflow-backend/lib/users"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
	usersapimodels "docflow-backend/models/api/users"

	"github.com/gofiber/fiber/v2"
)

type userApiController struct {
	controllers.BaseAPIController
}

func InitUserApiRouters(app *fiber.App) {
	controller := userApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Get("me", controller.me)
		router.Get("me/substitution", controller.getSubstitution)
		router.Put("me/substitution", controller.assignSubstitution)
		router.Delete("me/substitution", controller.removeSubstitution)
		router.Get(":id", controller.get)
		router.Use(middleware.AdminRequired())
		router.Post("", controller.create)
	})
}

// @Summary Создание сотрудника
// @Tags Сотрудники
// @Description Создание сотрудника организации. Доступно администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.UserData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *userApiController) create(ctx *fiber.Ctx) error {
	var payload usersapimodels.UserData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	organizationID := middleware.GetOrganizationID(ctx)
	id, err := usershandler.Instance.Create(organizationID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Текущий пользователь
// @Tags Сотрудники
// @Description Текущий пользователь
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me [get]
func (c *userApiController) me(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	result, err := usershandler.Instance.Get(userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Сотрудник
// @Tags Сотрудники
// @Description Сотрудник своей организации
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "user ID"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [get]
func (c *userApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := usershandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сотрудника")
	}
	if result.OrganizationID != middleware.GetOrganizationID(ctx) {
		return c.SendError(ctx, c.GetLogger(ctx), apperrors.NotFound(apperrors.CodeUserNotFound, id), "Ошибка получения сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Заместитель
// @Tags Замещение
// @Description Текущий заместитель пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=usersapimodels.SubstitutionView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me/substitution [get]
func (c *userApiController) getSubstitution(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	result, err := substitutionhandler.Instance.Get(ctx.UserContext(), userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения заместителя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Назначить заместителя
// @Tags Замещение
// @Description Заместитель выбирается из активных сотрудников своего подразделения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 usersapimodels.SubstitutionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=usersapimodels.SubstitutionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me/substitution [put]
func (c *userApiController) assignSubstitution(ctx *fiber.Ctx) error {
	var payload usersapimodels.SubstitutionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	userID := middleware.GetUserID(ctx)
	result, err := substitutionhandler.Instance.Assign(ctx.UserContext(), userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка назначения заместителя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Снять заместителя
// @Tags Замещение
// @Description Снять заместителя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/me/substitution [delete]
func (c *userApiController) removeSubstitution(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	if err := substitutionhandler.Instance.Remove(ctx.UserContext(), userID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка снятия заместителя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

package dict

import (
	"docflow-backend/controllers"
	apimodels "docflow-backend/models/api"
	dictapimodels "docflow-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

type roleDictApiController struct {
	controllers.BaseAPIController
}

func InitRoleDictApiRouters(app *fiber.App) {
	controller := roleDictApiController{}
	app.Route("role", func(router fiber.Router) {
		router.Get("list", controller.list)
	})
	app.Route("permission", func(router fiber.Router) {
		router.Get("list", controller.permissions)
	})
}

// @Summary Список ролей
// @Tags Справочник. Роли
// @Description Список ролей
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.RoleView}
// @Failure 403
// @router /api/v1/dict/role/list [get]
func (c *roleDictApiController) list(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(dictapimodels.GetRoles()))
}

// @Summary Список прав на документ
// @Tags Справочник. Роли
// @Description Права, которые автор может выдать
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.PermissionView}
// @Failure 403
// @router /api/v1/dict/permission/list [get]
func (c *roleDictApiController) permissions(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(dictapimodels.GetPermissions()))
}

package dict

import (
	"docflow-backend/controllers"
	attributehandler "docflow-backend/lib/attribute"
	documenttypeprovider "docflow-backend/lib/dicts/document-type"
	"docflow-backend/middleware"
	apimodels "docflow-backend/models/api"
	dictapimodels "docflow-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

type documentTypeDictApiController struct {
	controllers.BaseAPIController
}

func InitDocumentTypeDictApiRouters(app *fiber.App) {
	controller := documentTypeDictApiController{}
	app.Route("document_type", func(router fiber.Router) {
		router.Get("list", controller.list)
		router.Get(":id", controller.get)
		router.Get(":id/attributes", controller.listAttributes)
		router.Use(middleware.AdminRequired())
		router.Post("", controller.create)
		router.Post(":id/attributes", controller.linkAttribute)
	})
	app.Route("attribute", func(router fiber.Router) {
		router.Get("list", controller.attributeList)
		router.Get(":id", controller.attributeGet)
		router.Use(middleware.AdminRequired())
		router.Post("", controller.attributeCreate)
	})
}

// @Summary Создание
// @Tags Справочник. Тип документа
// @Description Создание
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.DocumentTypeData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/document_type [post]
func (c *documentTypeDictApiController) create(ctx *fiber.Ctx) error {
	var payload dictapimodels.DocumentTypeData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	organizationID := middleware.GetOrganizationID(ctx)
	id, err := documenttypeprovider.Instance.Create(organizationID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания типа документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение по ИД
// @Tags Справочник. Тип документа
// @Description Тип документа с привязанными атрибутами
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.DocumentTypeView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/document_type/{id} [get]
func (c *documentTypeDictApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	organizationID := middleware.GetOrganizationID(ctx)
	resp, err := documenttypeprovider.Instance.Get(organizationID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения типа документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список
// @Tags Справочник. Тип документа
// @Description Типы документов организации
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.DocumentTypeView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/document_type/list [get]
func (c *documentTypeDictApiController) list(ctx *fiber.Ctx) error {
	organizationID := middleware.GetOrganizationID(ctx)
	list, err := documenttypeprovider.Instance.List(organizationID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка типов документов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Атрибуты типа
// @Tags Справочник. Тип документа
// @Description Атрибуты, привязанные к типу документа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.TypeAttributeView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/document_type/{id}/attributes [get]
func (c *documentTypeDictApiController) listAttributes(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	organizationID := middleware.GetOrganizationID(ctx)
	docType, err := documenttypeprovider.Instance.Get(organizationID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения атрибутов типа документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(docType.Attributes))
}

// @Summary Привязать атрибут
// @Tags Справочник. Тип документа
// @Description Привязать атрибут каталога к типу документа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 dictapimodels.TypeAttributeData	true	"request body"
// @Success 200 {object} apimodels.Response{data=dictapimodels.TypeAttributeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/document_type/{id}/attributes [post]
func (c *documentTypeDictApiController) linkAttribute(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload dictapimodels.TypeAttributeData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	organizationID := middleware.GetOrganizationID(ctx)
	if _, err = documenttypeprovider.Instance.Get(organizationID, id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка привязки атрибута")
	}
	resp, err := attributehandler.Instance.LinkToType(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка привязки атрибута")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Создание атрибута
// @Tags Справочник. Атрибуты
// @Description Создание атрибута каталога
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.AttributeData	true	"request body"
// @Success 200 {object} apimodels.Response{data=dictapimodels.AttributeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/attribute [post]
func (c *documentTypeDictApiController) attributeCreate(ctx *fiber.Ctx) error {
	var payload dictapimodels.AttributeData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := attributehandler.Instance.CreateAttribute(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания атрибута")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Атрибут
// @Tags Справочник. Атрибуты
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.AttributeView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/attribute/{id} [get]
func (c *documentTypeDictApiController) attributeGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := attributehandler.Instance.GetAttribute(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения атрибута")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Каталог атрибутов
// @Tags Справочник. Атрибуты
// @Description Каталог атрибутов
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.AttributeView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/attribute/list [get]
func (c *documentTypeDictApiController) attributeList(ctx *fiber.Ctx) error {
	list, err := attributehandler.Instance.ListAttributes()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения каталога атрибутов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

package middleware

import (
	authutils "docflow-backend/lib/utils/auth-utils"
	"docflow-backend/models"
	apimodels "docflow-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetUserID(ctx *fiber.Ctx) string {
	return getStringClaim(ctx, "sub")
}

func GetOrganizationID(ctx *fiber.Ctx) string {
	return getStringClaim(ctx, "org")
}

func GetRole(ctx *fiber.Ctx) models.UserRole {
	return models.UserRole(getStringClaim(ctx, "role"))
}

func getStringClaim(ctx *fiber.Ctx, key string) string {
	claims := authutils.GetClaims(ctx)
	if value, exist := claims[key]; exist {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

// AdminRequired справочники организации меняет только администратор
func AdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetRole(ctx).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}

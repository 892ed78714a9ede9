package middleware

import (
	"docflow-backend/config"
	apimodels "docflow-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// userIDKey совпадает с тегом user_id логгера запросов
const userIDKey = "user_id"

func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		SuccessHandler: func(ctx *fiber.Ctx) error {
			userID := GetUserID(ctx)
			if userID == "" {
				return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("в токене не указан пользователь"))
			}
			ctx.Locals(userIDKey, userID)
			return ctx.Next()
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("требуется авторизация"))
		},
	})
}

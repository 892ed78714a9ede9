package controllers

import (
	apperrors "docflow-backend/lib/utils/app-errors"
	apimodels "docflow-backend/models/api"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSendError(t *testing.T) {
	c := BaseAPIController{}
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"не найдено", apperrors.NotFound(apperrors.CodeDocumentNotFound, "d1"), fiber.StatusNotFound},
		{"нет прав", apperrors.MissingDocumentPermission("read"), fiber.StatusForbidden},
		{"конфликт", apperrors.Conflict(apperrors.CodeVoteAlreadyExists, "v1"), fiber.StatusConflict},
		{"состояние", apperrors.InvalidState(apperrors.CodeVotingProcessIsOver, "p1"), fiber.StatusUnprocessableEntity},
		{"запрос", apperrors.InvalidRequest("не указано название"), fiber.StatusBadRequest},
		{"хранилище", apperrors.Infrastructure(errors.New("timeout"), apperrors.CodeBlobStorageFailure), fiber.StatusInternalServerError},
		{"прочее", errors.New("db down"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error {
				return c.SendError(ctx, c.GetLogger(ctx), tc.err, "ошибка запроса")
			})
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var result apimodels.Response
			require.NoError(t, json.Unmarshal(body, &result))
			require.Equal(t, "fail", result.Status)
			if tc.status == fiber.StatusInternalServerError {
				// подробности инфраструктурных ошибок клиенту не отдаем
				require.Equal(t, "ошибка запроса", result.Message)
			} else {
				require.Equal(t, tc.err.Error(), result.Message)
			}
		})
	}
}

func TestGetIDByKey(t *testing.T) {
	c := BaseAPIController{}
	app := fiber.New()
	app.Get("/items/:id", func(ctx *fiber.Ctx) error {
		id, err := c.GetID(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		_, err = c.GetIDByKey(ctx, "taskId")
		require.Error(t, err)
		return ctx.SendString(id)
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/items/abc", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "abc", string(body))
}

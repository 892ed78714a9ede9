package substitutionhandler

import (
	"context"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/memstore"
	usersapimodels "docflow-backend/models/api/users"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubstitution(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	assignedAt := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	handler := impl{
		stores: store.Stores(),
		now:    func() time.Time { return assignedAt },
	}
	departmentID := store.AddDepartment("Отдел кадров")
	userID := store.AddUser("Нина", "nina@docflow.ru", departmentID, true)
	substituteID := store.AddUser("Роман", "roman@docflow.ru", departmentID, true)
	store.AddUser("Семен", "semen@docflow.ru", departmentID, true)
	store.AddUser("Тимур", "timur@docflow.ru", store.AddDepartment("ИТ"), true)
	store.AddUser("Ульяна", "ulyana@docflow.ru", departmentID, false)

	t.Run("нет заместителя", func(t *testing.T) {
		_, err := handler.Get(ctx, userID)
		require.True(t, apperrors.IsCode(err, apperrors.CodeSubstitutionNotFound))
		err = handler.Remove(ctx, userID)
		require.True(t, apperrors.IsCode(err, apperrors.CodeSubstitutionNotFound))
	})
	t.Run("сотрудник другого подразделения", func(t *testing.T) {
		_, err := handler.Assign(ctx, userID, usersapimodels.SubstitutionData{Email: "timur@docflow.ru"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeOnlyYourDepartment))
	})
	t.Run("неактивный сотрудник", func(t *testing.T) {
		_, err := handler.Assign(ctx, userID, usersapimodels.SubstitutionData{Email: "ulyana@docflow.ru"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeOnlyYourDepartment))
	})
	t.Run("сам себе заместитель", func(t *testing.T) {
		_, err := handler.Assign(ctx, userID, usersapimodels.SubstitutionData{Email: "nina@docflow.ru"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeSelfSubstitution))
	})

	view, err := handler.Assign(ctx, userID, usersapimodels.SubstitutionData{Email: " Roman@docflow.ru "})
	require.NoError(t, err)
	require.Equal(t, substituteID, view.SubstituteID)
	require.Equal(t, assignedAt, view.AssignedAt)

	t.Run("второй заместитель", func(t *testing.T) {
		_, err := handler.Assign(ctx, userID, usersapimodels.SubstitutionData{Email: "semen@docflow.ru"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUserAlreadySubstituted))
	})

	got, err := handler.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, view.ID, got.ID)

	require.NoError(t, handler.Remove(ctx, userID))
	_, err = handler.Assign(ctx, userID, usersapimodels.SubstitutionData{Email: "semen@docflow.ru"})
	require.NoError(t, err)
}

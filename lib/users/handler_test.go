package usershandler

import (
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/memstore"
	"docflow-backend/models"
	usersapimodels "docflow-backend/models/api/users"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	store := memstore.New()
	handler := NewInstance(store.Stores())
	departmentID := store.AddDepartment("Юридический отдел")

	request := usersapimodels.UserData{
		FirstName:    "Анна",
		LastName:     "Смирнова",
		Email:        " Anna@Docflow.ru",
		DepartmentID: departmentID,
		IsActive:     true,
	}
	id, err := handler.Create("org-1", request)
	require.NoError(t, err)

	view, err := handler.GetByEmail("ANNA@docflow.ru")
	require.NoError(t, err)
	require.Equal(t, id, view.ID)
	require.Equal(t, "anna@docflow.ru", view.Email)
	require.Equal(t, models.EmployeeRole, view.Role)
	require.Equal(t, "Анна Смирнова", view.FullName)

	t.Run("повтор почты", func(t *testing.T) {
		_, err := handler.Create("org-1", request)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
	})
	t.Run("подразделение другой организации", func(t *testing.T) {
		request.Email = "other@docflow.ru"
		_, err := handler.Create("org-2", request)
		require.True(t, apperrors.IsCode(err, apperrors.CodeDepartmentNotFound))
	})
	t.Run("некорректная почта", func(t *testing.T) {
		request.Email = "not-an-email"
		_, err := handler.Create("org-1", request)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
	})
	t.Run("не найден", func(t *testing.T) {
		_, err := handler.Get("missing")
		require.True(t, apperrors.IsCode(err, apperrors.CodeUserNotFound))
	})
}

func TestAssertExist(t *testing.T) {
	store := memstore.New()
	departmentID := store.AddDepartment("Склад")
	first := store.AddUser("Первый", "first@docflow.ru", departmentID, true)
	second := store.AddUser("Второй", "second@docflow.ru", departmentID, false)

	require.NoError(t, AssertExist(store.Stores().Users, []string{first, second}))
	err := AssertExist(store.Stores().Users, []string{first, "missing"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUserNotFound))
}

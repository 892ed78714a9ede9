package departmentprovider

import (
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/memstore"
	dictapimodels "docflow-backend/models/api/dict"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDepartments(t *testing.T) {
	store := memstore.New()
	handler := NewInstance(store.Stores())

	rootID, err := handler.Create("org-1", dictapimodels.DepartmentData{Name: "Бухгалтерия"})
	require.NoError(t, err)
	childID, err := handler.Create("org-1", dictapimodels.DepartmentData{Name: "Расчетный отдел", ParentID: rootID})
	require.NoError(t, err)
	_, err = handler.Create("org-2", dictapimodels.DepartmentData{Name: "Чужой отдел"})
	require.NoError(t, err)

	t.Run("дерево подразделений организации", func(t *testing.T) {
		tree, err := handler.Tree("org-1")
		require.NoError(t, err)
		require.Len(t, tree, 1)
		require.Equal(t, rootID, tree[0].ID)
		require.Len(t, tree[0].SubUnits, 1)
		require.Equal(t, childID, tree[0].SubUnits[0].ID)
	})
	t.Run("родитель из другой организации не найден", func(t *testing.T) {
		_, err := handler.Create("org-2", dictapimodels.DepartmentData{Name: "Отдел", ParentID: rootID})
		require.True(t, apperrors.IsCode(err, apperrors.CodeDepartmentNotFound))
	})
	t.Run("пустое название", func(t *testing.T) {
		_, err := handler.Create("org-1", dictapimodels.DepartmentData{})
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
	})
	t.Run("get проверяет организацию", func(t *testing.T) {
		view, err := handler.Get("org-1", childID)
		require.NoError(t, err)
		require.Equal(t, rootID, view.ParentID)
		_, err = handler.Get("org-2", childID)
		require.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

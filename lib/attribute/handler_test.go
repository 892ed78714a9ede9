package attributehandler

import (
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/memstore"
	"docflow-backend/models"
	dictapimodels "docflow-backend/models/api/dict"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttributeCatalog(t *testing.T) {
	store := memstore.New()
	handler := NewInstance(store.Stores())
	typeID := store.AddDocumentType("Договор")

	number, err := handler.CreateAttribute(dictapimodels.AttributeData{Name: "Номер", Type: models.AttributeTypeString})
	require.NoError(t, err)
	note, err := handler.CreateAttribute(dictapimodels.AttributeData{Name: "Примечание", Type: models.AttributeTypeString})
	require.NoError(t, err)

	t.Run("неизвестный тип атрибута", func(t *testing.T) {
		_, err := handler.CreateAttribute(dictapimodels.AttributeData{Name: "Сумма", Type: "MONEY"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
	})
	t.Run("привязка и обязательные атрибуты", func(t *testing.T) {
		view, err := handler.LinkToType(typeID, dictapimodels.TypeAttributeData{AttributeID: number.ID})
		require.NoError(t, err)
		require.Equal(t, "Номер", view.Name)
		_, err = handler.LinkToType(typeID, dictapimodels.TypeAttributeData{AttributeID: note.ID, Optional: true})
		require.NoError(t, err)

		mandatory, err := handler.MandatoryIDs(typeID)
		require.NoError(t, err)
		require.Equal(t, []string{number.ID}, mandatory)

		list, err := handler.ListForType(typeID)
		require.NoError(t, err)
		require.Len(t, list, 2)

		linked, err := handler.IsLinked(typeID, note.ID)
		require.NoError(t, err)
		require.True(t, linked)
	})
	t.Run("повторная привязка", func(t *testing.T) {
		_, err := handler.LinkToType(typeID, dictapimodels.TypeAttributeData{AttributeID: number.ID})
		require.True(t, apperrors.IsCode(err, apperrors.CodeAttributeAlreadyLinked))
		require.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})
	t.Run("неизвестные тип и атрибут", func(t *testing.T) {
		_, err := handler.LinkToType("missing", dictapimodels.TypeAttributeData{AttributeID: number.ID})
		require.True(t, apperrors.IsCode(err, apperrors.CodeDocumentTypeNotFound))
		_, err = handler.LinkToType(typeID, dictapimodels.TypeAttributeData{AttributeID: "missing"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeAttributeNotFound))
		_, err = handler.GetAttribute("missing")
		require.True(t, apperrors.IsCode(err, apperrors.CodeAttributeNotFound))
	})
}

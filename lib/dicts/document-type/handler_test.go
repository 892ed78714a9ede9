package documenttypeprovider

import (
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/memstore"
	dictapimodels "docflow-backend/models/api/dict"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentTypes(t *testing.T) {
	store := memstore.New()
	handler := NewInstance(store.Stores())

	id, err := handler.Create("org-1", dictapimodels.DocumentTypeData{Name: "Приказ"})
	require.NoError(t, err)
	numberID := store.AddAttribute(id, "Номер", false)

	view, err := handler.Get("org-1", id)
	require.NoError(t, err)
	require.Equal(t, "Приказ", view.Name)
	require.Len(t, view.Attributes, 1)
	require.Equal(t, numberID, view.Attributes[0].AttributeID)
	require.False(t, view.Attributes[0].Optional)

	_, err = handler.Get("org-2", id)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDocumentTypeNotFound))

	list, err := handler.List("org-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = handler.Create("org-1", dictapimodels.DocumentTypeData{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
}

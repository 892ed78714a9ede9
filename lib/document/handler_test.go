package documenthandler

import (
	"context"
	apperrors "docflow-backend/lib/utils/app-errors"
	"docflow-backend/lib/utils/memstore"
	"docflow-backend/models"
	documentapimodels "docflow-backend/models/api/document"
	dbmodels "docflow-backend/models/db"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	handler := NewInstance(store, memstore.NewBlobs())
	departmentID := store.AddDepartment("Юридический отдел")
	authorID := store.AddUser("Анна", "anna@docflow.ru", departmentID, true)
	strangerID := store.AddUser("Олег", "oleg@docflow.ru", departmentID, true)
	typeID := store.AddDocumentType("Договор")

	t.Run("неизвестный тип документа", func(t *testing.T) {
		_, err := handler.Create(ctx, authorID, documentapimodels.DocumentData{Name: "Договор", DocumentTypeID: "missing"})
		require.True(t, apperrors.IsCode(err, apperrors.CodeDocumentTypeNotFound))
	})
	t.Run("пустое название", func(t *testing.T) {
		_, err := handler.Create(ctx, authorID, documentapimodels.DocumentData{DocumentTypeID: typeID})
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
	})

	view, err := handler.Create(ctx, authorID, documentapimodels.DocumentData{Name: "Договор аренды", DocumentTypeID: typeID})
	require.NoError(t, err)
	require.Equal(t, models.DocumentStatusDraft, view.Status)
	require.Equal(t, []string{"CREATOR"}, view.Permissions)
	require.Equal(t, authorID, view.AuthorID)

	_, err = handler.Get(ctx, strangerID, view.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeMissingDocumentPermission))

	list, err := handler.List(ctx, authorID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = handler.List(ctx, strangerID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestGrantRevoke(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	handler := NewInstance(store, memstore.NewBlobs())
	departmentID := store.AddDepartment("Бухгалтерия")
	authorID := store.AddUser("Анна", "anna@docflow.ru", departmentID, true)
	editorID := store.AddUser("Илья", "ilya@docflow.ru", departmentID, true)
	typeID := store.AddDocumentType("Счет")
	documentID := store.AddDocument(typeID, "Счет №15", authorID, models.DocumentStatusDraft)

	t.Run("право автора не выдается", func(t *testing.T) {
		_, err := handler.Grant(ctx, authorID, documentID, documentapimodels.GrantData{
			UserID:      editorID,
			Permissions: []models.DocumentPermission{models.CreatorPermission},
		})
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidRequest))
	})
	t.Run("неизвестный пользователь", func(t *testing.T) {
		_, err := handler.Grant(ctx, authorID, documentID, documentapimodels.GrantData{
			UserID:      "missing",
			Permissions: []models.DocumentPermission{models.ReadPermission},
		})
		require.True(t, apperrors.IsCode(err, apperrors.CodeUserNotFound))
	})

	grant, err := handler.Grant(ctx, authorID, documentID, documentapimodels.GrantData{
		UserID:      editorID,
		Permissions: []models.DocumentPermission{models.ReadPermission, models.EditPermission},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"READ", "EDIT"}, grant.Permissions)

	t.Run("выдавать права может только автор", func(t *testing.T) {
		_, err := handler.Grant(ctx, editorID, documentID, documentapimodels.GrantData{
			UserID:      editorID,
			Permissions: []models.DocumentPermission{models.SendForSigningPermission},
		})
		require.True(t, apperrors.IsCode(err, apperrors.CodeMissingDocumentPermission))
	})

	grants, err := handler.ListGrants(ctx, editorID, documentID)
	require.NoError(t, err)
	require.Len(t, grants, 2)

	err = handler.Revoke(ctx, authorID, documentID, documentapimodels.GrantData{
		UserID:      editorID,
		Permissions: []models.DocumentPermission{models.EditPermission},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"READ"}, store.Grants(documentID)[editorID])

	err = handler.Revoke(ctx, authorID, documentID, documentapimodels.GrantData{
		UserID:      editorID,
		Permissions: []models.DocumentPermission{models.ReadPermission},
	})
	require.NoError(t, err)
	require.NotContains(t, store.Grants(documentID), editorID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	blobs := memstore.NewBlobs()
	handler := NewInstance(store, blobs)
	departmentID := store.AddDepartment("Канцелярия")
	authorID := store.AddUser("Анна", "anna@docflow.ru", departmentID, true)
	readerID := store.AddUser("Павел", "pavel@docflow.ru", departmentID, true)
	typeID := store.AddDocumentType("Приказ")
	documentID := store.AddDocument(typeID, "Приказ №1", authorID, models.DocumentStatusDraft)
	store.Grant(readerID, documentID, models.ReadPermission)

	ref, err := blobs.Put(ctx, []byte("scan"), "application/pdf")
	require.NoError(t, err)
	stores := store.Stores()
	for number := 1; number <= 2; number++ {
		_, err = stores.Versions.Create(dbmodels.DocumentVersion{
			DocumentID: documentID,
			Number:     number,
			ContentID:  &ref,
			AuthorID:   authorID,
		})
		require.NoError(t, err)
	}
	_, err = stores.Subscriptions.Create(dbmodels.Subscription{UserID: readerID, DocumentID: documentID})
	require.NoError(t, err)

	err = handler.Delete(ctx, readerID, documentID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeMissingDocumentPermission))

	t.Run("ошибка каскада откатывает удаление", func(t *testing.T) {
		store.FailOn("documents.Delete")
		defer store.ClearFailures()
		err := handler.Delete(ctx, authorID, documentID)
		require.ErrorIs(t, err, memstore.ErrInjected)
		versions, err := stores.Versions.List(documentID)
		require.NoError(t, err)
		require.Len(t, versions, 2)
		require.True(t, blobs.Has(ref))
	})

	err = handler.Delete(ctx, authorID, documentID)
	require.NoError(t, err)
	require.Empty(t, store.Grants(documentID))
	require.False(t, blobs.Has(ref))
	require.Equal(t, []string{ref}, blobs.Deleted())
	doc, err := stores.Documents.GetByID(documentID)
	require.NoError(t, err)
	require.Nil(t, doc)
	subscription, err := stores.Subscriptions.Get(readerID, documentID)
	require.NoError(t, err)
	require.Nil(t, subscription)
}

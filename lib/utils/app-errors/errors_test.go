package apperrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAppErrors(t *testing.T) {
	t.Run(`wrapped error keeps kind and code`, func(t *testing.T) {
		err := errors.Wrap(NotFound(CodeVoteNotFound, "vote-1"), "ошибка делегирования")
		require.Equal(t, KindNotFound, KindOf(err))
		require.True(t, IsCode(err, CodeVoteNotFound))
		require.False(t, IsCode(err, CodeSignatureNotFound))
	})

	t.Run(`message check`, func(t *testing.T) {
		err := MissingDocumentPermission("edit")
		require.Equal(t, "недостаточно прав на документ: edit", err.Error())
		require.Equal(t, KindPermissionDenied, KindOf(err))

		err = InvalidState(CodeMissingAttributes, "doc-1", "a1", "a2")
		require.Equal(t, "не заполнены обязательные атрибуты (doc-1): a1, a2", err.Error())
	})

	t.Run(`infrastructure unwraps cause`, func(t *testing.T) {
		cause := errors.New("s3 недоступен")
		err := Infrastructure(cause, CodeBlobStorageFailure)
		require.Equal(t, KindInfrastructure, KindOf(err))
		require.True(t, errors.Is(err, cause))
	})

	t.Run(`plain error has no kind`, func(t *testing.T) {
		require.Equal(t, Kind(""), KindOf(errors.New("plain")))
	})
}

package apperrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindConflict         Kind = "CONFLICT"
	KindInvalidState     Kind = "INVALID_STATE"
	KindInfrastructure   Kind = "INFRASTRUCTURE"
)

type Code string

const (
	CodeDocumentNotFound        Code = "DocumentNotFound"
	CodeDocumentVersionNotFound Code = "DocumentVersionNotFound"
	CodeDocumentTypeNotFound    Code = "DocumentTypeNotFound"
	CodeAttributeNotFound       Code = "AttributeNotFound"
	CodeVotingProcessNotFound   Code = "VotingProcessNotFound"
	CodeVoteNotFound            Code = "VoteNotFound"
	CodeSignatureNotFound       Code = "SignatureNotFound"
	CodeSubstitutionNotFound    Code = "SubstitutionNotFound"
	CodeSubscriptionNotFound    Code = "SubscriptionNotFound"
	CodeUserNotFound            Code = "UserNotFound"
	CodeDepartmentNotFound      Code = "DepartmentNotFound"
	CodeContentNotFound         Code = "ContentNotFound"

	CodeMissingDocumentPermission Code = "MissingDocumentPermission"
	CodeOnlyYourDepartment        Code = "OnlyYourDepartment"

	CodeVoteAlreadyExists         Code = "VoteAlreadyExists"
	CodeSignatureAlreadyExists    Code = "SignatureAlreadyExists"
	CodeUserAlreadySubstituted    Code = "UserAlreadySubstituted"
	CodeSubscriptionAlreadyExists Code = "SubscriptionAlreadyExists"
	CodeAttributeAlreadyLinked    Code = "AttributeAlreadyLinked"

	CodeVotingProcessIsOver          Code = "VotingProcessIsOver"
	CodeStatusIncorrectForDelegation Code = "StatusIncorrectForDelegation"
	CodeInvalidDocumentForDelegation Code = "InvalidDocumentForDelegation"
	CodeMissingAttributes            Code = "MissingAttributes"
	CodeStatusIncorrectForRound      Code = "StatusIncorrectForRound"
	CodeStatusIncorrectForSigning    Code = "StatusIncorrectForSigning"
	CodeSignatureAlreadySigned       Code = "SignatureAlreadySigned"
	CodeSelfSubstitution             Code = "SelfSubstitution"
	CodeInvalidRequest               Code = "InvalidRequest"

	CodeBlobStorageFailure Code = "BlobStorageFailure"
)

var codeHumanName = map[Code]string{
	CodeDocumentNotFound:             "документ не найден",
	CodeDocumentVersionNotFound:      "версия документа не найдена",
	CodeDocumentTypeNotFound:         "тип документа не найден",
	CodeAttributeNotFound:            "атрибут не найден",
	CodeVotingProcessNotFound:        "голосование не найдено",
	CodeVoteNotFound:                 "голос не найден",
	CodeSignatureNotFound:            "подпись не найдена",
	CodeSubstitutionNotFound:         "замещение не найдено",
	CodeSubscriptionNotFound:         "подписка не найдена",
	CodeUserNotFound:                 "пользователь не найден",
	CodeDepartmentNotFound:           "подразделение не найдено",
	CodeContentNotFound:              "у версии нет содержимого",
	CodeMissingDocumentPermission:    "недостаточно прав на документ",
	CodeOnlyYourDepartment:           "действие доступно только для активных сотрудников своего подразделения",
	CodeVoteAlreadyExists:            "пользователь уже участвует в голосовании",
	CodeSignatureAlreadyExists:       "пользователь уже участвует в подписании",
	CodeUserAlreadySubstituted:       "у пользователя уже есть заместитель",
	CodeSubscriptionAlreadyExists:    "подписка уже оформлена",
	CodeAttributeAlreadyLinked:       "атрибут уже привязан к типу документа",
	CodeVotingProcessIsOver:          "голосование завершено",
	CodeStatusIncorrectForDelegation: "в текущем статусе документа делегирование невозможно",
	CodeInvalidDocumentForDelegation: "делегировать может только автор документа",
	CodeMissingAttributes:            "не заполнены обязательные атрибуты",
	CodeStatusIncorrectForRound:      "в текущем статусе документа запуск согласования невозможен",
	CodeStatusIncorrectForSigning:    "документ не находится на подписании",
	CodeSignatureAlreadySigned:       "документ уже подписан",
	CodeSelfSubstitution:             "нельзя назначить заместителем самого себя",
	CodeInvalidRequest:               "некорректный запрос",
	CodeBlobStorageFailure:           "ошибка хранилища файлов",
}

func (c Code) ToHuman() string {
	if human, exist := codeHumanName[c]; exist {
		return human
	}
	return string(c)
}

// Error ошибка бизнес-логики с видом, кодом и идентификатором сущности
type Error struct {
	Kind    Kind     `json:"kind"`
	Code    Code     `json:"code"`
	ID      string   `json:"id,omitempty"`
	Details []string `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	msg := e.Code.ToHuman()
	if e.ID != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.ID)
	}
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Details, ", "))
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.cause.Error())
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NotFound(code Code, id string) error {
	return &Error{Kind: KindNotFound, Code: code, ID: id}
}

func MissingDocumentPermission(label string) error {
	return &Error{Kind: KindPermissionDenied, Code: CodeMissingDocumentPermission, Details: []string{label}}
}

func PermissionDenied(code Code, id string) error {
	return &Error{Kind: KindPermissionDenied, Code: code, ID: id}
}

func Conflict(code Code, id string) error {
	return &Error{Kind: KindConflict, Code: code, ID: id}
}

func InvalidState(code Code, id string, details ...string) error {
	return &Error{Kind: KindInvalidState, Code: code, ID: id, Details: details}
}

func InvalidRequest(details ...string) error {
	return &Error{Kind: KindInvalidState, Code: CodeInvalidRequest, Details: details}
}

func Infrastructure(err error, code Code) error {
	return &Error{Kind: KindInfrastructure, Code: code, cause: err}
}

func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

func IsCode(err error, code Code) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

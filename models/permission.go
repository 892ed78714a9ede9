package models

type DocumentPermission string

const (
	CreatorPermission        DocumentPermission = "CREATOR"
	ReadPermission           DocumentPermission = "READ"
	EditPermission           DocumentPermission = "EDIT"
	SendForSigningPermission DocumentPermission = "SEND_FOR_SIGNING"
)

var permissionHumanName = map[DocumentPermission]string{
	CreatorPermission:        "Автор",
	ReadPermission:           "Просмотр",
	EditPermission:           "Редактирование",
	SendForSigningPermission: "Отправка на подпись",
}

func (p DocumentPermission) ToHuman() string {
	if human, exist := permissionHumanName[p]; exist {
		return human
	}
	return string(p)
}

func (p DocumentPermission) IsValid() bool {
	_, ok := permissionHumanName[p]
	return ok
}

// PermissionPredicate проверка одного права из набора прав пользователя на документ
type PermissionPredicate func(p DocumentPermission) bool

func anyOf(set ...DocumentPermission) PermissionPredicate {
	allowMap := map[DocumentPermission]bool{}
	for _, p := range set {
		allowMap[p] = true
	}
	return func(p DocumentPermission) bool {
		return allowMap[p]
	}
}

var (
	CanRead           = anyOf(CreatorPermission, ReadPermission, EditPermission, SendForSigningPermission)
	CanEdit           = anyOf(CreatorPermission, EditPermission)
	CanSendForSigning = anyOf(CreatorPermission, SendForSigningPermission)
	IsCreator         = anyOf(CreatorPermission)
)

// IsReadOnly набор прав состоит только из READ
func IsReadOnly(permissions []string) bool {
	if len(permissions) == 0 {
		return false
	}
	for _, p := range permissions {
		if DocumentPermission(p) != ReadPermission {
			return false
		}
	}
	return true
}

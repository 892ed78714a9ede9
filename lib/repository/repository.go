package repository

import (
	attributestore "docflow-backend/lib/attribute/store"
	departmentstore "docflow-backend/lib/dicts/department/store"
	documenttypestore "docflow-backend/lib/dicts/document-type/store"
	documentversionstore "docflow-backend/lib/document-version/store"
	documentstore "docflow-backend/lib/document/store"
	notificationstore "docflow-backend/lib/notification/store"
	permissionstore "docflow-backend/lib/permission/store"
	signaturestore "docflow-backend/lib/signature/store"
	subscriptionstore "docflow-backend/lib/subscription/store"
	substitutionstore "docflow-backend/lib/substitution/store"
	usersstore "docflow-backend/lib/users/store"
	votingstore "docflow-backend/lib/voting/store"

	"gorm.io/gorm"
)

// Stores набор хранилищ, привязанных к одному соединению или транзакции
type Stores struct {
	Users         usersstore.Provider
	Departments   departmentstore.Provider
	DocumentTypes documenttypestore.Provider
	Attributes    attributestore.Provider
	Documents     documentstore.Provider
	Versions      documentversionstore.Provider
	Permissions   permissionstore.Provider
	Voting        votingstore.Provider
	Signatures    signaturestore.Provider
	Substitutions substitutionstore.Provider
	Subscriptions subscriptionstore.Provider
	Notifications notificationstore.Provider
}

type Provider interface {
	Stores() Stores
	// InTx выполняет fn в транзакции, при ошибке изменения откатываются
	InTx(fn func(tx Stores) error) error
}

func NewStores(DB *gorm.DB) Stores {
	return Stores{
		Users:         usersstore.NewInstance(DB),
		Departments:   departmentstore.NewInstance(DB),
		DocumentTypes: documenttypestore.NewInstance(DB),
		Attributes:    attributestore.NewInstance(DB),
		Documents:     documentstore.NewInstance(DB),
		Versions:      documentversionstore.NewInstance(DB),
		Permissions:   permissionstore.NewInstance(DB),
		Voting:        votingstore.NewInstance(DB),
		Signatures:    signaturestore.NewInstance(DB),
		Substitutions: substitutionstore.NewInstance(DB),
		Subscriptions: subscriptionstore.NewInstance(DB),
		Notifications: notificationstore.NewInstance(DB),
	}
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db:     DB,
		stores: NewStores(DB),
	}
}

type impl struct {
	db     *gorm.DB
	stores Stores
}

func (i impl) Stores() Stores {
	return i.stores
}

func (i impl) InTx(fn func(tx Stores) error) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}

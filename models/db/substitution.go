package dbmodels

import "time"

// Substitution заместитель пользователя, не более одного на пользователя
type Substitution struct {
	BaseModel
	UserID       string `gorm:"type:varchar(36);uniqueIndex"`
	SubstituteID string `gorm:"type:varchar(36)"`
	AssignedAt   time.Time
}

type Subscription struct {
	BaseModel
	UserID     string `gorm:"type:varchar(36);uniqueIndex:idx_user_document_subscription,priority:1"`
	DocumentID string `gorm:"type:varchar(36);uniqueIndex:idx_user_document_subscription,priority:2;index"`
}

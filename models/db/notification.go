package dbmodels

import (
	"docflow-backend/models"
	"time"

	"gorm.io/datatypes"
)

// Notification исходящее уведомление, доставляется воркером
type Notification struct {
	BaseModel
	Email     string                   `gorm:"type:varchar(255);index"`
	Event     models.NotificationEvent `gorm:"type:varchar(50)"`
	Payload   datatypes.JSON
	Attempts  int
	LastError string
	SentAt    *time.Time `gorm:"index"`
}

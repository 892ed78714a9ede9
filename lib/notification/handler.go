package notificationhandler

import (
	"docflow-backend/db"
	"docflow-backend/lib/repository"
	"docflow-backend/lib/utils/helpers"
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Payload содержимое уведомления, хранится в outbox как JSON
type Payload struct {
	Event           models.NotificationEvent `json:"event"`
	DocumentID      string                   `json:"document_id"`
	DocumentName    string                   `json:"document_name"`
	VotingProcessID string                   `json:"voting_process_id,omitempty"`
	SignatureID     string                   `json:"signature_id,omitempty"`
	Outcome         string                   `json:"outcome,omitempty"`
	Subject         string                   `json:"subject"`
	Text            string                   `json:"text"`
}

// Provider отправка уведомлений без ожидания результата: ошибки только логируются
type Provider interface {
	Notify(email string, payload Payload)
	NotifyUsers(userIDs []string, payload Payload)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(repository.NewStores(db.DB))
}

func NewInstance(stores repository.Stores) Provider {
	return impl{
		stores: stores,
	}
}

type impl struct {
	stores repository.Stores
}

func (i impl) getLogger(email string, event models.NotificationEvent) *log.Entry {
	return log.
		WithField("email", email).
		WithField("event", event)
}

func (i impl) Notify(email string, payload Payload) {
	logger := i.getLogger(email, payload.Event)
	email = helpers.NormalizeEmail(email)
	if email == "" {
		logger.Warn("уведомление не создано: не указан адрес")
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.WithError(err).Error("ошибка сериализации уведомления")
		return
	}
	rec := dbmodels.Notification{
		Email:   email,
		Event:   payload.Event,
		Payload: datatypes.JSON(body),
	}
	err = i.stores.Notifications.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения уведомления")
		return
	}
}

func (i impl) NotifyUsers(userIDs []string, payload Payload) {
	userIDs = helpers.Distinct(userIDs)
	if len(userIDs) == 0 {
		return
	}
	users, err := i.stores.Users.ListByIDs(userIDs)
	if err != nil {
		log.
			WithField("event", payload.Event).
			WithField("document_id", payload.DocumentID).
			WithError(err).
			Error("ошибка получения получателей уведомления")
		return
	}
	for _, user := range users {
		if !user.IsActive {
			continue
		}
		i.Notify(user.Email, payload)
	}
}

// Decode разбирает payload из outbox
func Decode(rec dbmodels.Notification) (Payload, error) {
	payload := Payload{}
	err := json.Unmarshal(rec.Payload, &payload)
	return payload, err
}

package documentapimodels

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type DocumentData struct {
	Name           string `json:"name"`
	DocumentTypeID string `json:"document_type_id"`
}

func (c DocumentData) Validate() error {
	if c.Name == "" {
		return errors.New("не указано название документа")
	}
	if c.DocumentTypeID == "" {
		return errors.New("не указан тип документа")
	}
	return nil
}

type DocumentView struct {
	DocumentData
	ID          string                `json:"id"`
	Status      models.DocumentStatus `json:"status"`
	StatusName  string                `json:"status_name"`
	AuthorID    string                `json:"author_id"`
	CreatedAt   time.Time             `json:"created_at"`
	Permissions []string              `json:"permissions,omitempty"` // права текущего пользователя
}

func DocumentConvert(rec dbmodels.Document) DocumentView {
	return DocumentView{
		DocumentData: DocumentData{
			Name:           rec.Name,
			DocumentTypeID: rec.DocumentTypeID,
		},
		ID:         rec.ID,
		Status:     rec.Status,
		StatusName: rec.Status.ToHuman(),
		AuthorID:   rec.AuthorID,
		CreatedAt:  rec.CreatedAt,
	}
}

type GrantData struct {
	UserID      string                      `json:"user_id"`
	Permissions []models.DocumentPermission `json:"permissions"`
}

func (c GrantData) Validate() error {
	if c.UserID == "" {
		return errors.New("не указан пользователь")
	}
	if len(c.Permissions) == 0 {
		return errors.New("не указаны права")
	}
	for _, p := range c.Permissions {
		if !p.IsValid() {
			return errors.Errorf("неизвестное право: %v", p)
		}
		if p == models.CreatorPermission {
			return errors.New("право автора не выдается и не отзывается")
		}
	}
	return nil
}

type GrantView struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions"`
}

func GrantConvert(rec dbmodels.UserDocument) GrantView {
	return GrantView{
		UserID:      rec.UserID,
		Permissions: append([]string{}, rec.Permissions...),
	}
}

type SubscriptionView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DocumentID string    `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func SubscriptionConvert(rec dbmodels.Subscription) SubscriptionView {
	return SubscriptionView{
		ID:         rec.ID,
		UserID:     rec.UserID,
		DocumentID: rec.DocumentID,
		CreatedAt:  rec.CreatedAt,
	}
}

type DelegationData struct {
	Email string `json:"email"`
}

func (c DelegationData) Validate() error {
	if c.Email == "" {
		return errors.New("не указана почта сотрудника")
	}
	return nil
}

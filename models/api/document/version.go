package documentapimodels

import (
	dbmodels "docflow-backend/models/db"
	"time"
)

type AttributeValueData struct {
	AttributeID string `json:"attribute_id"`
	Value       string `json:"value"`
}

// ContentData содержимое новой версии
type ContentData struct {
	Name string
	Type string
	Data []byte
}

// VersionData nil в Attributes или Content означает "взять из предыдущей версии"
type VersionData struct {
	Attributes []AttributeValueData `json:"attributes"`
	Content    *ContentData         `json:"-"`
}

type VersionView struct {
	ID          string               `json:"id"`
	DocumentID  string               `json:"document_id"`
	Number      int                  `json:"number"`
	ContentID   string               `json:"content_id,omitempty"`
	ContentName string               `json:"content_name,omitempty"`
	ContentType string               `json:"content_type,omitempty"`
	AuthorID    string               `json:"author_id"`
	CreatedAt   time.Time            `json:"created_at"`
	Attributes  []AttributeValueData `json:"attributes"`
}

func VersionConvert(rec dbmodels.DocumentVersion) VersionView {
	result := VersionView{
		ID:          rec.ID,
		DocumentID:  rec.DocumentID,
		Number:      rec.Number,
		ContentName: rec.ContentName,
		ContentType: rec.ContentType,
		AuthorID:    rec.AuthorID,
		CreatedAt:   rec.CreatedAt,
		Attributes:  make([]AttributeValueData, 0, len(rec.Values)),
	}
	if rec.ContentID != nil {
		result.ContentID = *rec.ContentID
	}
	for _, value := range rec.Values {
		result.Attributes = append(result.Attributes, AttributeValueData{
			AttributeID: value.AttributeID,
			Value:       value.Value,
		})
	}
	return result
}

type ContentView struct {
	Name string
	Type string
	Data []byte
}

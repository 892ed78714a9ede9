package votingapimodels

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type VotingData struct {
	Name           string    `json:"name"`
	Threshold      float64   `json:"threshold"` // доля голосов "за" от (за + против), (0, 1]
	Deadline       time.Time `json:"deadline"`
	ParticipantIDs []string  `json:"participant_ids"`
}

func (c VotingData) Validate(now time.Time) error {
	if c.Name == "" {
		return errors.New("не указано название голосования")
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		return errors.New("порог должен быть в диапазоне (0, 1]")
	}
	if !c.Deadline.After(now) {
		return errors.New("срок голосования должен быть в будущем")
	}
	if len(c.ParticipantIDs) == 0 {
		return errors.New("не указаны участники голосования")
	}
	return nil
}

type VoteData struct {
	Status models.VoteStatus `json:"status"` // IN_FAVOUR, AGAINST, ABSTAINED
}

func (c VoteData) Validate() error {
	if !c.Status.IsCastable() {
		return errors.Errorf("недопустимый голос: %v", c.Status)
	}
	return nil
}

type VoteView struct {
	ID              string            `json:"id"`
	VotingProcessID string            `json:"voting_process_id"`
	UserID          string            `json:"user_id"`
	Status          models.VoteStatus `json:"status"`
	StatusName      string            `json:"status_name"`
}

func VoteConvert(rec dbmodels.Vote) VoteView {
	return VoteView{
		ID:              rec.ID,
		VotingProcessID: rec.VotingProcessID,
		UserID:          rec.UserID,
		Status:          rec.Status,
		StatusName:      rec.Status.ToHuman(),
	}
}

type VotingView struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Threshold         float64             `json:"threshold"`
	Status            models.VotingStatus `json:"status"`
	Deadline          time.Time           `json:"deadline"`
	CreatedAt         time.Time           `json:"created_at"`
	ResolvedAt        *time.Time          `json:"resolved_at,omitempty"`
	DocumentID        string              `json:"document_id"`
	DocumentVersionID string              `json:"document_version_id"`
	Favour            int                 `json:"favour"`
	Against           int                 `json:"against"`
	Votes             []VoteView          `json:"votes"`
}

func VotingConvert(rec dbmodels.VotingProcess) VotingView {
	favour, against := rec.Tally()
	result := VotingView{
		ID:                rec.ID,
		Name:              rec.Name,
		Threshold:         rec.Threshold,
		Status:            rec.Status,
		Deadline:          rec.Deadline,
		CreatedAt:         rec.CreatedAt,
		ResolvedAt:        rec.ResolvedAt,
		DocumentID:        rec.DocumentID,
		DocumentVersionID: rec.DocumentVersionID,
		Favour:            favour,
		Against:           against,
		Votes:             make([]VoteView, 0, len(rec.Votes)),
	}
	for _, vote := range rec.Votes {
		result.Votes = append(result.Votes, VoteConvert(vote))
	}
	return result
}

type SignatureData struct {
	Name      string   `json:"name"`
	SignerIDs []string `json:"signer_ids"`
}

func (c SignatureData) Validate() error {
	if c.Name == "" {
		return errors.New("не указано название подписания")
	}
	if len(c.SignerIDs) == 0 {
		return errors.New("не указаны подписанты")
	}
	return nil
}

type SignatureView struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Status            models.SignatureStatus `json:"status"`
	UserID            string                 `json:"user_id"`
	DocumentID        string                 `json:"document_id"`
	DocumentVersionID string                 `json:"document_version_id"`
	SentAt            time.Time              `json:"sent_at"`
	SignedAt          *time.Time             `json:"signed_at,omitempty"`
}

func SignatureConvert(rec dbmodels.Signature) SignatureView {
	return SignatureView{
		ID:                rec.ID,
		Name:              rec.Name,
		Status:            rec.Status,
		UserID:            rec.UserID,
		DocumentID:        rec.DocumentID,
		DocumentVersionID: rec.DocumentVersionID,
		SentAt:            rec.SentAt,
		SignedAt:          rec.SignedAt,
	}
}

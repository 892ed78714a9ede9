package dbmodels

import (
	"docflow-backend/models"
	"time"
)

type VotingProcess struct {
	BaseModel
	Name              string              `gorm:"type:varchar(255)"`
	Threshold         float64
	Status            models.VotingStatus `gorm:"type:varchar(20);index:idx_status_deadline,priority:1"`
	Deadline          time.Time           `gorm:"index:idx_status_deadline,priority:2"`
	DocumentVersionID string              `gorm:"type:varchar(36);index"`
	DocumentID        string              `gorm:"type:varchar(36);index"`
	AuthorID          string              `gorm:"type:varchar(36)"`
	ResolvedAt        *time.Time
	Votes             []Vote `gorm:"foreignKey:VotingProcessID"`
}

// Tally число голосов "за" и "против"
func (r VotingProcess) Tally() (favour, against int) {
	for _, vote := range r.Votes {
		switch vote.Status {
		case models.VoteInFavour:
			favour++
		case models.VoteAgainst:
			against++
		}
	}
	return favour, against
}

// AllVoted все участники проголосовали
func (r VotingProcess) AllVoted() bool {
	for _, vote := range r.Votes {
		if vote.Status == models.VoteNotVoted {
			return false
		}
	}
	return len(r.Votes) > 0
}

type Vote struct {
	BaseModel
	Status          models.VoteStatus `gorm:"type:varchar(20)"`
	VotingProcessID string            `gorm:"type:varchar(36);uniqueIndex:idx_process_user,priority:1"`
	UserID          string            `gorm:"type:varchar(36);uniqueIndex:idx_process_user,priority:2;index"`
}

type Signature struct {
	BaseModel
	Name              string                 `gorm:"type:varchar(255)"`
	Status            models.SignatureStatus `gorm:"type:varchar(20)"`
	SentAt            time.Time
	SignedAt          *time.Time
	UserID            string `gorm:"type:varchar(36);uniqueIndex:idx_version_user,priority:2;index"`
	DocumentVersionID string `gorm:"type:varchar(36);uniqueIndex:idx_version_user,priority:1"`
	DocumentID        string `gorm:"type:varchar(36);index"`
}

package votingstore

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.VotingProcess) (id string, err error)
	GetByID(id string) (*dbmodels.VotingProcess, error)
	GetForUpdate(id string) (*dbmodels.VotingProcess, error)
	ListByVersion(versionID string) ([]dbmodels.VotingProcess, error)
	ListByDocument(documentID string) ([]dbmodels.VotingProcess, error)
	ListOverdue(now time.Time) ([]dbmodels.VotingProcess, error)
	Resolve(id string, status models.VotingStatus, resolvedAt time.Time) (bool, error)
	GetVote(votingProcessID, userID string) (*dbmodels.Vote, error)
	UpdateVote(id string, updMap map[string]interface{}) error
	DeleteByDocument(documentID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func preloadVotes(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at ASC")
}

// Create сохраняет голосование вместе с бюллетенями участников
func (i impl) Create(rec dbmodels.VotingProcess) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.VotingProcess, error) {
	rec := dbmodels.VotingProcess{}
	err := i.db.
		Where("id = ?", id).
		Preload("Votes", preloadVotes).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GetForUpdate блокирует строку голосования до конца транзакции
func (i impl) GetForUpdate(id string) (*dbmodels.VotingProcess, error) {
	rec := dbmodels.VotingProcess{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	err = i.db.
		Where("voting_process_id = ?", id).
		Order("created_at ASC").
		Find(&rec.Votes).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByVersion(versionID string) (list []dbmodels.VotingProcess, err error) {
	list = []dbmodels.VotingProcess{}
	err = i.db.
		Where("document_version_id = ?", versionID).
		Order("created_at ASC").
		Preload("Votes", preloadVotes).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByDocument(documentID string) (list []dbmodels.VotingProcess, err error) {
	list = []dbmodels.VotingProcess{}
	err = i.db.
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Preload("Votes", preloadVotes).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListOverdue незавершенные голосования с истекшим сроком
func (i impl) ListOverdue(now time.Time) (list []dbmodels.VotingProcess, err error) {
	list = []dbmodels.VotingProcess{}
	err = i.db.
		Where("status = ?", models.VotingInProgress).
		Where("deadline < ?", now).
		Order("deadline ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Resolve переводит голосование в итоговый статус, только если оно еще идет
func (i impl) Resolve(id string, status models.VotingStatus, resolvedAt time.Time) (bool, error) {
	tx := i.db.
		Model(&dbmodels.VotingProcess{}).
		Where("id = ?", id).
		Where("status = ?", models.VotingInProgress).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) GetVote(votingProcessID, userID string) (*dbmodels.Vote, error) {
	rec := dbmodels.Vote{}
	err := i.db.
		Where("voting_process_id = ?", votingProcessID).
		Where("user_id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) UpdateVote(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Vote{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) DeleteByDocument(documentID string) error {
	err := i.db.
		Where("voting_process_id in (select id from voting_processes where document_id = ?)", documentID).
		Delete(&dbmodels.Vote{}).
		Error
	if err != nil {
		return err
	}
	return i.db.
		Where("document_id = ?", documentID).
		Delete(&dbmodels.VotingProcess{}).
		Error
}

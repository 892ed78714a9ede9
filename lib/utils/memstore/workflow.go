package memstore

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"sort"
	"time"

	"github.com/google/uuid"
)

type votingImpl struct {
	s *Store
}

func (i votingImpl) Create(rec dbmodels.VotingProcess) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("voting.Create", rec.DocumentID); err != nil {
		return "", err
	}
	seen := map[string]bool{}
	for _, vote := range rec.Votes {
		if seen[vote.UserID] {
			return "", errDuplicateKey
		}
		seen[vote.UserID] = true
	}
	votes := rec.Votes
	rec.Votes = nil
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.processes[rec.ID] = rec
	for _, vote := range votes {
		vote.VotingProcessID = rec.ID
		if vote.ID == "" {
			vote.ID = uuid.NewString()
		}
		vote.BaseModel = i.s.base(vote.BaseModel)
		i.s.data.votes[vote.ID] = vote
	}
	return rec.ID, nil
}

// withVotes вызывается под s.mu
func (i votingImpl) withVotes(rec dbmodels.VotingProcess) dbmodels.VotingProcess {
	rec.Votes = []dbmodels.Vote{}
	for _, vote := range i.s.data.votes {
		if vote.VotingProcessID == rec.ID {
			rec.Votes = append(rec.Votes, vote)
		}
	}
	sortByCreated(rec.Votes, func(r dbmodels.Vote) time.Time { return r.CreatedAt }, false)
	return rec
}

func (i votingImpl) get(op, id string) (*dbmodels.VotingProcess, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter(op, id); err != nil {
		return nil, err
	}
	rec, ok := i.s.data.processes[id]
	if !ok {
		return nil, nil
	}
	rec = i.withVotes(rec)
	return &rec, nil
}

func (i votingImpl) GetByID(id string) (*dbmodels.VotingProcess, error) {
	return i.get("voting.GetByID", id)
}

// GetForUpdate транзакции memstore и так выполняются по очереди
func (i votingImpl) GetForUpdate(id string) (*dbmodels.VotingProcess, error) {
	return i.get("voting.GetForUpdate", id)
}

func (i votingImpl) list(op, key string, match func(dbmodels.VotingProcess) bool, desc bool) ([]dbmodels.VotingProcess, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter(op, key); err != nil {
		return nil, err
	}
	list := []dbmodels.VotingProcess{}
	for _, rec := range i.s.data.processes {
		if match(rec) {
			list = append(list, i.withVotes(rec))
		}
	}
	sortByCreated(list, func(r dbmodels.VotingProcess) time.Time { return r.CreatedAt }, desc)
	return list, nil
}

func (i votingImpl) ListByVersion(versionID string) ([]dbmodels.VotingProcess, error) {
	return i.list("voting.ListByVersion", versionID, func(rec dbmodels.VotingProcess) bool {
		return rec.DocumentVersionID == versionID
	}, false)
}

func (i votingImpl) ListByDocument(documentID string) ([]dbmodels.VotingProcess, error) {
	return i.list("voting.ListByDocument", documentID, func(rec dbmodels.VotingProcess) bool {
		return rec.DocumentID == documentID
	}, true)
}

func (i votingImpl) ListOverdue(now time.Time) ([]dbmodels.VotingProcess, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("voting.ListOverdue", ""); err != nil {
		return nil, err
	}
	list := []dbmodels.VotingProcess{}
	for _, rec := range i.s.data.processes {
		if rec.Status == models.VotingInProgress && rec.Deadline.Before(now) {
			list = append(list, rec)
		}
	}
	sort.SliceStable(list, func(a, b int) bool { return list[a].Deadline.Before(list[b].Deadline) })
	return list, nil
}

func (i votingImpl) Resolve(id string, status models.VotingStatus, resolvedAt time.Time) (bool, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("voting.Resolve", id); err != nil {
		return false, err
	}
	rec, ok := i.s.data.processes[id]
	if !ok || rec.Status != models.VotingInProgress {
		return false, nil
	}
	rec.Status = status
	rec.ResolvedAt = &resolvedAt
	rec.UpdatedAt = i.s.touch()
	i.s.data.processes[id] = rec
	return true, nil
}

func (i votingImpl) GetVote(votingProcessID, userID string) (*dbmodels.Vote, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("voting.GetVote", votingProcessID); err != nil {
		return nil, err
	}
	for _, vote := range i.s.data.votes {
		if vote.VotingProcessID == votingProcessID && vote.UserID == userID {
			return &vote, nil
		}
	}
	return nil, nil
}

func (i votingImpl) UpdateVote(id string, updMap map[string]interface{}) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("voting.UpdateVote", id); err != nil {
		return err
	}
	vote, ok := i.s.data.votes[id]
	if !ok {
		return nil
	}
	for key, value := range updMap {
		switch key {
		case "status":
			vote.Status = value.(models.VoteStatus)
		case "user_id":
			vote.UserID = value.(string)
		}
	}
	for otherID, other := range i.s.data.votes {
		if otherID != id && other.VotingProcessID == vote.VotingProcessID && other.UserID == vote.UserID {
			return errDuplicateKey
		}
	}
	vote.UpdatedAt = i.s.touch()
	i.s.data.votes[id] = vote
	return nil
}

func (i votingImpl) DeleteByDocument(documentID string) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("voting.DeleteByDocument", documentID); err != nil {
		return err
	}
	for id, rec := range i.s.data.processes {
		if rec.DocumentID != documentID {
			continue
		}
		for voteID, vote := range i.s.data.votes {
			if vote.VotingProcessID == id {
				delete(i.s.data.votes, voteID)
			}
		}
		delete(i.s.data.processes, id)
	}
	return nil
}

type signaturesImpl struct {
	s *Store
}

func (i signaturesImpl) Create(rec dbmodels.Signature) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("signatures.Create", rec.UserID); err != nil {
		return "", err
	}
	for _, existing := range i.s.data.signatures {
		if existing.DocumentVersionID == rec.DocumentVersionID && existing.UserID == rec.UserID {
			return "", errDuplicateKey
		}
	}
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.signatures[rec.ID] = rec
	return rec.ID, nil
}

func (i signaturesImpl) GetByID(id string) (*dbmodels.Signature, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("signatures.GetByID", id); err != nil {
		return nil, err
	}
	rec, ok := i.s.data.signatures[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i signaturesImpl) GetByUser(versionID, userID string) (*dbmodels.Signature, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("signatures.GetByUser", userID); err != nil {
		return nil, err
	}
	for _, rec := range i.s.data.signatures {
		if rec.DocumentVersionID == versionID && rec.UserID == userID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (i signaturesImpl) list(op, key string, match func(dbmodels.Signature) bool, desc bool) ([]dbmodels.Signature, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter(op, key); err != nil {
		return nil, err
	}
	list := []dbmodels.Signature{}
	for _, rec := range i.s.data.signatures {
		if match(rec) {
			list = append(list, rec)
		}
	}
	sortByCreated(list, func(r dbmodels.Signature) time.Time { return r.CreatedAt }, desc)
	return list, nil
}

func (i signaturesImpl) ListByVersion(versionID string) ([]dbmodels.Signature, error) {
	return i.list("signatures.ListByVersion", versionID, func(rec dbmodels.Signature) bool {
		return rec.DocumentVersionID == versionID
	}, false)
}

func (i signaturesImpl) ListByDocument(documentID string) ([]dbmodels.Signature, error) {
	return i.list("signatures.ListByDocument", documentID, func(rec dbmodels.Signature) bool {
		return rec.DocumentID == documentID
	}, true)
}

func (i signaturesImpl) Update(id string, updMap map[string]interface{}) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("signatures.Update", id); err != nil {
		return err
	}
	rec, ok := i.s.data.signatures[id]
	if !ok {
		return nil
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.SignatureStatus)
		case "user_id":
			rec.UserID = value.(string)
		case "sent_at":
			rec.SentAt = value.(time.Time)
		case "signed_at":
			if value == nil {
				rec.SignedAt = nil
			} else {
				signedAt := value.(time.Time)
				rec.SignedAt = &signedAt
			}
		}
	}
	for otherID, other := range i.s.data.signatures {
		if otherID != id && other.DocumentVersionID == rec.DocumentVersionID && other.UserID == rec.UserID {
			return errDuplicateKey
		}
	}
	rec.UpdatedAt = i.s.touch()
	i.s.data.signatures[id] = rec
	return nil
}

func (i signaturesImpl) MarkSigned(id string, signedAt time.Time) (bool, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("signatures.MarkSigned", id); err != nil {
		return false, err
	}
	rec, ok := i.s.data.signatures[id]
	if !ok || rec.Status != models.SignatureNotSigned {
		return false, nil
	}
	rec.Status = models.SignatureSigned
	rec.SignedAt = &signedAt
	rec.UpdatedAt = i.s.touch()
	i.s.data.signatures[id] = rec
	return true, nil
}

func (i signaturesImpl) CountUnsigned(versionID string) (int64, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("signatures.CountUnsigned", versionID); err != nil {
		return 0, err
	}
	var count int64
	for _, rec := range i.s.data.signatures {
		if rec.DocumentVersionID == versionID && rec.Status == models.SignatureNotSigned {
			count++
		}
	}
	return count, nil
}

func (i signaturesImpl) DeleteByDocument(documentID string) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("signatures.DeleteByDocument", documentID); err != nil {
		return err
	}
	for id, rec := range i.s.data.signatures {
		if rec.DocumentID == documentID {
			delete(i.s.data.signatures, id)
		}
	}
	return nil
}

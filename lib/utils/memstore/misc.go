package memstore

import (
	dbmodels "docflow-backend/models/db"
	"time"
)

type substitutionsImpl struct {
	s *Store
}

func (i substitutionsImpl) Create(rec dbmodels.Substitution) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("substitutions.Create", rec.UserID); err != nil {
		return "", err
	}
	for _, existing := range i.s.data.substitutions {
		if existing.UserID == rec.UserID {
			return "", errDuplicateKey
		}
	}
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.substitutions[rec.ID] = rec
	return rec.ID, nil
}

func (i substitutionsImpl) GetByUser(userID string) (*dbmodels.Substitution, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("substitutions.GetByUser", userID); err != nil {
		return nil, err
	}
	for _, rec := range i.s.data.substitutions {
		if rec.UserID == userID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (i substitutionsImpl) Delete(id string) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("substitutions.Delete", id); err != nil {
		return err
	}
	delete(i.s.data.substitutions, id)
	return nil
}

type subscriptionsImpl struct {
	s *Store
}

func (i subscriptionsImpl) Create(rec dbmodels.Subscription) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("subscriptions.Create", rec.DocumentID); err != nil {
		return "", err
	}
	for _, existing := range i.s.data.subscriptions {
		if existing.UserID == rec.UserID && existing.DocumentID == rec.DocumentID {
			return "", errDuplicateKey
		}
	}
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.subscriptions[rec.ID] = rec
	return rec.ID, nil
}

func (i subscriptionsImpl) Get(userID, documentID string) (*dbmodels.Subscription, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("subscriptions.Get", documentID); err != nil {
		return nil, err
	}
	for _, rec := range i.s.data.subscriptions {
		if rec.UserID == userID && rec.DocumentID == documentID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (i subscriptionsImpl) ListByDocument(documentID string) ([]dbmodels.Subscription, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("subscriptions.ListByDocument", documentID); err != nil {
		return nil, err
	}
	list := []dbmodels.Subscription{}
	for _, rec := range i.s.data.subscriptions {
		if rec.DocumentID == documentID {
			list = append(list, rec)
		}
	}
	sortByCreated(list, func(r dbmodels.Subscription) time.Time { return r.CreatedAt }, false)
	return list, nil
}

func (i subscriptionsImpl) Delete(id string) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("subscriptions.Delete", id); err != nil {
		return err
	}
	delete(i.s.data.subscriptions, id)
	return nil
}

func (i subscriptionsImpl) DeleteByDocument(documentID string) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("subscriptions.DeleteByDocument", documentID); err != nil {
		return err
	}
	for id, rec := range i.s.data.subscriptions {
		if rec.DocumentID == documentID {
			delete(i.s.data.subscriptions, id)
		}
	}
	return nil
}

type notificationsImpl struct {
	s *Store
}

func (i notificationsImpl) Create(rec dbmodels.Notification) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("notifications.Create", rec.Email); err != nil {
		return err
	}
	rec = cloneNotification(rec)
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.notifications[rec.ID] = rec
	return nil
}

func (i notificationsImpl) ListPending(maxAttempts, limit int) ([]dbmodels.Notification, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("notifications.ListPending", ""); err != nil {
		return nil, err
	}
	list := []dbmodels.Notification{}
	for _, rec := range i.s.data.notifications {
		if rec.SentAt == nil && rec.Attempts < maxAttempts {
			list = append(list, cloneNotification(rec))
		}
	}
	sortByCreated(list, func(r dbmodels.Notification) time.Time { return r.CreatedAt }, false)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (i notificationsImpl) MarkSent(id string, sentAt time.Time) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("notifications.MarkSent", id); err != nil {
		return err
	}
	rec, ok := i.s.data.notifications[id]
	if !ok {
		return nil
	}
	rec.SentAt = &sentAt
	rec.UpdatedAt = i.s.touch()
	i.s.data.notifications[id] = rec
	return nil
}

func (i notificationsImpl) MarkFailed(id string, lastError string) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("notifications.MarkFailed", id); err != nil {
		return err
	}
	rec, ok := i.s.data.notifications[id]
	if !ok {
		return nil
	}
	rec.Attempts++
	rec.LastError = lastError
	rec.UpdatedAt = i.s.touch()
	i.s.data.notifications[id] = rec
	return nil
}

// Notifications все уведомления в порядке создания
func (s *Store) Notifications() []dbmodels.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.Notification{}
	for _, rec := range s.data.notifications {
		list = append(list, cloneNotification(rec))
	}
	sortByCreated(list, func(r dbmodels.Notification) time.Time { return r.CreatedAt }, false)
	return list
}

// Grants все записи прав на документ
func (s *Store) Grants(documentID string) map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := map[string][]string{}
	for _, rec := range s.data.grants {
		if rec.DocumentID == documentID {
			result[rec.UserID] = append([]string(nil), rec.Permissions...)
		}
	}
	return result
}

// Votes бюллетени голосования
func (s *Store) Votes(votingProcessID string) []dbmodels.Vote {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.Vote{}
	for _, vote := range s.data.votes {
		if vote.VotingProcessID == votingProcessID {
			list = append(list, vote)
		}
	}
	sortByCreated(list, func(r dbmodels.Vote) time.Time { return r.CreatedAt }, false)
	return list
}

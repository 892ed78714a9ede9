package memstore

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type documentsImpl struct {
	s *Store
}

func (i documentsImpl) Create(rec dbmodels.Document) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("documents.Create", rec.ID); err != nil {
		return "", err
	}
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.documents[rec.ID] = rec
	return rec.ID, nil
}

func (i documentsImpl) GetByID(id string) (*dbmodels.Document, error) {
	return i.get("documents.GetByID", id)
}

// GetForUpdate транзакции memstore и так выполняются по очереди
func (i documentsImpl) GetForUpdate(id string) (*dbmodels.Document, error) {
	return i.get("documents.GetForUpdate", id)
}

func (i documentsImpl) get(op, id string) (*dbmodels.Document, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter(op, id); err != nil {
		return nil, err
	}
	rec, ok := i.s.data.documents[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i documentsImpl) ListForUser(userID string) ([]dbmodels.Document, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("documents.ListForUser", userID); err != nil {
		return nil, err
	}
	list := []dbmodels.Document{}
	for _, grant := range i.s.data.grants {
		if grant.UserID != userID {
			continue
		}
		if rec, ok := i.s.data.documents[grant.DocumentID]; ok {
			list = append(list, rec)
		}
	}
	sortByCreated(list, func(r dbmodels.Document) time.Time { return r.CreatedAt }, true)
	return list, nil
}

func (i documentsImpl) UpdateStatus(id string, from []models.DocumentStatus, to models.DocumentStatus) (bool, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("documents.UpdateStatus", id); err != nil {
		return false, err
	}
	rec, ok := i.s.data.documents[id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if rec.Status == status {
			rec.Status = to
			rec.UpdatedAt = i.s.touch()
			i.s.data.documents[id] = rec
			return true, nil
		}
	}
	return false, nil
}

func (i documentsImpl) Delete(id string) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("documents.Delete", id); err != nil {
		return err
	}
	delete(i.s.data.documents, id)
	return nil
}

type versionsImpl struct {
	s *Store
}

func (i versionsImpl) Create(rec dbmodels.DocumentVersion) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("versions.Create", rec.DocumentID); err != nil {
		return "", err
	}
	for _, existing := range i.s.data.versions {
		if existing.DocumentID == rec.DocumentID && existing.Number == rec.Number {
			return "", errDuplicateKey
		}
	}
	rec = cloneVersion(rec)
	rec.BaseModel = i.s.base(rec.BaseModel)
	for n := range rec.Values {
		if rec.Values[n].ID == "" {
			rec.Values[n].ID = uuid.NewString()
		}
		rec.Values[n].DocumentVersionID = rec.ID
		rec.Values[n].CreatedAt = rec.CreatedAt
		rec.Values[n].UpdatedAt = rec.CreatedAt
	}
	i.s.data.versions[rec.ID] = rec
	return rec.ID, nil
}

func (i versionsImpl) GetByID(id string) (*dbmodels.DocumentVersion, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("versions.GetByID", id); err != nil {
		return nil, err
	}
	rec, ok := i.s.data.versions[id]
	if !ok {
		return nil, nil
	}
	rec = cloneVersion(rec)
	return &rec, nil
}

// byDocument вызывается под s.mu, новые версии первыми
func (i versionsImpl) byDocument(documentID string) []dbmodels.DocumentVersion {
	list := []dbmodels.DocumentVersion{}
	for _, rec := range i.s.data.versions {
		if rec.DocumentID == documentID {
			list = append(list, cloneVersion(rec))
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Number > list[b].Number })
	return list
}

func (i versionsImpl) GetLatest(documentID string) (*dbmodels.DocumentVersion, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("versions.GetLatest", documentID); err != nil {
		return nil, err
	}
	list := i.byDocument(documentID)
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (i versionsImpl) List(documentID string) ([]dbmodels.DocumentVersion, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("versions.List", documentID); err != nil {
		return nil, err
	}
	return i.byDocument(documentID), nil
}

func (i versionsImpl) DeleteByDocument(documentID string) ([]string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("versions.DeleteByDocument", documentID); err != nil {
		return nil, err
	}
	contentIDs := []string{}
	seen := map[string]bool{}
	for id, rec := range i.s.data.versions {
		if rec.DocumentID != documentID {
			continue
		}
		if rec.ContentID != nil && !seen[*rec.ContentID] {
			seen[*rec.ContentID] = true
			contentIDs = append(contentIDs, *rec.ContentID)
		}
		delete(i.s.data.versions, id)
	}
	sort.Strings(contentIDs)
	return contentIDs, nil
}

type permissionsImpl struct {
	s *Store
}

// find вызывается под s.mu
func (i permissionsImpl) find(userID, documentID string) (dbmodels.UserDocument, bool) {
	for _, rec := range i.s.data.grants {
		if rec.UserID == userID && rec.DocumentID == documentID {
			return rec, true
		}
	}
	return dbmodels.UserDocument{}, false
}

func (i permissionsImpl) Get(userID, documentID string) (*dbmodels.UserDocument, error) {
	return i.get("permissions.Get", userID, documentID)
}

// GetForShare транзакции memstore и так выполняются по очереди
func (i permissionsImpl) GetForShare(userID, documentID string) (*dbmodels.UserDocument, error) {
	return i.get("permissions.GetForShare", userID, documentID)
}

func (i permissionsImpl) get(op, userID, documentID string) (*dbmodels.UserDocument, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter(op, userID); err != nil {
		return nil, err
	}
	rec, ok := i.find(userID, documentID)
	if !ok {
		return nil, nil
	}
	rec = cloneGrant(rec)
	return &rec, nil
}

func (i permissionsImpl) ListByDocument(documentID string) ([]dbmodels.UserDocument, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("permissions.ListByDocument", documentID); err != nil {
		return nil, err
	}
	list := []dbmodels.UserDocument{}
	for _, rec := range i.s.data.grants {
		if rec.DocumentID == documentID {
			list = append(list, cloneGrant(rec))
		}
	}
	sortByCreated(list, func(r dbmodels.UserDocument) time.Time { return r.CreatedAt }, false)
	return list, nil
}

func (i permissionsImpl) AddPermissions(userID, documentID string, permissions []models.DocumentPermission) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("permissions.AddPermissions", userID); err != nil {
		return err
	}
	rec, ok := i.find(userID, documentID)
	if !ok {
		rec = dbmodels.UserDocument{
			UserID:     userID,
			DocumentID: documentID,
		}
		rec.BaseModel = i.s.base(rec.BaseModel)
	} else {
		rec = cloneGrant(rec)
		rec.UpdatedAt = i.s.touch()
	}
	held := map[string]bool{}
	for _, p := range rec.Permissions {
		held[p] = true
	}
	for _, p := range permissions {
		if !held[string(p)] {
			held[string(p)] = true
			rec.Permissions = append(rec.Permissions, string(p))
		}
	}
	i.s.data.grants[rec.ID] = rec
	return nil
}

func (i permissionsImpl) RemovePermissions(userID, documentID string, permissions []models.DocumentPermission) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("permissions.RemovePermissions", userID); err != nil {
		return err
	}
	rec, ok := i.find(userID, documentID)
	if !ok {
		return nil
	}
	removed := map[string]bool{}
	for _, p := range permissions {
		removed[string(p)] = true
	}
	left := pq.StringArray{}
	for _, p := range rec.Permissions {
		if !removed[p] {
			left = append(left, p)
		}
	}
	if len(left) == 0 {
		delete(i.s.data.grants, rec.ID)
		return nil
	}
	rec.Permissions = left
	rec.UpdatedAt = i.s.touch()
	i.s.data.grants[rec.ID] = rec
	return nil
}

func (i permissionsImpl) DeleteReadOnly(documentID string) ([]string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("permissions.DeleteReadOnly", documentID); err != nil {
		return nil, err
	}
	userIDs := []string{}
	for id, rec := range i.s.data.grants {
		if rec.DocumentID != documentID {
			continue
		}
		if len(rec.Permissions) == 1 && rec.Permissions[0] == string(models.ReadPermission) {
			userIDs = append(userIDs, rec.UserID)
			delete(i.s.data.grants, id)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

func (i permissionsImpl) DeleteByDocument(documentID string) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("permissions.DeleteByDocument", documentID); err != nil {
		return err
	}
	for id, rec := range i.s.data.grants {
		if rec.DocumentID == documentID {
			delete(i.s.data.grants, id)
		}
	}
	return nil
}

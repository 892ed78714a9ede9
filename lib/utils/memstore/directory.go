package memstore

import (
	dbmodels "docflow-backend/models/db"
	"sort"
	"strings"
	"time"
)

type usersImpl struct {
	s *Store
}

func (i usersImpl) Create(rec dbmodels.User) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("users.Create", rec.ID); err != nil {
		return "", err
	}
	for _, existing := range i.s.data.users {
		if strings.EqualFold(existing.Email, rec.Email) && existing.ID != rec.ID {
			return "", errDuplicateKey
		}
	}
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.users[rec.ID] = rec
	return rec.ID, nil
}

func (i usersImpl) GetByID(id string) (*dbmodels.User, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("users.GetByID", id); err != nil {
		return nil, err
	}
	rec, ok := i.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i usersImpl) FindByEmail(email string) (*dbmodels.User, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("users.FindByEmail", email); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, rec := range i.s.data.users {
		if strings.ToLower(rec.Email) == email {
			return &rec, nil
		}
	}
	return nil, nil
}

func (i usersImpl) ListByIDs(ids []string) ([]dbmodels.User, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("users.ListByIDs", ""); err != nil {
		return nil, err
	}
	list := []dbmodels.User{}
	seen := map[string]bool{}
	for _, id := range ids {
		rec, ok := i.s.data.users[id]
		if ok && !seen[id] {
			seen[id] = true
			list = append(list, rec)
		}
	}
	return list, nil
}

type departmentsImpl struct {
	s *Store
}

func (i departmentsImpl) Create(rec dbmodels.Department) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("departments.Create", rec.ID); err != nil {
		return "", err
	}
	if err := rec.Validate(); err != nil {
		return "", err
	}
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.departments[rec.ID] = rec
	return rec.ID, nil
}

func (i departmentsImpl) GetByID(id string) (*dbmodels.Department, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("departments.GetByID", id); err != nil {
		return nil, err
	}
	rec, ok := i.s.data.departments[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i departmentsImpl) List(organizationID string) ([]dbmodels.Department, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("departments.List", organizationID); err != nil {
		return nil, err
	}
	list := []dbmodels.Department{}
	for _, rec := range i.s.data.departments {
		if organizationID == "" || rec.OrganizationID == organizationID {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Name < list[b].Name })
	return list, nil
}

type documentTypesImpl struct {
	s *Store
}

func (i documentTypesImpl) Create(rec dbmodels.DocumentType) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("documentTypes.Create", rec.ID); err != nil {
		return "", err
	}
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.documentTypes[rec.ID] = rec
	return rec.ID, nil
}

func (i documentTypesImpl) GetByID(id string) (*dbmodels.DocumentType, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("documentTypes.GetByID", id); err != nil {
		return nil, err
	}
	rec, ok := i.s.data.documentTypes[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i documentTypesImpl) List(organizationID string) ([]dbmodels.DocumentType, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("documentTypes.List", organizationID); err != nil {
		return nil, err
	}
	list := []dbmodels.DocumentType{}
	for _, rec := range i.s.data.documentTypes {
		if organizationID == "" || rec.OrganizationID == organizationID {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Name < list[b].Name })
	return list, nil
}

type attributesImpl struct {
	s *Store
}

func (i attributesImpl) Create(rec dbmodels.Attribute) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("attributes.Create", rec.ID); err != nil {
		return "", err
	}
	rec.BaseModel = i.s.base(rec.BaseModel)
	i.s.data.attributes[rec.ID] = rec
	return rec.ID, nil
}

func (i attributesImpl) GetByID(id string) (*dbmodels.Attribute, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("attributes.GetByID", id); err != nil {
		return nil, err
	}
	rec, ok := i.s.data.attributes[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i attributesImpl) List() ([]dbmodels.Attribute, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("attributes.List", ""); err != nil {
		return nil, err
	}
	list := []dbmodels.Attribute{}
	for _, rec := range i.s.data.attributes {
		list = append(list, rec)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Name < list[b].Name })
	return list, nil
}

func (i attributesImpl) Link(rec dbmodels.DocumentTypeAttribute) (string, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("attributes.Link", rec.AttributeID); err != nil {
		return "", err
	}
	for _, existing := range i.s.data.links {
		if existing.DocumentTypeID == rec.DocumentTypeID && existing.AttributeID == rec.AttributeID {
			return "", errDuplicateKey
		}
	}
	rec.BaseModel = i.s.base(rec.BaseModel)
	rec.Attribute = nil
	i.s.data.links[rec.ID] = rec
	return rec.ID, nil
}

// withAttribute вызывается под s.mu
func (i attributesImpl) withAttribute(rec dbmodels.DocumentTypeAttribute) dbmodels.DocumentTypeAttribute {
	if attr, ok := i.s.data.attributes[rec.AttributeID]; ok {
		rec.Attribute = &attr
	}
	return rec
}

func (i attributesImpl) GetLink(documentTypeID, attributeID string) (*dbmodels.DocumentTypeAttribute, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("attributes.GetLink", attributeID); err != nil {
		return nil, err
	}
	for _, rec := range i.s.data.links {
		if rec.DocumentTypeID == documentTypeID && rec.AttributeID == attributeID {
			rec = i.withAttribute(rec)
			return &rec, nil
		}
	}
	return nil, nil
}

func (i attributesImpl) ListLinks(documentTypeID string) ([]dbmodels.DocumentTypeAttribute, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	if err := i.s.enter("attributes.ListLinks", documentTypeID); err != nil {
		return nil, err
	}
	list := []dbmodels.DocumentTypeAttribute{}
	for _, rec := range i.s.data.links {
		if rec.DocumentTypeID == documentTypeID {
			list = append(list, i.withAttribute(rec))
		}
	}
	sortByCreated(list, func(r dbmodels.DocumentTypeAttribute) time.Time { return r.CreatedAt }, false)
	return list, nil
}

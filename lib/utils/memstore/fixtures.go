package memstore

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"time"
)

// Fixtures заготовки данных для тестов, ошибки хранилища приводят к панике

func must(id string, err error) string {
	if err != nil {
		panic(err)
	}
	return id
}

func (s *Store) AddDepartment(name string) string {
	return must(s.Stores().Departments.Create(dbmodels.Department{OrganizationID: "org-1", Name: name}))
}

func (s *Store) AddUser(name, email, departmentID string, active bool) string {
	var department *string
	if departmentID != "" {
		department = &departmentID
	}
	return must(s.Stores().Users.Create(dbmodels.User{
		FirstName:      name,
		LastName:       "Тестов",
		Email:          email,
		IsActive:       active,
		OrganizationID: "org-1",
		DepartmentID:   department,
		Role:           models.EmployeeRole,
	}))
}

func (s *Store) AddDocumentType(name string) string {
	return must(s.Stores().DocumentTypes.Create(dbmodels.DocumentType{OrganizationID: "org-1", Name: name}))
}

// AddAttribute создает атрибут и привязывает его к типу документа
func (s *Store) AddAttribute(documentTypeID, name string, optional bool) string {
	attributeID := must(s.Stores().Attributes.Create(dbmodels.Attribute{Name: name, Type: models.AttributeTypeString}))
	must(s.Stores().Attributes.Link(dbmodels.DocumentTypeAttribute{
		DocumentTypeID: documentTypeID,
		AttributeID:    attributeID,
		Optional:       optional,
	}))
	return attributeID
}

// AddDocument документ в статусе status, автор получает право CREATOR
func (s *Store) AddDocument(documentTypeID, name, authorID string, status models.DocumentStatus) string {
	documentID := must(s.Stores().Documents.Create(dbmodels.Document{
		DocumentTypeID: documentTypeID,
		Name:           name,
		Status:         status,
		AuthorID:       authorID,
	}))
	s.Grant(authorID, documentID, models.CreatorPermission)
	return documentID
}

func (s *Store) Grant(userID, documentID string, permissions ...models.DocumentPermission) {
	err := s.Stores().Permissions.AddPermissions(userID, documentID, permissions)
	if err != nil {
		panic(err)
	}
}

func (s *Store) AddVersion(documentID, authorID string, number int, values map[string]string) string {
	rec := dbmodels.DocumentVersion{
		DocumentID: documentID,
		Number:     number,
		AuthorID:   authorID,
	}
	for attributeID, value := range values {
		rec.Values = append(rec.Values, dbmodels.AttributeValue{AttributeID: attributeID, Value: value})
	}
	return must(s.Stores().Versions.Create(rec))
}

func (s *Store) SetDocumentStatus(documentID string, status models.DocumentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.data.documents[documentID]
	rec.Status = status
	s.data.documents[documentID] = rec
}

func (s *Store) SetVotingStatus(votingProcessID string, status models.VotingStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.data.processes[votingProcessID]
	rec.Status = status
	s.data.processes[votingProcessID] = rec
}

func (s *Store) Document(documentID string) dbmodels.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.documents[documentID]
}

func (s *Store) SetVotingDeadline(votingProcessID string, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.data.processes[votingProcessID]
	rec.Deadline = deadline
	s.data.processes[votingProcessID] = rec
}

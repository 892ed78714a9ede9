// Package memstore хранилище в памяти для тестов обработчиков.
// Реализует все Provider из lib/*/store и транзакции со снимком состояния.
package memstore

import (
	"docflow-backend/lib/repository"
	dbmodels "docflow-backend/models/db"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrInjected = errors.New("memstore: injected failure")

var errDuplicateKey = errors.New("memstore: duplicate key value violates unique constraint")

type state struct {
	users         map[string]dbmodels.User
	departments   map[string]dbmodels.Department
	documentTypes map[string]dbmodels.DocumentType
	attributes    map[string]dbmodels.Attribute
	links         map[string]dbmodels.DocumentTypeAttribute
	documents     map[string]dbmodels.Document
	versions      map[string]dbmodels.DocumentVersion
	grants        map[string]dbmodels.UserDocument
	processes     map[string]dbmodels.VotingProcess
	votes         map[string]dbmodels.Vote
	signatures    map[string]dbmodels.Signature
	substitutions map[string]dbmodels.Substitution
	subscriptions map[string]dbmodels.Subscription
	notifications map[string]dbmodels.Notification
}

func newState() *state {
	return &state{
		users:         map[string]dbmodels.User{},
		departments:   map[string]dbmodels.Department{},
		documentTypes: map[string]dbmodels.DocumentType{},
		attributes:    map[string]dbmodels.Attribute{},
		links:         map[string]dbmodels.DocumentTypeAttribute{},
		documents:     map[string]dbmodels.Document{},
		versions:      map[string]dbmodels.DocumentVersion{},
		grants:        map[string]dbmodels.UserDocument{},
		processes:     map[string]dbmodels.VotingProcess{},
		votes:         map[string]dbmodels.Vote{},
		signatures:    map[string]dbmodels.Signature{},
		substitutions: map[string]dbmodels.Substitution{},
		subscriptions: map[string]dbmodels.Subscription{},
		notifications: map[string]dbmodels.Notification{},
	}
}

func copyMap[T any](src map[string]T, clone func(T) T) map[string]T {
	dst := make(map[string]T, len(src))
	for k, v := range src {
		if clone != nil {
			v = clone(v)
		}
		dst[k] = v
	}
	return dst
}

func (s *state) clone() *state {
	return &state{
		users:         copyMap(s.users, nil),
		departments:   copyMap(s.departments, nil),
		documentTypes: copyMap(s.documentTypes, nil),
		attributes:    copyMap(s.attributes, nil),
		links:         copyMap(s.links, cloneLink),
		documents:     copyMap(s.documents, nil),
		versions:      copyMap(s.versions, cloneVersion),
		grants:        copyMap(s.grants, cloneGrant),
		processes:     copyMap(s.processes, nil),
		votes:         copyMap(s.votes, nil),
		signatures:    copyMap(s.signatures, nil),
		substitutions: copyMap(s.substitutions, nil),
		subscriptions: copyMap(s.subscriptions, nil),
		notifications: copyMap(s.notifications, cloneNotification),
	}
}

func cloneLink(rec dbmodels.DocumentTypeAttribute) dbmodels.DocumentTypeAttribute {
	if rec.Attribute != nil {
		attr := *rec.Attribute
		rec.Attribute = &attr
	}
	return rec
}

func cloneVersion(rec dbmodels.DocumentVersion) dbmodels.DocumentVersion {
	if rec.ContentID != nil {
		contentID := *rec.ContentID
		rec.ContentID = &contentID
	}
	rec.Values = append([]dbmodels.AttributeValue(nil), rec.Values...)
	return rec
}

func cloneGrant(rec dbmodels.UserDocument) dbmodels.UserDocument {
	rec.Permissions = append(rec.Permissions[:0:0], rec.Permissions...)
	return rec
}

func cloneNotification(rec dbmodels.Notification) dbmodels.Notification {
	rec.Payload = append(rec.Payload[:0:0], rec.Payload...)
	if rec.SentAt != nil {
		sentAt := *rec.SentAt
		rec.SentAt = &sentAt
	}
	return rec
}

// Store реализует repository.Provider поверх карт в памяти
type Store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	data     *state
	last     time.Time
	failures map[string]map[string]bool
	calls    map[string]int
	beforeTx func(tx repository.Stores) error
}

func New() *Store {
	return &Store{
		data:     newState(),
		failures: map[string]map[string]bool{},
		calls:    map[string]int{},
	}
}

func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Users:         usersImpl{s: s},
		Departments:   departmentsImpl{s: s},
		DocumentTypes: documentTypesImpl{s: s},
		Attributes:    attributesImpl{s: s},
		Documents:     documentsImpl{s: s},
		Versions:      versionsImpl{s: s},
		Permissions:   permissionsImpl{s: s},
		Voting:        votingImpl{s: s},
		Signatures:    signaturesImpl{s: s},
		Substitutions: substitutionsImpl{s: s},
		Subscriptions: subscriptionsImpl{s: s},
		Notifications: notificationsImpl{s: s},
	}
}

// InTx транзакции выполняются строго по очереди, при ошибке состояние восстанавливается из снимка
func (s *Store) InTx(fn func(tx repository.Stores) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	hook := s.beforeTx
	s.mu.Unlock()

	var err error
	if hook != nil {
		err = hook(s.Stores())
	}
	if err == nil {
		err = fn(s.Stores())
	}
	if err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// BeforeTx выполняет hook в начале каждой транзакции, раньше кода обработчика.
// Изменения hook откатываются вместе с транзакцией. nil снимает hook.
func (s *Store) BeforeTx(hook func(tx repository.Stores) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeTx = hook
}

// FailOn заставляет операцию op ("voting.Resolve", "versions.Create", ...) возвращать ErrInjected.
// Без ids ошибка возвращается для любого вызова.
func (s *Store) FailOn(op string, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := map[string]bool{}
	if len(ids) == 0 {
		set[""] = true
	}
	for _, id := range ids {
		set[id] = true
	}
	s.failures[op] = set
}

func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]map[string]bool{}
}

// Calls число вызовов операции op
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter вызывается под s.mu
func (s *Store) enter(op, id string) error {
	s.calls[op]++
	set, ok := s.failures[op]
	if !ok {
		return nil
	}
	if set[""] || set[id] {
		return errors.Wrapf(ErrInjected, "%s(%s)", op, id)
	}
	return nil
}

// base заполняет id и время создания; время строго возрастает, чтобы сортировка была стабильной
func (s *Store) base(rec dbmodels.BaseModel) dbmodels.BaseModel {
	now := time.Now()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return rec
}

func (s *Store) touch() time.Time {
	now := time.Now()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

func sortByCreated[T any](list []T, created func(T) time.Time, desc bool) {
	sort.SliceStable(list, func(a, b int) bool {
		if desc {
			return created(list[a]).After(created(list[b]))
		}
		return created(list[a]).Before(created(list[b]))
	})
}

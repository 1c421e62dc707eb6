package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"virtualevents/internal/domain"
)

// testLogger discards all output so tests never assert on log lines.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// memEventRepository is an in-memory event store. AddAttendee evaluates the
// same predicate the document store evaluates atomically, under a mutex, so
// concurrency tests exercise real conditional-update semantics.
type memEventRepository struct {
	mu     sync.Mutex
	events map[string]*domain.Event

	getErr    error
	removeErr error

	removeCalls int
}

func newMemEventRepository(events ...*domain.Event) *memEventRepository {
	m := &memEventRepository{events: make(map[string]*domain.Event)}
	for _, ev := range events {
		m.events[ev.ID] = ev
	}
	return m
}

func (m *memEventRepository) Create(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *memEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Event, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev)
	}
	return out, nil
}

func (m *memEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ev
	cp.Attendees = append([]string(nil), ev.Attendees...)
	return &cp, nil
}

func (m *memEventRepository) Update(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; !ok {
		return domain.ErrNotFound
	}
	m.events[event.ID] = event
	return nil
}

func (m *memEventRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memEventRepository) AddAttendee(ctx context.Context, eventID, userID string, now time.Time) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[eventID]
	if !ok {
		return nil, domain.ErrConditionFailed
	}
	if ev.Status != domain.StatusPublished {
		return nil, domain.ErrConditionFailed
	}
	if ev.RegistrationDeadline != nil && ev.RegistrationDeadline.Before(now) {
		return nil, domain.ErrConditionFailed
	}
	attending := false
	for _, id := range ev.Attendees {
		if id == userID {
			attending = true
			break
		}
	}
	if !attending && !ev.IsUnlimitedCapacity && len(ev.Attendees) >= ev.Capacity {
		return nil, domain.ErrConditionFailed
	}
	if !attending {
		ev.Attendees = append(ev.Attendees, userID)
	}
	ev.UpdatedAt = now
	cp := *ev
	cp.Attendees = append([]string(nil), ev.Attendees...)
	return &cp, nil
}

func (m *memEventRepository) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeCalls++
	if m.removeErr != nil {
		return m.removeErr
	}
	ev, ok := m.events[eventID]
	if !ok {
		return nil
	}
	kept := ev.Attendees[:0]
	for _, id := range ev.Attendees {
		if id != userID {
			kept = append(kept, id)
		}
	}
	ev.Attendees = kept
	return nil
}

// memRegistrationRepository is an in-memory registration store keyed by
// (event, user), mirroring the unique compound index.
type memRegistrationRepository struct {
	mu   sync.Mutex
	rows map[string]*domain.EventRegistration

	upsertErr error
	listErr   error
}

func newMemRegistrationRepository() *memRegistrationRepository {
	return &memRegistrationRepository{rows: make(map[string]*domain.EventRegistration)}
}

func regKey(eventID, userID string) string { return eventID + ":" + userID }

func (m *memRegistrationRepository) seed(reg *domain.EventRegistration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[regKey(reg.EventID, reg.UserID)] = reg
}

func (m *memRegistrationRepository) Upsert(ctx context.Context, eventID, userID, source string, now time.Time) (*domain.EventRegistration, bool, error) {
	if m.upsertErr != nil {
		return nil, false, m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := regKey(eventID, userID)
	if reg, ok := m.rows[key]; ok {
		reg.Status = domain.RegistrationRegistered
		reg.CancelledAt = nil
		reg.UpdatedAt = now
		return reg, false, nil
	}
	reg := &domain.EventRegistration{
		ID:           key,
		EventID:      eventID,
		UserID:       userID,
		Status:       domain.RegistrationRegistered,
		RegisteredAt: now,
		Source:       source,
		Metadata:     map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.rows[key] = reg
	return reg, true, nil
}

func (m *memRegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.rows[regKey(eventID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

func (m *memRegistrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EventRegistration, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.EventRegistration
	for _, reg := range m.rows {
		if reg.UserID == userID {
			out = append(out, reg)
		}
	}
	return out, nil
}

type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User

	createErr error
	listErr   error

	created []*domain.User
}

func newMockUserRepository(users ...*domain.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = "user-" + user.Username
	m.users[user.ID] = user
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// mockEmailService records confirmation sends and signals on a channel so
// tests can wait for the detached goroutine.
type mockEmailService struct {
	err  error
	sent chan string
}

func newMockEmailService() *mockEmailService {
	return &mockEmailService{sent: make(chan string, 16)}
}

func (m *mockEmailService) SendRegistrationConfirmation(ctx context.Context, user *domain.User, event *domain.Event) error {
	m.sent <- user.ID
	return m.err
}

type mockTokenIssuer struct {
	token string
	err   error

	lastUserID string
	lastRole   domain.Role
}

func (m *mockTokenIssuer) Issue(userID string, role domain.Role) (string, error) {
	m.lastUserID = userID
	m.lastRole = role
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

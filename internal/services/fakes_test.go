package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"SportClubAPI/internal/model"
	"SportClubAPI/internal/repository"
)

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]model.User
	failing error
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]model.User{}}
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return fmt.Errorf("user %s: %w", u.Email, repository.ErrDuplicate)
	}
	m.byEmail[u.Email] = *u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *memUsers) ListMemberEmails(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for e, u := range m.byEmail {
		if u.Member {
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out, nil
}

// codeMailer records the last code sent to each address.
type codeMailer struct {
	mu    sync.Mutex
	codes map[string]int
	err   error
}

func newCodeMailer() *codeMailer {
	return &codeMailer{codes: map[string]int{}}
}

func (m *codeMailer) SendVerificationCode(_ context.Context, to string, code int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.codes[to] = code
	return nil
}

func (m *codeMailer) last(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

type sentMail struct {
	To  string
	Msg EmailMessage
}

type recordingMailer struct {
	mu     sync.Mutex
	sent   []sentMail
	failTo string
}

func (m *recordingMailer) Send(_ context.Context, to string, msg EmailMessage) error {
	if to == m.failTo {
		return errors.New("rejected")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Msg: msg})
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		out = append(out, s.To)
	}
	sort.Strings(out)
	return out
}

type listSubscriber struct {
	members map[string]string
	err     error
}

func (l *listSubscriber) AddListMember(_ context.Context, email, name string) error {
	if l.err != nil {
		return l.err
	}
	if _, ok := l.members[email]; ok {
		return ErrAlreadySubscribed
	}
	l.members[email] = name
	return nil
}

type memTeams struct {
	teams  []model.Team
	nextID int64
	err    error
}

func (m *memTeams) List(context.Context) ([]model.Team, error) { return m.teams, nil }

func (m *memTeams) Create(_ context.Context, t *model.Team) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	t.ID = m.nextID
	m.teams = append(m.teams, *t)
	return t.ID, nil
}

func (m *memTeams) DeleteByName(_ context.Context, name string) (*model.Team, error) {
	for i, t := range m.teams {
		if t.Name == name {
			m.teams = append(m.teams[:i], m.teams[i+1:]...)
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memNews struct {
	items []model.News
	err   error
}

func (m *memNews) List(context.Context) ([]model.News, error) { return m.items, nil }

func (m *memNews) Create(_ context.Context, n *model.News) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	n.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *n)
	return n.ID, nil
}

func (m *memNews) DeleteByTitle(_ context.Context, title string) (*model.News, error) {
	for i, n := range m.items {
		if n.Title == title {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return &n, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memMatches struct {
	items []model.Match
}

func (m *memMatches) List(context.Context) ([]model.Match, error) { return m.items, nil }

func (m *memMatches) Create(_ context.Context, mt *model.Match) (int64, error) {
	mt.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *mt)
	return mt.ID, nil
}

func (m *memMatches) DeleteByTeams(_ context.Context, teams string) error {
	for i, mt := range m.items {
		if mt.Teams == teams {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func userFixture(email, hash, salt string) model.User {
	return model.User{ID: "u-1", Email: email, Hash: hash, Salt: salt, FName: "Ana", LName: "B"}
}

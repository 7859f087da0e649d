package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/streamcat/internal/model"
	"github.com/user/streamcat/internal/store"
)

// MockStore implements store.Store in memory and records every call
type MockStore struct {
	mu     sync.Mutex
	calls  []string
	err    error
	closed bool

	viewers  []model.Account
	genres   map[int][]string
	sessions []model.Session
	movies   []model.CatalogEntry
	loaded   []model.TableRows
	renamed  map[int]string
	window   [2]time.Time

	reviewed []model.ReviewedRelease
	popular  []model.PopularRelease
	resolved []model.SessionRelease
	active   []model.ActiveViewer
	viewed   []model.VideoViewership
}

func NewMockStore() *MockStore {
	return &MockStore{
		genres:  make(map[int][]string),
		renamed: make(map[int]string),
	}
}

func (m *MockStore) record(format string, args ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
	return m.err
}

func (m *MockStore) ResetSchema(ctx context.Context) error {
	return m.record("ResetSchema")
}

func (m *MockStore) Load(ctx context.Context, sources []model.TableRows) error {
	m.loaded = sources
	return m.record("Load(%d)", len(sources))
}

func (m *MockStore) CreateAccount(ctx context.Context, acct model.Account) error {
	m.viewers = append(m.viewers, acct)
	return m.record("CreateAccount(%d)", acct.User.UID)
}

func (m *MockStore) CreateViewer(ctx context.Context, user model.User, viewer model.Viewer) error {
	m.viewers = append(m.viewers, model.NewViewerAccount(user, viewer))
	return m.record("CreateViewer(%d)", user.UID)
}

func (m *MockStore) AddGenre(ctx context.Context, uid int, genre string) error {
	m.genres[uid] = append(m.genres[uid], genre)
	return m.record("AddGenre(%d,%s)", uid, genre)
}

func (m *MockStore) DeleteViewer(ctx context.Context, uid int) error {
	return m.record("DeleteViewer(%d)", uid)
}

func (m *MockStore) CreateCatalogEntry(ctx context.Context, entry model.CatalogEntry) error {
	m.movies = append(m.movies, entry)
	return m.record("CreateCatalogEntry(%d)", entry.Release.RID)
}

func (m *MockStore) CreateMovie(ctx context.Context, rid int, websiteURL *string) error {
	m.movies = append(m.movies, model.NewMovieEntry(rid, model.Movie{WebsiteURL: websiteURL}))
	return m.record("CreateMovie(%d)", rid)
}

func (m *MockStore) CreateSession(ctx context.Context, session model.Session) error {
	m.sessions = append(m.sessions, session)
	return m.record("CreateSession(%d)", session.SID)
}

func (m *MockStore) RenameRelease(ctx context.Context, rid int, title string) error {
	m.renamed[rid] = title
	return m.record("RenameRelease(%d,%s)", rid, title)
}

func (m *MockStore) ReviewedReleases(ctx context.Context, uid int) ([]model.ReviewedRelease, error) {
	return m.reviewed, m.record("ReviewedReleases(%d)", uid)
}

func (m *MockStore) PopularReleases(ctx context.Context, n int) ([]model.PopularRelease, error) {
	return m.popular, m.record("PopularReleases(%d)", n)
}

func (m *MockStore) SessionRelease(ctx context.Context, sid int) ([]model.SessionRelease, error) {
	if err := m.record("SessionRelease(%d)", sid); err != nil {
		return nil, err
	}
	if len(m.resolved) == 0 {
		return nil, store.ErrNoResult
	}
	return m.resolved, nil
}

func (m *MockStore) ActiveViewers(ctx context.Context, minSessions int, start, end time.Time) ([]model.ActiveViewer, error) {
	m.window = [2]time.Time{start, end}
	return m.active, m.record("ActiveViewers(%d)", minSessions)
}

func (m *MockStore) VideoViewership(ctx context.Context, rid int) ([]model.VideoViewership, error) {
	return m.viewed, m.record("VideoViewership(%d)", rid)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.record("Ping")
}

func (m *MockStore) Close() error {
	m.closed = true
	return nil
}

var _ store.Store = (*MockStore)(nil)

package store

import (
	"context"
	"time"

	"github.com/user/streamcat/internal/model"
)

// Store defines the catalog's persistence operations. Every method runs as
// its own unit of work on a connection it acquires and releases itself.
type Store interface {
	// Schema and bulk load
	ResetSchema(ctx context.Context) error
	Load(ctx context.Context, sources []model.TableRows) error

	// Mutations
	CreateAccount(ctx context.Context, acct model.Account) error
	CreateViewer(ctx context.Context, user model.User, viewer model.Viewer) error
	AddGenre(ctx context.Context, uid int, genre string) error
	DeleteViewer(ctx context.Context, uid int) error
	CreateCatalogEntry(ctx context.Context, entry model.CatalogEntry) error
	CreateMovie(ctx context.Context, rid int, websiteURL *string) error
	CreateSession(ctx context.Context, session model.Session) error
	RenameRelease(ctx context.Context, rid int, title string) error

	// Reports
	ReviewedReleases(ctx context.Context, uid int) ([]model.ReviewedRelease, error)
	PopularReleases(ctx context.Context, n int) ([]model.PopularRelease, error)
	SessionRelease(ctx context.Context, sid int) ([]model.SessionRelease, error)
	ActiveViewers(ctx context.Context, minSessions int, start, end time.Time) ([]model.ActiveViewer, error)
	VideoViewership(ctx context.Context, rid int) ([]model.VideoViewership, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}

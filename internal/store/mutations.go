package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/user/streamcat/internal/model"
	"github.com/user/streamcat/internal/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type genreInput struct {
	Genre string `validate:"genre"`
}

type renameInput struct {
	Title string `validate:"required,max=255"`
}

// CreateAccount inserts a user row and its role row in one transaction
func (s *MySQLStore) CreateAccount(ctx context.Context, acct model.Account) error {
	if acct.Role == nil {
		return classify("create account", fmt.Errorf("%w: account has no role", ErrValidation))
	}
	if err := validation.Struct(&acct.User); err != nil {
		return classify("create account", err)
	}
	acct.Bind()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&acct.User).Error; err != nil {
			return err
		}
		return tx.Create(acct.Role).Error
	})
	if err != nil {
		return classify("create account", err)
	}

	log.Debug().Int("uid", acct.User.UID).Str("role", acct.Role.TableName()).Msg("Account created")
	return nil
}

// CreateViewer inserts a user together with its viewer row
func (s *MySQLStore) CreateViewer(ctx context.Context, user model.User, viewer model.Viewer) error {
	return s.CreateAccount(ctx, model.NewViewerAccount(user, viewer))
}

// AddGenre appends genre to the user's genre list. A genre that is already
// present in any letter case leaves the list untouched and is not an error.
func (s *MySQLStore) AddGenre(ctx context.Context, uid int, genre string) error {
	if err := validation.Struct(&genreInput{Genre: genre}); err != nil {
		return classify("add genre", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("uid", "genres").
			Where("uid = ?", uid).
			Take(&user).Error; err != nil {
			return err
		}

		stored := ""
		if user.Genres != nil {
			stored = *user.Genres
		}
		updated, changed := model.AppendGenre(stored, genre)
		if !changed {
			log.Debug().Int("uid", uid).Str("genre", genre).Msg("Genre already present")
			return nil
		}

		return tx.Model(&model.User{}).
			Where("uid = ?", uid).
			Update("genres", updated).Error
	})
	return classify("add genre", err)
}

// DeleteViewer removes the viewer row and then its user row. Sessions and
// reviews by the viewer go with it through ON DELETE CASCADE.
func (s *MySQLStore) DeleteViewer(ctx context.Context, uid int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("uid = ?", uid).Delete(&model.Viewer{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: viewer %d", ErrNotFound, uid)
		}
		return tx.Where("uid = ?", uid).Delete(&model.User{}).Error
	})
	return classify("delete viewer", err)
}

// CreateCatalogEntry inserts the variant row of an existing release. A
// missing release or an existing variant row is ErrConstraint.
func (s *MySQLStore) CreateCatalogEntry(ctx context.Context, entry model.CatalogEntry) error {
	if entry.Kind == nil {
		return classify("create catalog entry", fmt.Errorf("%w: entry has no kind", ErrValidation))
	}
	entry.Bind()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(entry.Kind).Error
	})
	if err != nil {
		return classify("create "+entry.Kind.TableName()+" entry", err)
	}

	log.Debug().Int("rid", entry.Release.RID).Str("kind", entry.Kind.TableName()).Msg("Catalog entry created")
	return nil
}

// CreateMovie marks an existing release as a movie
func (s *MySQLStore) CreateMovie(ctx context.Context, rid int, websiteURL *string) error {
	return s.CreateCatalogEntry(ctx, model.NewMovieEntry(rid, model.Movie{WebsiteURL: websiteURL}))
}

// CreateSession records a viewing of an existing video by an existing viewer
func (s *MySQLStore) CreateSession(ctx context.Context, session model.Session) error {
	if err := validation.Struct(&session); err != nil {
		return classify("create session", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&session).Error
	})
	return classify("create session", err)
}

// RenameRelease sets a release's title. A rid that matches no row is
// reported as ErrNotFound.
func (s *MySQLStore) RenameRelease(ctx context.Context, rid int, title string) error {
	if err := validation.Struct(&renameInput{Title: title}); err != nil {
		return classify("rename release", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Release{}).Where("rid = ?", rid).Update("title", title)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: release %d", ErrNotFound, rid)
		}
		return nil
	})
	return classify("rename release", err)
}

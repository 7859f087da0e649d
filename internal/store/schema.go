package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/user/streamcat/internal/model"
	"gorm.io/gorm"
)

// createStatements holds the DDL for each managed table. Statements are run
// in model.Tables order, which puts referenced tables first.
var createStatements = map[string]string{
	model.TableUsers: `
		CREATE TABLE users (
			uid INT PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			nickname VARCHAR(255),
			street VARCHAR(255),
			city VARCHAR(255),
			state VARCHAR(255),
			zip VARCHAR(255),
			genres VARCHAR(255),
			joined_date DATE,
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB`,

	model.TableViewers: `
		CREATE TABLE viewers (
			uid INT PRIMARY KEY,
			first VARCHAR(255),
			last VARCHAR(255),
			subscription VARCHAR(255),
			CONSTRAINT fk_viewers_user FOREIGN KEY (uid) REFERENCES users(uid) ON DELETE CASCADE
		) ENGINE=InnoDB`,

	model.TableProducers: `
		CREATE TABLE producers (
			uid INT PRIMARY KEY,
			company VARCHAR(255),
			bio TEXT,
			CONSTRAINT fk_producers_user FOREIGN KEY (uid) REFERENCES users(uid) ON DELETE CASCADE
		) ENGINE=InnoDB`,

	model.TableReleases: `
		CREATE TABLE releases (
			rid INT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			genre VARCHAR(255),
			release_date DATE,
			producer_uid INT NULL,
			CONSTRAINT fk_releases_producer FOREIGN KEY (producer_uid) REFERENCES producers(uid) ON DELETE SET NULL
		) ENGINE=InnoDB`,

	model.TableSeries: `
		CREATE TABLE series (
			rid INT PRIMARY KEY,
			introduction TEXT,
			CONSTRAINT fk_series_release FOREIGN KEY (rid) REFERENCES releases(rid) ON DELETE CASCADE
		) ENGINE=InnoDB`,

	model.TableMovies: `
		CREATE TABLE movies (
			rid INT PRIMARY KEY,
			website_url VARCHAR(255),
			CONSTRAINT fk_movies_release FOREIGN KEY (rid) REFERENCES releases(rid) ON DELETE CASCADE
		) ENGINE=InnoDB`,

	model.TableVideos: `
		CREATE TABLE videos (
			rid INT NOT NULL,
			ep_num INT NOT NULL,
			title VARCHAR(255),
			length INT,
			PRIMARY KEY (rid, ep_num),
			CONSTRAINT fk_videos_release FOREIGN KEY (rid) REFERENCES releases(rid) ON DELETE CASCADE
		) ENGINE=InnoDB`,

	model.TableReviews: `
		CREATE TABLE reviews (
			rvid INT PRIMARY KEY,
			uid INT NOT NULL,
			rid INT NOT NULL,
			rating INT,
			body TEXT,
			posted_at DATETIME,
			UNIQUE KEY uq_reviews_viewer_release (uid, rid),
			CONSTRAINT fk_reviews_viewer FOREIGN KEY (uid) REFERENCES viewers(uid) ON DELETE CASCADE,
			CONSTRAINT fk_reviews_release FOREIGN KEY (rid) REFERENCES releases(rid) ON DELETE CASCADE
		) ENGINE=InnoDB`,

	model.TableSessions: `
		CREATE TABLE sessions (
			sid INT PRIMARY KEY,
			uid INT NOT NULL,
			rid INT NOT NULL,
			ep_num INT NOT NULL,
			initiate_at DATETIME,
			leave_at DATETIME,
			quality VARCHAR(50),
			device VARCHAR(50),
			KEY idx_sessions_initiate_at (initiate_at),
			CONSTRAINT fk_sessions_viewer FOREIGN KEY (uid) REFERENCES viewers(uid) ON DELETE CASCADE,
			CONSTRAINT fk_sessions_video FOREIGN KEY (rid, ep_num) REFERENCES videos(rid, ep_num) ON DELETE CASCADE
		) ENGINE=InnoDB`,
}

// ResetSchema drops every managed table and recreates the empty schema.
// Foreign-key checks are off only while the DDL runs, on one pinned
// connection. If any statement fails, the managed tables are dropped again so
// no half-built schema is left behind.
func (s *MySQLStore) ResetSchema(ctx context.Context) error {
	err := s.db.WithContext(ctx).Connection(func(pinned *gorm.DB) (err error) {
		// fresh statement per call so an earlier failure does not stick
		conn := pinned.Session(&gorm.Session{NewDB: true})
		if err := conn.Exec("SET FOREIGN_KEY_CHECKS = 0").Error; err != nil {
			return err
		}
		defer func() {
			if restoreErr := conn.Exec("SET FOREIGN_KEY_CHECKS = 1").Error; restoreErr != nil && err == nil {
				err = restoreErr
			}
		}()

		if err := dropTables(conn); err != nil {
			return err
		}
		if err := createTables(conn); err != nil {
			if cleanupErr := dropTables(conn); cleanupErr != nil {
				log.Error().Err(cleanupErr).Msg("Failed to drop partially created schema")
				return errors.Join(err, cleanupErr)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return classify("reset schema", err)
	}

	log.Debug().Int("tables", len(model.Tables)).Msg("Schema reset")
	return nil
}

// dropTables drops managed tables in reverse dependency order
func dropTables(conn *gorm.DB) error {
	for i := len(model.Tables) - 1; i >= 0; i-- {
		name := model.Tables[i].Name
		if err := conn.Exec(fmt.Sprintf("DROP TABLE IF EXISTS `%s`", name)).Error; err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

// createTables creates managed tables in dependency order
func createTables(conn *gorm.DB) error {
	for _, t := range model.Tables {
		stmt, ok := createStatements[t.Name]
		if !ok {
			return fmt.Errorf("no DDL for table %s", t.Name)
		}
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", t.Name, err)
		}
	}
	return nil
}

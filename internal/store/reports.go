package store

import (
	"context"
	"fmt"
	"time"

	"github.com/user/streamcat/internal/model"
)

const (
	reviewedReleasesSQL = `
		SELECT DISTINCT r.rid, r.genre, r.title
		FROM releases r
		JOIN reviews rv ON rv.rid = r.rid
		WHERE rv.uid = ?
		ORDER BY r.title ASC, r.rid ASC`

	// Equal review counts are ordered by rid descending.
	popularReleasesSQL = `
		SELECT r.rid, r.title, COUNT(rv.rvid) AS review_count
		FROM releases r
		LEFT JOIN reviews rv ON rv.rid = r.rid
		GROUP BY r.rid, r.title
		ORDER BY review_count DESC, r.rid DESC
		LIMIT ?`

	sessionReleaseSQL = `
		SELECT r.rid, r.title, r.genre, v.title AS video_title, v.ep_num, v.length
		FROM sessions s
		JOIN videos v ON v.rid = s.rid AND v.ep_num = s.ep_num
		JOIN releases r ON r.rid = s.rid
		WHERE s.sid = ?
		ORDER BY r.title ASC`

	activeViewersSQL = `
		SELECT v.uid, v.first, v.last
		FROM viewers v
		JOIN sessions s ON s.uid = v.uid
		WHERE s.initiate_at >= ? AND s.initiate_at <= ?
		GROUP BY v.uid, v.first, v.last
		HAVING COUNT(s.sid) >= ?
		ORDER BY v.uid ASC`

	videoViewershipSQL = `
		SELECT v.rid, v.ep_num, v.title, v.length, COUNT(DISTINCT s.uid) AS viewer_count
		FROM videos v
		LEFT JOIN sessions s ON s.rid = v.rid AND s.ep_num = v.ep_num
		WHERE v.rid = ?
		GROUP BY v.rid, v.ep_num, v.title, v.length
		ORDER BY v.ep_num ASC`
)

// ReviewedReleases returns the distinct releases uid has reviewed, by title.
// A viewer with no reviews yields an empty slice.
func (s *MySQLStore) ReviewedReleases(ctx context.Context, uid int) ([]model.ReviewedRelease, error) {
	var rows []model.ReviewedRelease
	if err := s.db.WithContext(ctx).Raw(reviewedReleasesSQL, uid).Scan(&rows).Error; err != nil {
		return nil, classify("list reviewed releases", err)
	}
	return rows, nil
}

// PopularReleases ranks every release, reviewed or not, by review count and
// returns the first n.
func (s *MySQLStore) PopularReleases(ctx context.Context, n int) ([]model.PopularRelease, error) {
	if n < 0 {
		return nil, classify("rank releases", fmt.Errorf("%w: negative limit %d", ErrValidation, n))
	}
	if n == 0 {
		return nil, nil
	}

	var rows []model.PopularRelease
	if err := s.db.WithContext(ctx).Raw(popularReleasesSQL, n).Scan(&rows).Error; err != nil {
		return nil, classify("rank releases", err)
	}
	return rows, nil
}

// SessionRelease resolves a session to the release and video it watched.
// Resolving nothing is ErrNoResult.
func (s *MySQLStore) SessionRelease(ctx context.Context, sid int) ([]model.SessionRelease, error) {
	var rows []model.SessionRelease
	if err := s.db.WithContext(ctx).Raw(sessionReleaseSQL, sid).Scan(&rows).Error; err != nil {
		return nil, classify("resolve session", err)
	}
	if len(rows) == 0 {
		return nil, classify("resolve session", fmt.Errorf("%w: session %d", ErrNoResult, sid))
	}
	return rows, nil
}

// ActiveViewers returns viewers with at least minSessions sessions that
// started within [start, end]. No match yields an empty slice.
func (s *MySQLStore) ActiveViewers(ctx context.Context, minSessions int, start, end time.Time) ([]model.ActiveViewer, error) {
	var rows []model.ActiveViewer
	err := s.db.WithContext(ctx).
		Raw(activeViewersSQL, start.UTC(), end.UTC(), minSessions).
		Scan(&rows).Error
	if err != nil {
		return nil, classify("list active viewers", err)
	}
	return rows, nil
}

// VideoViewership counts distinct viewers per video of a release. A release
// without videos is ErrNoResult.
func (s *MySQLStore) VideoViewership(ctx context.Context, rid int) ([]model.VideoViewership, error) {
	var rows []model.VideoViewership
	if err := s.db.WithContext(ctx).Raw(videoViewershipSQL, rid).Scan(&rows).Error; err != nil {
		return nil, classify("count video viewers", err)
	}
	if len(rows) == 0 {
		return nil, classify("count video viewers", fmt.Errorf("%w: release %d has no videos", ErrNoResult, rid))
	}
	return rows, nil
}

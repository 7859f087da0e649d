package model

import (
	"time"
)

// Release is a catalog item; a movie is one of its variants
type Release struct {
	RID         int        `gorm:"column:rid;primaryKey;autoIncrement:false"`
	Title       string     `gorm:"column:title;size:255;not null" validate:"required"`
	Genre       *string    `gorm:"column:genre;size:255"`
	ReleaseDate *time.Time `gorm:"column:release_date;type:date"`
	ProducerUID *int       `gorm:"column:producer_uid"`
}

// TableName returns the table name for Release
func (Release) TableName() string {
	return TableReleases
}

// Movie is the single-feature variant of a release
type Movie struct {
	RID        int     `gorm:"column:rid;primaryKey;autoIncrement:false"`
	WebsiteURL *string `gorm:"column:website_url;size:255"`
}

// TableName returns the table name for Movie
func (Movie) TableName() string {
	return TableMovies
}

// ReleaseKind is implemented by the variant rows keyed by a release's rid.
type ReleaseKind interface {
	TableName() string
	setRID(rid int)
}

func (m *Movie) setRID(rid int) { m.RID = rid }

// CatalogEntry is a release together with its variant row, if any.
type CatalogEntry struct {
	Release Release
	Kind    ReleaseKind
}

// NewMovieEntry builds the movie variant of the release rid.
func NewMovieEntry(rid int, movie Movie) CatalogEntry {
	return CatalogEntry{Release: Release{RID: rid}, Kind: &movie}
}

// Bind copies the release's rid onto the variant row.
func (c *CatalogEntry) Bind() {
	if c.Kind != nil {
		c.Kind.setRID(c.Release.RID)
	}
}

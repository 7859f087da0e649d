package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/user/streamcat/internal/model"
	"gorm.io/gorm"
)

// Load resets the schema and inserts every source row in one transaction.
// Sources are applied in dependency order and rows in input order. If any row
// fails, the transaction is rolled back and the schema is reset again, so the
// outcome is either the full data set or an empty schema.
func (s *MySQLStore) Load(ctx context.Context, sources []model.TableRows) error {
	ordered, err := orderSources(sources)
	if err != nil {
		return classify("load seed data", err)
	}

	if err := s.ResetSchema(ctx); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, src := range ordered {
			if err := insertRows(tx, src); err != nil {
				return err
			}
			log.Debug().Str("table", src.Table.Name).Int("rows", len(src.Rows)).Msg("Seed table loaded")
		}
		return nil
	})
	if err != nil {
		if resetErr := s.ResetSchema(ctx); resetErr != nil {
			log.Error().Err(resetErr).Msg("Failed to clear schema after aborted load")
			err = errors.Join(err, resetErr)
		}
		return classify("load seed data", err)
	}
	return nil
}

// orderSources sorts sources into model.Tables order and rejects unknown or
// repeated tables.
func orderSources(sources []model.TableRows) ([]model.TableRows, error) {
	rank := make(map[string]int, len(model.Tables))
	for i, t := range model.Tables {
		rank[t.Name] = i
	}

	seen := make(map[string]bool, len(sources))
	ordered := make([]model.TableRows, 0, len(sources))
	for _, src := range sources {
		canonical, ok := model.LookupTable(src.Table.Name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown table %q", ErrValidation, src.Table.Name)
		}
		src.Table = canonical
		if seen[src.Table.Name] {
			return nil, fmt.Errorf("%w: table %q given twice", ErrValidation, src.Table.Name)
		}
		seen[src.Table.Name] = true
		ordered = append(ordered, src)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank[ordered[i].Table.Name] < rank[ordered[j].Table.Name]
	})
	return ordered, nil
}

func insertRows(tx *gorm.DB, src model.TableRows) error {
	cols := src.Table.Columns
	for i, row := range src.Rows {
		if len(row) != len(cols) {
			return fmt.Errorf("%s row %d: %w: got %d fields, want %d",
				src.Table.Name, i+1, ErrValidation, len(row), len(cols))
		}
		values := make(map[string]interface{}, len(cols))
		for j, col := range cols {
			if row[j] == nil {
				values[col] = nil
			} else {
				values[col] = *row[j]
			}
		}
		if err := tx.Table(src.Table.Name).Create(values).Error; err != nil {
			return fmt.Errorf("%s row %d: %w", src.Table.Name, i+1, err)
		}
	}
	return nil
}

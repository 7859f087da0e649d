package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/user/streamcat/internal/model"
	"github.com/user/streamcat/internal/store"
	"golang.org/x/sync/errgroup"
)

const (
	fileExt          = ".csv"
	maxParallelReads = 4
	bom              = "\uFEFF"
)

// Options controls how seed files are parsed
type Options struct {
	// SkipHeader reports whether a header row naming the table's columns is
	// recognized and skipped. A nil func enables it for every table.
	SkipHeader func(table string) bool
}

func (o Options) skipHeader(table string) bool {
	if o.SkipHeader == nil {
		return true
	}
	return o.SkipHeader(table)
}

// Path returns the seed file for a table inside dir
func Path(dir, table string) string {
	return filepath.Join(dir, table+fileExt)
}

// ReadDir reads <dir>/<table>.csv for every managed table in dependency
// order. Missing files are skipped. The result is ready for Store.Load.
func ReadDir(dir string, opts Options) ([]model.TableRows, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed folder %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a folder", store.ErrValidation, dir)
	}

	// files are parsed concurrently; results keep dependency order
	results := make([]*model.TableRows, len(model.Tables))
	var g errgroup.Group
	g.SetLimit(maxParallelReads)
	for i, table := range model.Tables {
		i, table := i, table
		g.Go(func() error {
			path := Path(dir, table.Name)
			f, err := os.Open(path)
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug().Str("table", table.Name).Msg("No seed file, skipping")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			rows, err := Read(f, table, opts.skipHeader(table.Name))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			log.Debug().Str("table", table.Name).Int("rows", len(rows.Rows)).Msg("Read seed file")
			results[i] = &rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sources []model.TableRows
	for _, rows := range results {
		if rows != nil {
			sources = append(sources, *rows)
		}
	}
	return sources, nil
}

// Read parses CSV records for one table. Each record must have exactly one
// field per column; empty fields become nil. With skipHeader set, a first
// record that names the table's columns is skipped; any other first record
// is data.
func Read(r io.Reader, table model.Table, skipHeader bool) (model.TableRows, error) {
	out := model.TableRows{Table: table}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(table.Columns)

	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return out, fmt.Errorf("%w: %v", store.ErrValidation, parseErr)
			}
			return out, err
		}

		if first {
			first = false
			record[0] = strings.TrimPrefix(record[0], bom)
			if skipHeader && isHeader(record, table) {
				continue
			}
		}

		row := make([]*string, len(record))
		for i, field := range record {
			if field == "" {
				continue
			}
			v := field
			row[i] = &v
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// isHeader reports whether record lists the table's column names, ignoring
// case and surrounding spaces.
func isHeader(record []string, table model.Table) bool {
	if len(record) != len(table.Columns) {
		return false
	}
	for i, col := range table.Columns {
		if !strings.EqualFold(strings.TrimSpace(record[i]), col) {
			return false
		}
	}
	return true
}

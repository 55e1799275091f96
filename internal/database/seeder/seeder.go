// Package seeder loads reference data that the API expects to exist, such
// as the job board catalog.
package seeder

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"petromatch/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Defaults returns the seeders run by `scraper -seed`.
func Defaults(boardsFile string) []Seeder {
	return []Seeder{BoardsSeeder{Path: boardsFile}}
}

// Runner applies seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Printf("Seeder done | name=%s took=%s", s.Name(), time.Since(start).Round(time.Millisecond))
		}
	}
	return nil
}

// requireColumns fails when the migrated schema lacks any column a seeder
// writes, naming every missing one.
func requireColumns(ctx context.Context, q database.Querier, table string, columns ...string) error {
	if table == "" || len(columns) == 0 {
		return fmt.Errorf("table and columns are required")
	}

	rows, err := q.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		have[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, c := range columns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s is missing columns %s; run migrations first", table, strings.Join(missing, ", "))
	}
	return nil
}

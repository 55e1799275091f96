package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petromatch/internal/database"
)

type columnRows struct {
	names []string
	i     int
}

func (r *columnRows) Close()     {}
func (r *columnRows) Err() error { return nil }
func (r *columnRows) Next() bool {
	r.i++
	return r.i <= len(r.names)
}
func (r *columnRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.names[r.i-1]
	return nil
}

type columnsDB struct {
	database.DB
	columns []string
}

func (d columnsDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return &columnRows{names: d.columns}, nil
}

func TestRequireColumns(t *testing.T) {
	db := columnsDB{columns: []string{"id", "name"}}

	require.NoError(t, requireColumns(context.Background(), db, "job_boards", "id", "name"))

	err := requireColumns(context.Background(), db, "job_boards", "id", "base_url", "selectors_json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url, selectors_json")
}

type stepSeeder struct {
	name string
	err  error
	ran  *[]string
}

func (s stepSeeder) Name() string { return s.name }

func (s stepSeeder) Run(context.Context, database.DB) error {
	*s.ran = append(*s.ran, s.name)
	return s.err
}

func TestRunner_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	r := Runner{Seeders: []Seeder{
		stepSeeder{name: "a", ran: &ran},
		nil,
		stepSeeder{name: "b", err: boom, ran: &ran},
		stepSeeder{name: "c", ran: &ran},
	}}

	err := r.Run(context.Background(), columnsDB{})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "seed b")
	assert.Equal(t, []string{"a", "b"}, ran)

	assert.Error(t, Runner{}.Run(context.Background(), nil))
}

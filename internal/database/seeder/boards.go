package seeder

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"petromatch/internal/database"
	"petromatch/internal/domain/job"
	"petromatch/internal/repository"
)

type catalogFile struct {
	Boards []catalogBoard `yaml:"boards"`
}

type catalogBoard struct {
	Name          string        `yaml:"name"`
	BaseURL       string        `yaml:"base_url"`
	LoginRequired bool          `yaml:"login_required"`
	Selectors     job.Selectors `yaml:"selectors"`
}

// LoadCatalog decodes a board catalog. Login credentials may reference
// environment variables as ${NAME}.
func LoadCatalog(r io.Reader) ([]job.Board, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode board catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Boards))
	out := make([]job.Board, 0, len(f.Boards))
	for i, b := range f.Boards {
		name := strings.TrimSpace(b.Name)
		if name == "" || strings.TrimSpace(b.BaseURL) == "" {
			return nil, fmt.Errorf("board #%d: name and base_url are required", i+1)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("board %q listed twice", name)
		}
		seen[strings.ToLower(name)] = true

		sel := b.Selectors
		if sel.Login != nil {
			login := *sel.Login
			login.Username = os.ExpandEnv(login.Username)
			login.Password = os.ExpandEnv(login.Password)
			sel.Login = &login
		}
		out = append(out, job.Board{
			Name:          name,
			BaseURL:       strings.TrimSpace(b.BaseURL),
			LoginRequired: b.LoginRequired,
			Selectors:     sel,
		})
	}
	return out, nil
}

// BoardsSeeder upserts the catalog at Path into job_boards by name.
type BoardsSeeder struct {
	Path string
}

func (BoardsSeeder) Name() string { return "job_boards" }

func (s BoardsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "job_boards", "id", "name", "base_url", "login_required", "selectors_json", "created_at"); err != nil {
		return err
	}
	_, err := s.seed(ctx, repository.NewPostgresBoardRepository(db))
	return err
}

func (s BoardsSeeder) seed(ctx context.Context, repo repository.BoardRepository) (int, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return 0, fmt.Errorf("open board catalog: %w", err)
	}
	defer f.Close()

	boards, err := LoadCatalog(f)
	if err != nil {
		return 0, err
	}
	for _, b := range boards {
		if _, err := repo.UpsertByName(ctx, b); err != nil {
			return 0, fmt.Errorf("upsert board %q: %w", b.Name, err)
		}
	}
	return len(boards), nil
}

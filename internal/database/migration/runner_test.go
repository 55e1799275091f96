package migration

import (
	"testing"
	"testing/fstest"

	"petromatch/migrations"
)

func TestLoad_SortsAndChecksums(t *testing.T) {
	src := fstest.MapFS{
		"V2__second.sql": {Data: []byte("SELECT 2;")},
		"V1__first.sql":  {Data: []byte("  SELECT 1;\n")},
		"README.md":      {Data: []byte("ignored")},
	}

	migs, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "first" {
		t.Fatalf("unexpected first migration: %+v", migs[0])
	}
	if migs[0].SQL != "SELECT 1;" {
		t.Fatalf("expected trimmed sql, got %q", migs[0].SQL)
	}
	if migs[0].Checksum == "" || migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("expected distinct checksums")
	}
}

func TestLoad_RejectsDuplicateVersion(t *testing.T) {
	src := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V1__b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := Load(src); err == nil {
		t.Fatalf("expected duplicate version error")
	}
}

func TestLoad_RejectsEmptyFile(t *testing.T) {
	src := fstest.MapFS{"V1__empty.sql": {Data: []byte("   ")}}
	if _, err := Load(src); err == nil {
		t.Fatalf("expected empty file error")
	}
}

func TestLoad_EmbeddedSchema(t *testing.T) {
	migs, err := Load(migrations.FS)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) == 0 || migs[0].Version != 1 {
		t.Fatalf("expected embedded V1 migration, got %+v", migs)
	}
}

func TestRunner_SourcePrefersExistingDir(t *testing.T) {
	dir := t.TempDir()
	r := Runner{Dir: dir, Source: fstest.MapFS{}}
	src, err := r.source()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := src.(fstest.MapFS); ok {
		t.Fatalf("expected on-disk source")
	}

	r = Runner{Dir: dir + "/missing", Source: fstest.MapFS{}}
	src, err = r.source()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := src.(fstest.MapFS); !ok {
		t.Fatalf("expected embedded source fallback")
	}
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/devdeck/devdeck/internal/domain/project"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testProject(name, path string) *project.Project {
	p := project.New(path)
	p.Name = name
	p.Description = "desc " + name
	p.Scripts = map[string]string{"build": "make"}
	return p
}

func TestUpsertAndList(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	err := c.UpsertProjects(ctx, []*project.Project{
		testProject("beta", "/tmp/beta"),
		testProject("alpha", "/tmp/alpha"),
	})
	if err != nil {
		t.Fatalf("UpsertProjects: %v", err)
	}

	rows, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "alpha" || rows[1].Name != "beta" {
		t.Errorf("rows not ordered by name: %v, %v", rows[0].Name, rows[1].Name)
	}
	if rows[0].ScriptCount != 1 {
		t.Errorf("script count: got %d", rows[0].ScriptCount)
	}
	if _, err := time.Parse(time.RFC3339, rows[0].FirstSeen); err != nil {
		t.Errorf("first_seen not RFC 3339: %v", err)
	}
}

func TestUpsertKeepsFirstSeen(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	p := testProject("alpha", "/tmp/alpha")
	if err := c.UpsertProjects(ctx, []*project.Project{p}); err != nil {
		t.Fatal(err)
	}
	first, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}

	p.Description = "updated"
	if err := c.UpsertProjects(ctx, []*project.Project{p}); err != nil {
		t.Fatal(err)
	}
	second, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if second[0].FirstSeen != first[0].FirstSeen {
		t.Error("first_seen must survive re-upsert")
	}
	if second[0].Description != "updated" {
		t.Errorf("description not updated: %q", second[0].Description)
	}
}

func TestPruneExcept(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	err := c.UpsertProjects(ctx, []*project.Project{
		testProject("alpha", "/tmp/alpha"),
		testProject("beta", "/tmp/beta"),
		testProject("gamma", "/tmp/gamma"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.PruneExcept(ctx, []string{"/tmp/alpha", "/tmp/gamma"}); err != nil {
		t.Fatalf("PruneExcept: %v", err)
	}

	rows, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after prune, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Name == "beta" {
			t.Error("pruned row still present")
		}
	}
}

func TestPruneExceptEmptyKeepClearsAll(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	if err := c.UpsertProjects(ctx, []*project.Project{testProject("alpha", "/tmp/alpha")}); err != nil {
		t.Fatal(err)
	}
	if err := c.PruneExcept(ctx, nil); err != nil {
		t.Fatal(err)
	}

	rows, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty catalog, got %d rows", len(rows))
	}
}

func TestUpsertEmptyIsNoop(t *testing.T) {
	c := newTestCatalog(t)
	if err := c.UpsertProjects(context.Background(), nil); err != nil {
		t.Fatalf("empty upsert must not error: %v", err)
	}
}

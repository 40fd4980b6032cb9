package store

import (
	"context"
	"errors"
	"testing"

	"github.com/boxtree-io/boxtree/pkg/model"
)

func storedDiagram(id, name string) model.Diagram {
	return model.Diagram{
		ID:   id,
		Name: name,
		Rectangles: []model.Rectangle{
			{ID: "r", Type: model.TypeRoot, W: 10, H: 8},
		},
		Margins: model.DefaultMargins(),
	}
}

// storeCRUD exercises the Store contract against any backend.
func storeCRUD(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := s.Put(ctx, storedDiagram("d1", "first")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := s.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "first" || len(got.Rectangles) != 1 {
		t.Errorf("Get() = %+v, want stored diagram", got)
	}

	// Put replaces an existing diagram.
	if err := s.Put(ctx, storedDiagram("d1", "renamed")); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, "d1"); got.Name != "renamed" {
		t.Errorf("Get() after replace = %q, want renamed", got.Name)
	}

	if err := s.Put(ctx, storedDiagram("d2", "second")); err != nil {
		t.Fatal(err)
	}
	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(infos))
	}
	if infos[0].ID != "d1" || infos[1].ID != "d2" {
		t.Errorf("List() order = [%s %s], want sorted by ID", infos[0].ID, infos[1].ID)
	}
	if infos[0].Rectangles != 1 {
		t.Errorf("List()[0].Rectangles = %d, want 1", infos[0].Rectangles)
	}
	if infos[0].UpdatedAt.IsZero() {
		t.Error("List()[0].UpdatedAt is zero")
	}

	if err := s.Delete(ctx, "d1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
	}

	if err := s.Close(ctx); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeCRUD(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	storeCRUD(t, s)
}

func TestFileStoreUnsafeIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// IDs with path separators must not escape the base directory.
	id := "../outside/..\\weird id"
	if err := s.Put(ctx, storedDiagram(id, "escape")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "escape" {
		t.Errorf("Get() = %q, want escape", got.Name)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Put(ctx, storedDiagram("d1", "persisted")); err != nil {
		t.Fatal(err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := second.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get() from new instance error: %v", err)
	}
	if got.Name != "persisted" {
		t.Errorf("Get() = %q, want persisted", got.Name)
	}
}

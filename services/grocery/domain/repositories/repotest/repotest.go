// Package repotest holds the behavioural contract every ItemRepository
// implementation must satisfy. Backend packages call Run from their tests.
package repotest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/grocerylist/services/grocery/domain"
	"github.com/ghuser/grocerylist/services/grocery/domain/models"
	"github.com/ghuser/grocerylist/services/grocery/domain/repositories"
)

// Factory returns an empty repository. It is called once per subtest.
type Factory func(t *testing.T) repositories.ItemRepository

// base is a fixed instant with zero nanoseconds below the microsecond so
// every backend stores it exactly.
var base = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

// Run executes the full contract against the repositories produced by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("CreateThenGet", func(t *testing.T) { testCreateThenGet(t, newRepo(t)) })
	t.Run("CreateRejectsInvalidName", func(t *testing.T) { testCreateRejectsInvalidName(t, newRepo(t)) })
	t.Run("GetUnknownID", func(t *testing.T) { testGetUnknownID(t, newRepo(t)) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newRepo(t)) })
	t.Run("ListOrdering", func(t *testing.T) { testListOrdering(t, newRepo(t)) })
	t.Run("UpdateStatusRoundTrip", func(t *testing.T) { testUpdateStatusRoundTrip(t, newRepo(t)) })
	t.Run("UpdateStatusUnchangedRefreshesUpdatedAt", func(t *testing.T) { testUpdateStatusUnchanged(t, newRepo(t)) })
	t.Run("UpdateStatusUnknownID", func(t *testing.T) { testUpdateStatusUnknownID(t, newRepo(t)) })
	t.Run("DeleteTwice", func(t *testing.T) { testDeleteTwice(t, newRepo(t)) })
	t.Run("ConcurrentCreates", func(t *testing.T) { testConcurrentCreates(t, newRepo(t)) })
	t.Run("ConcurrentDeletesSameID", func(t *testing.T) { testConcurrentDeletes(t, newRepo(t)) })
	t.Run("ConcurrentListAndUpdateStatus", func(t *testing.T) { testConcurrentListAndUpdate(t, newRepo(t)) })
}

// NewItem builds a valid item named name created at base+offset.
func NewItem(t *testing.T, name string, offset time.Duration) *models.Item {
	t.Helper()
	n, err := models.NewItemName(name)
	if err != nil {
		t.Fatalf("invalid test name %q: %v", name, err)
	}
	return models.NewItem(n, base.Add(offset))
}

func mustCreate(t *testing.T, repo repositories.ItemRepository, item *models.Item) {
	t.Helper()
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("Create(%q): %v", item.Name, err)
	}
}

func mustList(t *testing.T, repo repositories.ItemRepository) []*models.Item {
	t.Helper()
	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return items
}

func assertSameItem(t *testing.T, got, want *models.Item) {
	t.Helper()
	if got.ID != want.ID {
		t.Errorf("ID: got %v, want %v", got.ID, want.ID)
	}
	if got.Name != want.Name {
		t.Errorf("Name: got %q, want %q", got.Name, want.Name)
	}
	if got.Bought != want.Bought {
		t.Errorf("Bought: got %v, want %v", got.Bought, want.Bought)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func testCreateThenGet(t *testing.T, repo repositories.ItemRepository) {
	item := NewItem(t, "Milk", 0)
	mustCreate(t, repo, item)

	got, err := repo.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	assertSameItem(t, got, item)
	if !got.UpdatedAt.Equal(item.CreatedAt) {
		t.Errorf("UpdatedAt: got %v, want %v", got.UpdatedAt, item.CreatedAt)
	}
}

func testCreateRejectsInvalidName(t *testing.T, repo repositories.ItemRepository) {
	for _, name := range []models.ItemName{"", "   ", " Milk"} {
		item := &models.Item{ID: uuid.New(), Name: name, CreatedAt: base, UpdatedAt: base}
		err := repo.Create(context.Background(), item)
		if !errors.Is(err, domain.ErrInvalidItemName) {
			t.Errorf("Create(%q): expected ErrInvalidItemName, got %v", name, err)
		}
	}
	if n := len(mustList(t, repo)); n != 0 {
		t.Fatalf("expected nothing persisted, found %d items", n)
	}
}

func testGetUnknownID(t *testing.T, repo repositories.ItemRepository) {
	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func testListEmpty(t *testing.T, repo repositories.ItemRepository) {
	items := mustList(t, repo)
	if items == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(items) != 0 {
		t.Fatalf("expected 0 items, got %d", len(items))
	}
}

func testListOrdering(t *testing.T, repo repositories.ItemRepository) {
	// Three items share a timestamp and must keep insertion order; "Early"
	// is inserted last but created first.
	a := NewItem(t, "Apples", time.Minute)
	b := NewItem(t, "Bread", time.Minute)
	c := NewItem(t, "Cheese", time.Minute)
	d := NewItem(t, "Dates", 2*time.Minute)
	early := NewItem(t, "Early", 0)
	for _, it := range []*models.Item{a, b, c, d, early} {
		mustCreate(t, repo, it)
	}

	items := mustList(t, repo)
	want := []uuid.UUID{early.ID, a.ID, b.ID, c.ID, d.ID}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d: got %q, want id %v", i, items[i].Name, id)
		}
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.Before(items[i-1].CreatedAt) {
			t.Fatalf("list not ordered by CreatedAt at position %d", i)
		}
	}
}

func testUpdateStatusRoundTrip(t *testing.T, repo repositories.ItemRepository) {
	ctx := context.Background()
	item := NewItem(t, "Eggs", 0)
	mustCreate(t, repo, item)

	at1 := base.Add(time.Hour)
	got, err := repo.UpdateStatus(ctx, item.ID, true, at1)
	if err != nil {
		t.Fatalf("UpdateStatus(true): %v", err)
	}
	if !got.Bought {
		t.Fatal("expected Bought=true after update")
	}
	if !got.UpdatedAt.Equal(at1) {
		t.Errorf("UpdatedAt: got %v, want %v", got.UpdatedAt, at1)
	}

	at2 := base.Add(2 * time.Hour)
	got, err = repo.UpdateStatus(ctx, item.ID, false, at2)
	if err != nil {
		t.Fatalf("UpdateStatus(false): %v", err)
	}
	assertSameItem(t, got, item)

	stored, err := repo.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	assertSameItem(t, stored, item)
	if !stored.UpdatedAt.Equal(at2) {
		t.Errorf("stored UpdatedAt: got %v, want %v", stored.UpdatedAt, at2)
	}
}

func testUpdateStatusUnchanged(t *testing.T, repo repositories.ItemRepository) {
	item := NewItem(t, "Butter", 0)
	mustCreate(t, repo, item)

	at := base.Add(time.Minute)
	got, err := repo.UpdateStatus(context.Background(), item.ID, false, at)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Bought {
		t.Fatal("expected Bought=false")
	}
	if !got.UpdatedAt.Equal(at) {
		t.Errorf("UpdatedAt: got %v, want %v", got.UpdatedAt, at)
	}
}

func testUpdateStatusUnknownID(t *testing.T, repo repositories.ItemRepository) {
	_, err := repo.UpdateStatus(context.Background(), uuid.New(), true, base)
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func testDeleteTwice(t *testing.T, repo repositories.ItemRepository) {
	ctx := context.Background()
	keep := NewItem(t, "Keep", 0)
	gone := NewItem(t, "Gone", time.Second)
	mustCreate(t, repo, keep)
	mustCreate(t, repo, gone)

	if err := repo.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := repo.Delete(ctx, gone.ID); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("second Delete: expected ErrItemNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, gone.ID); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("GetByID after delete: expected ErrItemNotFound, got %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, gone.ID, true, base); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("UpdateStatus after delete: expected ErrItemNotFound, got %v", err)
	}

	items := mustList(t, repo)
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Fatalf("expected only %v to remain, got %d items", keep.ID, len(items))
	}
}

func testConcurrentCreates(t *testing.T, repo repositories.ItemRepository) {
	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := models.NewItem("Item", base.Add(time.Duration(i)*time.Millisecond))
			errs <- repo.Create(context.Background(), item)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Create: %v", err)
		}
	}

	items := mustList(t, repo)
	if len(items) != n {
		t.Fatalf("expected %d items, got %d", n, len(items))
	}
	ids := make(map[uuid.UUID]bool, n)
	for _, it := range items {
		if ids[it.ID] {
			t.Fatalf("duplicate id %v", it.ID)
		}
		ids[it.ID] = true
	}
}

func testConcurrentDeletes(t *testing.T, repo repositories.ItemRepository) {
	item := NewItem(t, "Contended", 0)
	mustCreate(t, repo, item)

	const n = 10
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Delete(context.Background(), item.ID)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrItemNotFound):
		default:
			t.Fatalf("unexpected Delete error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful delete, got %d", succeeded)
	}
}

func testConcurrentListAndUpdate(t *testing.T, repo repositories.ItemRepository) {
	ctx := context.Background()
	item := NewItem(t, "Flour", 0)
	mustCreate(t, repo, item)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := repo.UpdateStatus(ctx, item.ID, i%2 == 0, base.Add(time.Duration(i+1)*time.Second))
			errs <- err
		}(i)
		go func() {
			defer wg.Done()
			items, err := repo.List(ctx)
			if err == nil && (len(items) != 1 || items[0].ID != item.ID) {
				err = errors.New("list lost the item during concurrent updates")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent List/UpdateStatus: %v", err)
		}
	}

	// Every List result is a copy; mutating it must not reach the store.
	items := mustList(t, repo)
	items[0].Bought = !items[0].Bought
	again := mustList(t, repo)
	if again[0].Bought == items[0].Bought {
		t.Fatal("List returned a shared item instead of a copy")
	}
}

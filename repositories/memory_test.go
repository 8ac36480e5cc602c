package repositories

import (
	"context"
	"errors"
	"handmade-store/models"
	"testing"
	"time"
)

func newProduct(name string) *models.Product {
	return &models.Product{
		Name:        name,
		Description: "desc",
		Price:       10,
		Category:    models.CategoryOthers,
		Images:      []string{"http://x/" + name + ".png"},
	}
}

func TestMemoryProductsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	repo := store.Products()

	for _, name := range []string{"first", "second"} {
		if err := repo.Create(ctx, newProduct(name)); err != nil {
			t.Fatalf("Create: %v", err)
		}
		clock = clock.Add(time.Minute)
	}
	// Same timestamp as "second" ends with, falls back to id order.
	clock = clock.Add(-time.Minute)
	if err := repo.Create(ctx, newProduct("third")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	products, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	got := make([]string, len(products))
	for i, p := range products {
		got[i] = p.Name
	}
	want := []string{"third", "second", "first"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}

	again, _ := repo.FindAll(ctx)
	for i := range again {
		if again[i].ID != products[i].ID {
			t.Fatal("listing is not stable across calls")
		}
	}
}

func TestMemoryProductsIsolatesCallerSlices(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Products()

	p := newProduct("doily")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	p.Images[0] = "mutated"

	stored, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Images[0] == "mutated" {
		t.Fatal("stored images share memory with the caller")
	}
}

func TestMemoryProductsVersioning(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Products()

	p := newProduct("doily")
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Version != 1 {
		t.Fatalf("expected version 1, got %d", p.Version)
	}

	v1 := int64(1)
	update := newProduct("doily v2")
	update.ID = p.ID
	if err := repo.Update(ctx, update, &v1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if update.Version != 2 || !update.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("unexpected updated product: %+v", update)
	}

	stale := newProduct("doily v3")
	stale.ID = p.ID
	if err := repo.Update(ctx, stale, &v1); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	stored, _ := repo.FindByID(ctx, p.ID)
	if stored.Name != "doily v2" {
		t.Fatalf("stale write must not persist, got %q", stored.Name)
	}
}

func TestMemoryProductsIDErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Products()
	missing := NewID()

	if _, err := repo.FindByID(ctx, "abc"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := repo.FindByID(ctx, missing); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "abc"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	p := newProduct("ghost")
	p.ID = missing
	if err := repo.Update(ctx, p, nil); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	id := NewID()
	if len(id) != 24 {
		t.Fatalf("expected 24 hex chars, got %q", id)
	}
	if _, err := ParseID(id); err != nil {
		t.Fatalf("ParseID(%q): %v", id, err)
	}
	for _, bad := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz", id + "0"} {
		if _, err := ParseID(bad); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("ParseID(%q): expected ErrInvalidID, got %v", bad, err)
		}
	}
}

func TestMemoryAdminsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Admins()

	first, err := repo.Upsert(ctx, " owner ", "hash-1")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second, err := repo.Upsert(ctx, "owner", "hash-2")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("upsert created a second admin for the same username")
	}

	found, err := repo.FindByUsername(ctx, "owner")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if found.PasswordHash != "hash-2" {
		t.Fatalf("expected updated hash, got %q", found.PasswordHash)
	}

	if err := repo.UpdatePassword(ctx, NewID(), "x"); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}
}

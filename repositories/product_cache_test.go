package repositories

import (
	"context"
	"errors"
	"handmade-store/models"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newCacheFixture(t *testing.T) (*CachedProductRepository, *MemoryProductRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	store := NewMemoryStore().Products()
	return NewCachedProductRepository(store, client), store, mr
}

func TestCachedProductsServesRepeatReadsFromRedis(t *testing.T) {
	ctx := context.Background()
	cached, store, mr := newCacheFixture(t)

	if err := cached.Create(ctx, newProduct("first")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	first, err := cached.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(first) != 1 || !mr.Exists(productListCacheKey) {
		t.Fatalf("expected listing to be cached, got %d products", len(first))
	}
	if ttl := mr.TTL(productListCacheKey); ttl != productListCacheTTL {
		t.Fatalf("expected ttl %s, got %s", productListCacheTTL, ttl)
	}

	// Written behind the cache's back, so only a cache miss would see it.
	if err := store.Create(ctx, newProduct("hidden")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := cached.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(second) != 1 || second[0].Name != "first" {
		t.Fatalf("expected cached listing, got %d products", len(second))
	}
}

func TestCachedProductsWritesDropTheListing(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := newCacheFixture(t)

	p := newProduct("doily")
	if err := cached.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	writes := []struct {
		name string
		run  func() error
		want int
	}{
		{"update", func() error {
			update := newProduct("doily v2")
			update.ID = p.ID
			return cached.Update(ctx, update, nil)
		}, 1},
		{"create", func() error { return cached.Create(ctx, newProduct("runner")) }, 2},
		{"delete", func() error { return cached.Delete(ctx, p.ID) }, 1},
	}

	for _, w := range writes {
		if _, err := cached.FindAll(ctx); err != nil {
			t.Fatalf("%s: FindAll: %v", w.name, err)
		}
		if !mr.Exists(productListCacheKey) {
			t.Fatalf("%s: listing not cached before the write", w.name)
		}

		if err := w.run(); err != nil {
			t.Fatalf("%s: %v", w.name, err)
		}
		if mr.Exists(productListCacheKey) {
			t.Fatalf("%s: cached listing survived the write", w.name)
		}

		products, err := cached.FindAll(ctx)
		if err != nil {
			t.Fatalf("%s: FindAll: %v", w.name, err)
		}
		if len(products) != w.want {
			t.Fatalf("%s: expected %d products, got %d", w.name, w.want, len(products))
		}
	}

	products, _ := cached.FindAll(ctx)
	if products[0].Name != "runner" {
		t.Fatalf("expected only runner to remain, got %q", products[0].Name)
	}
}

func TestCachedProductsFailedWriteKeepsListing(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := newCacheFixture(t)

	if _, err := cached.FindAll(ctx); err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if err := cached.Delete(ctx, NewID()); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if !mr.Exists(productListCacheKey) {
		t.Fatal("a rejected write should not drop the cached listing")
	}
}

// gatedRepository pauses the first FindAll after it has read the store.
type gatedRepository struct {
	ProductRepository
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (r *gatedRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	products, err := r.ProductRepository.FindAll(ctx)
	r.once.Do(func() {
		close(r.loaded)
		<-r.release
	})
	return products, err
}

func TestCachedProductsSlowReadDoesNotCacheStaleListing(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	gated := &gatedRepository{
		ProductRepository: NewMemoryStore().Products(),
		loaded:            make(chan struct{}),
		release:           make(chan struct{}),
	}
	cached := NewCachedProductRepository(gated, client)

	done := make(chan []models.Product)
	go func() {
		products, err := cached.FindAll(ctx)
		if err != nil {
			t.Errorf("slow FindAll: %v", err)
		}
		done <- products
	}()

	<-gated.loaded
	if err := cached.Create(ctx, newProduct("fresh")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	close(gated.release)

	select {
	case old := <-done:
		if len(old) != 0 {
			t.Fatalf("slow reader should have loaded the empty catalog, got %d", len(old))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("slow FindAll did not finish")
	}

	if mr.Exists(productListCacheKey) {
		t.Fatal("listing loaded before the create was written to the cache")
	}

	products, err := cached.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(products) != 1 || products[0].Name != "fresh" {
		t.Fatalf("expected the created product, got %d products", len(products))
	}
}

func TestCachedProductsFallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatalf("start redis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	cached := NewCachedProductRepository(NewMemoryStore().Products(), client)
	mr.Close()

	if err := cached.Create(ctx, newProduct("doily")); err != nil {
		t.Fatalf("Create with redis down: %v", err)
	}
	products, err := cached.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll with redis down: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected store listing, got %d products", len(products))
	}
}

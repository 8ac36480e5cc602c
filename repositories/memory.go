package repositories

import (
	"context"
	"handmade-store/models"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process store used for local development (DATABASE_URL=memory://)
// and by the package tests. It keeps the same id format and ordering as the real drivers.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
	admins   map[string]models.Admin
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: map[string]models.Product{},
		admins:   map[string]models.Admin{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Products() *MemoryProductRepository {
	return &MemoryProductRepository{store: s}
}

func (s *MemoryStore) Admins() *MemoryAdminRepository {
	return &MemoryAdminRepository{store: s}
}

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	return p
}

type MemoryProductRepository struct {
	store *MemoryStore
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]models.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	products := make([]models.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		products = append(products, cloneProduct(p))
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID > products[j].ID
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (*models.Product, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	p := cloneProduct(*product)
	p.ID = NewID()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	r.store.products[p.ID] = p

	*product = cloneProduct(p)
	return nil
}

func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product, expectedVersion *int64) error {
	if _, err := ParseID(product.ID); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	if expectedVersion != nil && existing.Version != *expectedVersion {
		return ErrVersionConflict
	}

	p := cloneProduct(*product)
	p.Version = existing.Version + 1
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.store.now()
	r.store.products[p.ID] = p

	*product = cloneProduct(p)
	return nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	if _, err := ParseID(id); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.store.products, id)
	return nil
}

type MemoryAdminRepository struct {
	store *MemoryStore
}

func (r *MemoryAdminRepository) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.admins {
		if a.Username == username {
			admin := a
			return &admin, nil
		}
	}
	return nil, ErrAdminNotFound
}

func (r *MemoryAdminRepository) FindByID(_ context.Context, id string) (*models.Admin, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.admins[id]
	if !ok {
		return nil, ErrAdminNotFound
	}
	return &a, nil
}

func (r *MemoryAdminRepository) Upsert(_ context.Context, username, passwordHash string) (*models.Admin, error) {
	username = strings.TrimSpace(username)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	for id, a := range r.store.admins {
		if a.Username == username {
			a.PasswordHash = passwordHash
			a.UpdatedAt = now
			r.store.admins[id] = a
			return &a, nil
		}
	}

	a := models.Admin{
		ID:           NewID(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.store.admins[a.ID] = a
	return &a, nil
}

func (r *MemoryAdminRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.admins[id]
	if !ok {
		return ErrAdminNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = r.store.now()
	r.store.admins[id] = a
	return nil
}

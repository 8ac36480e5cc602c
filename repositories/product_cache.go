package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"handmade-store/models"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	productListCacheKey = "products_list"
	productListGenKey   = "products_list_gen"
	productListCacheTTL = 5 * time.Minute
)

// CachedProductRepository keeps the public catalog listing in Redis and drops it
// on every write. Cache failures fall through to the wrapped repository.
//
// Every write bumps a generation counter. A listing loaded from the store is
// only cached if the generation has not moved since the load started.
type CachedProductRepository struct {
	ProductRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedProductRepository(next ProductRepository, client *redis.Client) *CachedProductRepository {
	return &CachedProductRepository{
		ProductRepository: next,
		client:            client,
		ttl:               productListCacheTTL,
	}
}

func (r *CachedProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	cached, err := r.client.Get(ctx, productListCacheKey).Bytes()
	if err == nil {
		var products []models.Product
		if err := json.Unmarshal(cached, &products); err == nil {
			return products, nil
		}
	} else if err != redis.Nil {
		log.WithError(err).Warn("product cache read failed")
	}

	gen, genErr := listGeneration(ctx, r.client)

	products, err := r.ProductRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if genErr == nil {
		r.store(ctx, gen, products)
	}
	return products, nil
}

// store writes the listing only while the generation is still gen.
func (r *CachedProductRepository) store(ctx context.Context, gen int64, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := listGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleListing
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, productListCacheKey, data, r.ttl)
			return nil
		})
		return err
	}, productListGenKey)

	switch {
	case err == nil, errors.Is(err, errStaleListing), errors.Is(err, redis.TxFailedErr):
	default:
		log.WithError(err).Warn("product cache write failed")
	}
}

var errStaleListing = errors.New("product listing changed while loading")

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func listGeneration(ctx context.Context, c stringGetter) (int64, error) {
	gen, err := c.Get(ctx, productListGenKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (r *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.ProductRepository.Create(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedProductRepository) Update(ctx context.Context, product *models.Product, expectedVersion *int64) error {
	if err := r.ProductRepository.Update(ctx, product, expectedVersion); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedProductRepository) invalidate(ctx context.Context) {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, productListGenKey)
		pipe.Del(ctx, productListCacheKey)
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("product cache invalidation failed")
	}
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"handmade-store/models"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, description, price, offer, category, images, version, created_at, updated_at`

type PostgresProductRepository struct {
	db *pgxpool.Pool
}

func NewPostgresProductRepository(db *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Offer, &p.Category, &p.Images, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *PostgresProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, offer, category, images, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $8)
		RETURNING ` + productColumns
	now := time.Now().UTC()

	p, err := scanProduct(r.db.QueryRow(ctx, query,
		NewID(), product.Name, product.Description, product.Price, product.Offer, product.Category, product.Images, now,
	))
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	*product = *p
	return nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, product *models.Product, expectedVersion *int64) error {
	if _, err := ParseID(product.ID); err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, offer = $4, category = $5, images = $6,
		    version = version + 1, updated_at = $7
		WHERE id = $8 AND ($9::bigint IS NULL OR version = $9)
		RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Offer, product.Category, product.Images,
		time.Now().UTC(), product.ID, expectedVersion,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		if expectedVersion == nil {
			return ErrProductNotFound
		}
		if _, findErr := r.FindByID(ctx, product.ID); findErr != nil {
			return findErr
		}
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	*product = *p
	return nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := ParseID(id); err != nil {
		return err
	}

	result, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

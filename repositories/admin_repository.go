package repositories

import (
	"context"
	"errors"
	"fmt"
	"handmade-store/models"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const adminsCollection = "admins"

var ErrAdminNotFound = errors.New("admin not found")

// AdminRepository is the credential store. Records are provisioned out of band
// (see cmd/create-admin) and only their password hash is ever rewritten.
type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	Upsert(ctx context.Context, username, passwordHash string) (*models.Admin, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type adminDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d adminDocument) toModel() *models.Admin {
	return &models.Admin{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type MongoAdminRepository struct {
	coll *mongo.Collection
}

func NewMongoAdminRepository(db *mongo.Database) *MongoAdminRepository {
	return &MongoAdminRepository{coll: db.Collection(adminsCollection)}
}

func (r *MongoAdminRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoAdminRepository) findOne(ctx context.Context, filter bson.M) (*models.Admin, error) {
	var doc adminDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoAdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoAdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrAdminNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoAdminRepository) Upsert(ctx context.Context, username, passwordHash string) (*models.Admin, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{"passwordHash": passwordHash, "updatedAt": now},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc adminDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"username": strings.TrimSpace(username)}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoAdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrAdminNotFound
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"passwordHash": passwordHash, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAdminNotFound
	}
	return nil
}

type PostgresAdminRepository struct {
	db *pgxpool.Pool
}

func NewPostgresAdminRepository(db *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db}
}

func (r *PostgresAdminRepository) queryOne(ctx context.Context, query string, arg any) (*models.Admin, error) {
	admin := &models.Admin{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query admin: %w", err)
	}
	return admin, nil
}

func (r *PostgresAdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.queryOne(ctx, `SELECT id, username, password_hash, created_at, updated_at FROM admins WHERE username = $1`, username)
}

func (r *PostgresAdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.queryOne(ctx, `SELECT id, username, password_hash, created_at, updated_at FROM admins WHERE id = $1`, id)
}

func (r *PostgresAdminRepository) Upsert(ctx context.Context, username, passwordHash string) (*models.Admin, error) {
	query := `
		INSERT INTO admins (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at
		RETURNING id, username, password_hash, created_at, updated_at
	`
	admin := &models.Admin{}
	err := r.db.QueryRow(ctx, query, NewID(), strings.TrimSpace(username), passwordHash, time.Now().UTC()).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	return admin, nil
}

func (r *PostgresAdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE admins SET password_hash = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mostafayousef44200444-rgb/backend/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productRepository implements the ProductRepository interface using MongoDB.
type productRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewProductRepository creates a new MongoDB-backed product repository.
func NewProductRepository(db *mongo.Database, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		collection: db.Collection("products"),
		logger:     logger.With().Str("repository", "product").Logger(),
	}
}

// Create inserts a new product and fills in its generated ID.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	res, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}

	return nil
}

// GetAll retrieves all products, newest first.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode products")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var p model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("product_id", id.Hex()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.Hex()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs. Unknown IDs are simply
// absent from the result.
func (r *productRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode products")
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Update replaces an existing product document.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.Hex()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if res.MatchedCount == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// Delete removes a product. The boolean reports whether one existed.
func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.Hex()).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return res.DeletedCount > 0, nil
}

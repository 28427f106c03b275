package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mostafayousef44200444-rgb/backend/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// orderRepository implements the OrderRepository interface using MongoDB.
type orderRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewOrderRepository creates a new MongoDB-backed order repository.
func NewOrderRepository(db *mongo.Database, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		collection: db.Collection("orders"),
		logger:     logger.With().Str("repository", "order").Logger(),
	}
}

// FindOrCreatePending atomically returns the user's pending cart, inserting an
// empty one when none exists. The user and status fields come from the filter;
// everything else is seeded on insert only.
func (r *orderRepository) FindOrCreatePending(ctx context.Context, userID primitive.ObjectID, now time.Time) (*model.Order, error) {
	filter := bson.M{"user": userID, "status": model.StatusPending}
	update := bson.M{
		"$setOnInsert": bson.M{
			"items":           []model.OrderItem{},
			"total":           float64(0),
			"shippingAddress": model.ShippingAddress{},
			"payment":         model.Payment{},
			"statusHistory": []model.StatusEvent{
				{Status: model.StatusPending, At: now, Note: "Created cart"},
			},
			"version":   int64(0),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var order model.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err != nil {
		// Two concurrent upserts can both miss the find and race the insert;
		// the loser trips the partial unique index. Its cart now exists, so
		// one plain retry resolves it.
		if mongo.IsDuplicateKeyError(err) {
			err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
		}
		if err != nil {
			r.logger.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to find or create pending cart")
			return nil, fmt.Errorf("failed to find or create pending cart: %w", err)
		}
	}

	return &order, nil
}

// FindPendingByUser retrieves the user's pending cart without creating one.
func (r *orderRepository) FindPendingByUser(ctx context.Context, userID primitive.ObjectID) (*model.Order, error) {
	var order model.Order
	err := r.collection.FindOne(ctx, bson.M{"user": userID, "status": model.StatusPending}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to query pending cart")
		return nil, fmt.Errorf("failed to query pending cart: %w", err)
	}

	return &order, nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	var order model.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Debug().Str("order_id", id.Hex()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.Hex()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &order, nil
}

// ListByUser retrieves the user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []model.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode orders")
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

// ListAll retrieves every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []model.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode orders")
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

// Save replaces the order conditionally on the version it was read at. On
// success the in-memory version is bumped to match the stored document.
func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	readVersion := order.Version
	order.Version = readVersion + 1

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID, "version": readVersion}, order)
	if err != nil {
		order.Version = readVersion
		r.logger.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("failed to save order")
		return fmt.Errorf("failed to save order: %w", err)
	}

	if res.MatchedCount == 0 {
		order.Version = readVersion
		r.logger.Debug().
			Str("order_id", order.ID.Hex()).
			Int64("version", readVersion).
			Msg("stale order version")
		return ErrVersionConflict
	}

	return nil
}

// EnsureIndexes creates the index guaranteeing at most one pending cart per
// user, plus the sort index for per-user order history.
func (r *orderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": model.StatusPending}),
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	return nil
}

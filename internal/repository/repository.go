package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mostafayousef44200444-rgb/backend/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrVersionConflict is returned by OrderRepository.Save when the order was
// modified concurrently since it was read. The service layer retries.
var ErrVersionConflict = errors.New("order modified concurrently")

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, user *model.User) error

	// FindByEmail retrieves a user by email, or nil if none exists.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID retrieves a user by id, or nil if none exists.
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)

	// GetAll retrieves every registered user.
	GetAll(ctx context.Context) ([]model.User, error)

	// EnsureIndexes creates the unique email index.
	EnsureIndexes(ctx context.Context) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// Create inserts a new product and fills in its generated id.
	Create(ctx context.Context, product *model.Product) error

	// GetAll retrieves all products, newest first.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its id, or nil if none exists.
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)

	// GetByIDs retrieves multiple products by their ids.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error)

	// Update replaces an existing product document.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product. The boolean reports whether one existed.
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// FindOrCreatePending atomically returns the user's pending cart,
	// creating an empty one when none exists. A partial unique index on
	// (user, status=pending) guarantees at most one cart per user even
	// under concurrent requests.
	FindOrCreatePending(ctx context.Context, userID primitive.ObjectID, now time.Time) (*model.Order, error)

	// FindPendingByUser retrieves the user's pending cart, or nil if none
	// exists.
	FindPendingByUser(ctx context.Context, userID primitive.ObjectID) (*model.Order, error)

	// GetByID retrieves an order by its id, or nil if none exists.
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)

	// ListByUser retrieves the user's orders, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// Save writes the order back conditionally on the version it was read
	// at, bumping the version. Returns ErrVersionConflict when a concurrent
	// write got there first.
	Save(ctx context.Context, order *model.Order) error

	// EnsureIndexes creates the one-pending-cart-per-user index.
	EnsureIndexes(ctx context.Context) error
}

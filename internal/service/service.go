package service

import (
	"context"

	"github.com/mostafayousef44200444-rgb/backend/internal/model"
)

// UserService defines operations for registration, login and user listing.
type UserService interface {
	// Register creates a new account and returns a signed identity token.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login verifies credentials and returns a signed identity token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// GetAll retrieves every registered user.
	GetAll(ctx context.Context) ([]model.User, error)
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	// Create uploads the product images and inserts the product.
	Create(ctx context.Context, input *model.CreateProductInput) (*model.Product, error)

	// GetAll retrieves all products, newest first.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Update applies a partial update, merging retained and newly uploaded
	// images.
	Update(ctx context.Context, id string, input *model.UpdateProductInput) (*model.Product, error)

	// Delete removes a product permanently.
	Delete(ctx context.Context, id string) error
}

// OrderService defines operations for the cart and order lifecycle.
type OrderService interface {
	// ReplaceCart resolves the requested products against the catalogue and
	// replaces the caller's pending cart contents with them.
	ReplaceCart(ctx context.Context, userID string, req *model.ReplaceCartRequest) (*model.Order, error)

	// UpdateCart overwrites the caller's pending cart items wholesale with
	// the given records, trusting their fields as supplied.
	UpdateCart(ctx context.Context, userID string, req *model.UpdateCartRequest) (*model.Order, error)

	// AddToCart merges a single catalogue product into the caller's pending
	// cart, summing quantities for the same product and size.
	AddToCart(ctx context.Context, userID string, req *model.AddToCartRequest) (*model.Order, error)

	// RemoveFromCart drops every size variant of the product from the
	// caller's pending cart.
	RemoveFromCart(ctx context.Context, userID, productID string) (*model.Order, error)

	// Confirm captures shipping and payment details and transitions the
	// caller's pending order to processing.
	Confirm(ctx context.Context, userID, orderID string, req *model.ConfirmOrderRequest) (*model.Order, error)

	// GetCurrentCart returns the caller's pending cart, or an empty cart
	// sentinel when none exists.
	GetCurrentCart(ctx context.Context, userID string) (*model.Order, error)

	// ListMine retrieves the caller's orders, newest first.
	ListMine(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll retrieves every order, newest first, with user emails
	// populated.
	ListAll(ctx context.Context) ([]model.Order, error)

	// AdminGet retrieves a single order with user and product details.
	AdminGet(ctx context.Context, orderID string) (*model.Order, error)

	// AdminUpdate applies an admin edit: replacement items, a status
	// transition and a shipping price.
	AdminUpdate(ctx context.Context, orderID string, req *model.AdminUpdateOrderRequest) (*model.Order, error)
}

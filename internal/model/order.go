package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle statuses. An order with StatusPending is the user's cart.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// AdminStatuses are the transitions an admin may apply to an order.
var AdminStatuses = []string{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// OrderItem is a line item in an order. Name, price and image are a snapshot
// of the product at the time it was added; later catalogue changes do not
// affect existing carts. Product is populated on reads only.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	Size      string             `json:"size" bson:"size"`
	Image     string             `json:"image" bson:"image"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Product   *Product           `json:"product,omitempty" bson:"-"`
}

// ShippingAddress is the delivery address captured at confirmation.
type ShippingAddress struct {
	FullName string `json:"fullName" bson:"fullName"`
	Phone    string `json:"phone" bson:"phone"`
	City     string `json:"city" bson:"city"`
	Street   string `json:"street" bson:"street"`
	Country  string `json:"country" bson:"country"`
}

// Payment holds the payment method and free-form notes captured at
// confirmation.
type Payment struct {
	Method string `json:"method" bson:"method"`
	Notes  string `json:"notes" bson:"notes"`
}

// StatusEvent is one entry in the append-only status history.
type StatusEvent struct {
	Status string    `json:"status" bson:"status"`
	At     time.Time `json:"at" bson:"at"`
	Note   string    `json:"note" bson:"note"`
}

// Order represents both an in-progress cart (status pending) and a confirmed
// order. Version backs optimistic concurrency on cart mutations; UserEmail is
// populated on reads only.
type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user" bson:"user"`
	Items           []OrderItem        `json:"items" bson:"items"`
	Total           float64            `json:"total" bson:"total"`
	Status          string             `json:"status" bson:"status"`
	ShippingAddress ShippingAddress    `json:"shippingAddress" bson:"shippingAddress"`
	Payment         Payment            `json:"payment" bson:"payment"`
	StatusHistory   []StatusEvent      `json:"statusHistory" bson:"statusHistory"`
	Version         int64              `json:"-" bson:"version"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UserEmail       string             `json:"userEmail,omitempty" bson:"-"`
}

// Subtotal returns the sum of price x quantity over all items.
func (o *Order) Subtotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// CartProductRequest is one entry of the bulk cart-replace payload.
type CartProductRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// ReplaceCartRequest is the payload for POST /api/orders.
type ReplaceCartRequest struct {
	Products []CartProductRequest `json:"products"`
}

// CartItemInput is one entry of the direct cart-overwrite payload. The fields
// are trusted as given and are not re-resolved against the catalogue.
type CartItemInput struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// UpdateCartRequest is the payload for PUT /api/orders/update-cart.
type UpdateCartRequest struct {
	Items []CartItemInput `json:"items"`
}

// AddToCartRequest is the payload for POST /api/orders/add-to-cart.
type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// ConfirmOrderRequest is the payload for PUT /api/orders/{orderId}/confirm.
type ConfirmOrderRequest struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	City          string `json:"city"`
	Street        string `json:"street"`
	Country       string `json:"country"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
}

// AdminUpdateOrderRequest is the payload for PUT /api/orders/{orderId}/admin.
type AdminUpdateOrderRequest struct {
	Items         []CartItemInput `json:"items"`
	Status        string          `json:"status"`
	ShippingPrice float64         `json:"shippingPrice"`
	AdminNote     string          `json:"adminNote"`
}

// OrderResponse wraps a single order in the success envelope the frontend
// expects.
type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Order   *Order `json:"order"`
}

// OrdersResponse wraps an order list in the success envelope.
type OrdersResponse struct {
	Success bool    `json:"success"`
	Orders  []Order `json:"orders"`
}

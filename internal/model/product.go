package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories a product may belong to.
var ProductCategories = []string{"Men", "Women", "Kids", "Bag", "Shoes", "Watches"}

// Sizes a product may be offered in.
var ProductSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "3XL"}

// Product represents an item in the catalogue. Images holds the public URLs
// returned by the image store; the service never stores raw image bytes.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Images      []string           `json:"images" bson:"images"`
	Category    string             `json:"category" bson:"category"`
	Sizes       []string           `json:"sizes" bson:"sizes"`
	Stock       int                `json:"stock" bson:"stock"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ImageUpload is a single uploaded file buffered in memory by the handler.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CreateProductInput carries the multipart form fields for product creation.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Sizes       []string
	Stock       int
	Images      []ImageUpload
}

// UpdateProductInput carries the multipart form fields for a partial product
// update. Nil pointers mean "keep the current value". ExistingImages is the
// client-supplied list of already-hosted URLs to retain; freshly uploaded
// images are appended after them.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *float64
	Category       *string
	Sizes          []string
	Stock          *int
	ExistingImages []string
	Images         []ImageUpload
}

// ValidCategory reports whether c is one of the known product categories.
func ValidCategory(c string) bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidSize reports whether s is one of the known product sizes.
func ValidSize(s string) bool {
	for _, v := range ProductSizes {
		if v == s {
			return true
		}
	}
	return false
}

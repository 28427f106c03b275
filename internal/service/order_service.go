package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mostafayousef44200444-rgb/backend/internal/model"
	"github.com/mostafayousef44200444-rgb/backend/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// saveRetries bounds how often a cart mutation is replayed after losing a
// concurrent-write race.
const saveRetries = 3

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// ReplaceCart resolves the requested products against the catalogue and
// replaces the caller's pending cart contents with them. Unresolvable product
// IDs are skipped; if none resolve the request is rejected.
func (s *orderService) ReplaceCart(ctx context.Context, userID string, req *model.ReplaceCartRequest) (*model.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if req == nil || len(req.Products) == 0 {
		return nil, model.ErrProductsRequired
	}

	items, err := s.resolveCartProducts(ctx, req.Products)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, model.ErrNoValidProducts
	}

	order, err := s.mutateOrder(ctx, s.loadOrCreatePending(uid), func(order *model.Order) error {
		order.Items = append([]model.OrderItem{}, items...)
		order.Total = order.Subtotal()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.Hex()).
		Int("item_count", len(order.Items)).
		Msg("cart replaced")

	return s.populateOrder(ctx, order, true)
}

// UpdateCart overwrites the caller's pending cart items wholesale. Item
// fields are stored as supplied and are not re-resolved against the
// catalogue.
func (s *orderService) UpdateCart(ctx context.Context, userID string, req *model.UpdateCartRequest) (*model.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Items == nil {
		return nil, model.ErrItemsRequired
	}

	items, err := buildCartItems(req.Items, "")
	if err != nil {
		return nil, err
	}

	order, err := s.mutateOrder(ctx, s.loadPending(uid), func(order *model.Order) error {
		order.Items = items
		order.Total = order.Subtotal()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.Hex()).
		Int("item_count", len(order.Items)).
		Msg("cart updated")

	return s.populateOrder(ctx, order, true)
}

// AddToCart merges one catalogue product into the caller's pending cart. An
// item with the same product and size has its quantity incremented instead of
// duplicating the line.
func (s *orderService) AddToCart(ctx context.Context, userID string, req *model.AddToCartRequest) (*model.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.ProductID == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Product ID is required")
	}

	pid, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, model.ErrProductNotFound
	}
	product, err := s.productRepo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}
	item := snapshotItem(product, quantity, req.Size)

	order, err := s.mutateOrder(ctx, s.loadOrCreatePending(uid), func(order *model.Order) error {
		order.Items = mergeItem(order.Items, item)
		order.Total = order.Subtotal()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.Hex()).
		Str("product_id", pid.Hex()).
		Int("quantity", quantity).
		Msg("item added to cart")

	return s.populateOrder(ctx, order, true)
}

// RemoveFromCart drops every size variant of the product from the caller's
// pending cart. Removing a product that is not present is a no-op, but the
// cart is still saved.
func (s *orderService) RemoveFromCart(ctx context.Context, userID, productID string) (*model.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid product ID")
	}

	order, err := s.mutateOrder(ctx, s.loadPending(uid), func(order *model.Order) error {
		kept := order.Items[:0]
		for _, it := range order.Items {
			if it.ProductID != pid {
				kept = append(kept, it)
			}
		}
		order.Items = kept
		order.Total = order.Subtotal()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.Hex()).
		Str("product_id", pid.Hex()).
		Msg("item removed from cart")

	return s.populateOrder(ctx, order, true)
}

// Confirm captures shipping and payment details and transitions the caller's
// pending order to processing.
func (s *orderService) Confirm(ctx context.Context, userID, orderID string, req *model.ConfirmOrderRequest) (*model.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, model.ErrInvalidOrderID
	}
	if err := validateConfirmRequest(req); err != nil {
		return nil, err
	}

	order, err := s.mutateOrder(ctx, s.loadByID(oid), func(order *model.Order) error {
		if order.UserID != uid {
			return model.ErrNotOrderOwner
		}
		if order.Status != model.StatusPending {
			return model.ErrOrderNotPending
		}

		order.ShippingAddress = model.ShippingAddress{
			FullName: strings.TrimSpace(req.FullName),
			Phone:    strings.TrimSpace(req.Phone),
			City:     strings.TrimSpace(req.City),
			Street:   strings.TrimSpace(req.Street),
			Country:  strings.TrimSpace(req.Country),
		}
		order.Payment = model.Payment{
			Method: strings.TrimSpace(req.PaymentMethod),
			Notes:  req.Notes,
		}
		order.Status = model.StatusProcessing
		order.StatusHistory = append(order.StatusHistory, model.StatusEvent{
			Status: model.StatusProcessing,
			At:     time.Now().UTC(),
			Note:   "Order confirmed by user",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", order.ID.Hex()).Msg("order confirmed")

	return s.populateOrder(ctx, order, true)
}

// GetCurrentCart returns the caller's pending cart. When none exists an
// empty cart sentinel is returned instead of creating one.
func (s *orderService) GetCurrentCart(ctx context.Context, userID string) (*model.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindPendingByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return &model.Order{
			UserID: uid,
			Items:  []model.OrderItem{},
			Total:  0,
			Status: model.StatusPending,
		}, nil
	}

	return s.populateOrder(ctx, order, false)
}

// ListMine retrieves the caller's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, userID string) ([]model.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := s.populateOrders(ctx, orders, false); err != nil {
		return nil, err
	}

	return orders, nil
}

// ListAll retrieves every order, newest first, with user emails populated.
func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.populateOrders(ctx, orders, true); err != nil {
		return nil, err
	}

	return orders, nil
}

// AdminGet retrieves a single order with user and product details.
func (s *orderService) AdminGet(ctx context.Context, orderID string) (*model.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, model.ErrInvalidOrderID
	}

	order, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return s.populateOrder(ctx, order, true)
}

// AdminUpdate applies an admin edit. Items, when supplied, replace the
// current ones wholesale; a status change appends a history entry; the total
// becomes item subtotal plus shipping price.
func (s *orderService) AdminUpdate(ctx context.Context, orderID string, req *model.AdminUpdateOrderRequest) (*model.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, model.ErrInvalidOrderID
	}
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Request body is required")
	}
	if req.Status != "" && !validAdminStatus(req.Status) {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid order status")
	}
	if req.ShippingPrice < 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Shipping price cannot be negative")
	}

	var items []model.OrderItem
	if req.Items != nil {
		items, err = buildCartItems(req.Items, "Unknown")
		if err != nil {
			return nil, err
		}
	}

	order, err := s.mutateOrder(ctx, s.loadByID(oid), func(order *model.Order) error {
		if req.Items != nil {
			order.Items = items
		}
		if req.Status != "" && req.Status != order.Status {
			note := req.AdminNote
			if note == "" {
				note = fmt.Sprintf("Status changed to %s by admin", req.Status)
			}
			order.Status = req.Status
			order.StatusHistory = append(order.StatusHistory, model.StatusEvent{
				Status: req.Status,
				At:     time.Now().UTC(),
				Note:   note,
			})
		}
		order.Total = order.Subtotal() + req.ShippingPrice
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.Hex()).
		Str("status", order.Status).
		Msg("order updated by admin")

	return s.populateOrder(ctx, order, true)
}

// mutateOrder runs the load-mutate-save cycle under optimistic concurrency,
// replaying the mutation against a fresh snapshot after a conflicting write.
func (s *orderService) mutateOrder(
	ctx context.Context,
	load func(context.Context) (*model.Order, error),
	mutate func(*model.Order) error,
) (*model.Order, error) {
	for attempt := 0; attempt < saveRetries; attempt++ {
		order, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := mutate(order); err != nil {
			return nil, err
		}

		err = s.orderRepo.Save(ctx, order)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}

		s.logger.Debug().
			Str("order_id", order.ID.Hex()).
			Int("attempt", attempt+1).
			Msg("write conflict, replaying mutation")
	}

	return nil, model.ErrWriteConflict
}

// loadOrCreatePending loads the user's pending cart, creating one if needed.
func (s *orderService) loadOrCreatePending(uid primitive.ObjectID) func(context.Context) (*model.Order, error) {
	return func(ctx context.Context) (*model.Order, error) {
		return s.orderRepo.FindOrCreatePending(ctx, uid, time.Now().UTC())
	}
}

// loadPending loads the user's pending cart, failing when none exists.
func (s *orderService) loadPending(uid primitive.ObjectID) func(context.Context) (*model.Order, error) {
	return func(ctx context.Context) (*model.Order, error) {
		order, err := s.orderRepo.FindPendingByUser(ctx, uid)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, model.ErrNoPendingCart
		}
		return order, nil
	}
}

// loadByID loads an order by ID, failing when absent.
func (s *orderService) loadByID(oid primitive.ObjectID) func(context.Context) (*model.Order, error) {
	return func(ctx context.Context) (*model.Order, error) {
		order, err := s.orderRepo.GetByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, model.ErrOrderNotFound
		}
		return order, nil
	}
}

// resolveCartProducts turns the bulk-replace payload into snapshot items.
// Unknown or malformed product IDs are skipped; duplicates of the same
// product and size are merged.
func (s *orderService) resolveCartProducts(ctx context.Context, reqs []model.CartProductRequest) ([]model.OrderItem, error) {
	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		if pid, err := primitive.ObjectIDFromHex(r.ProductID); err == nil {
			ids = append(ids, pid)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := []model.OrderItem{}
	for _, r := range reqs {
		pid, err := primitive.ObjectIDFromHex(r.ProductID)
		if err != nil {
			continue
		}
		product, ok := byID[pid]
		if !ok {
			continue
		}
		quantity := r.Quantity
		if quantity < 1 {
			quantity = 1
		}
		items = mergeItem(items, snapshotItem(product, quantity, r.Size))
	}

	return items, nil
}

// populateOrder attaches product details to each item and, when withUser is
// set, the owner's email. The item image falls back to the product's first
// image for display; the stored snapshot is untouched.
func (s *orderService) populateOrder(ctx context.Context, order *model.Order, withUser bool) (*model.Order, error) {
	orders := []model.Order{*order}
	if err := s.populateOrders(ctx, orders, withUser); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// populateOrders is the list form of populateOrder. Products and users are
// fetched once per distinct reference across the whole list.
func (s *orderService) populateOrders(ctx context.Context, orders []model.Order, withUser bool) error {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, o := range orders {
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	emails := map[primitive.ObjectID]string{}

	for i := range orders {
		o := &orders[i]
		for j := range o.Items {
			it := &o.Items[j]
			product, ok := byID[it.ProductID]
			if !ok {
				continue
			}
			it.Product = product
			if it.Image == "" && len(product.Images) > 0 {
				it.Image = product.Images[0]
			}
		}

		if !withUser {
			continue
		}
		email, ok := emails[o.UserID]
		if !ok {
			user, err := s.userRepo.FindByID(ctx, o.UserID)
			if err != nil {
				return err
			}
			if user != nil {
				email = user.Email
			}
			emails[o.UserID] = email
		}
		o.UserEmail = email
	}

	return nil
}

// buildCartItems converts trusted client-supplied item records into stored
// items. Quantity must be at least 1; other fields default per record.
func buildCartItems(inputs []model.CartItemInput, defaultName string) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		pid, err := primitive.ObjectIDFromHex(in.ProductID)
		if err != nil {
			return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid product ID in items")
		}
		if in.Quantity < 1 {
			return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Item quantity must be at least 1")
		}
		name := in.Name
		if name == "" {
			name = defaultName
		}
		items = append(items, model.OrderItem{
			ProductID: pid,
			Name:      name,
			Price:     in.Price,
			Size:      in.Size,
			Image:     in.Image,
			Quantity:  in.Quantity,
		})
	}
	return items, nil
}

// snapshotItem copies the product fields an item keeps at add time.
func snapshotItem(product *model.Product, quantity int, size string) model.OrderItem {
	item := model.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Size:      size,
		Quantity:  quantity,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}
	return item
}

// mergeItem folds an item into the list, summing quantities when the same
// product and size is already present.
func mergeItem(items []model.OrderItem, item model.OrderItem) []model.OrderItem {
	for i := range items {
		if items[i].ProductID == item.ProductID && items[i].Size == item.Size {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

// validateConfirmRequest checks the shipping and payment payload.
func validateConfirmRequest(req *model.ConfirmOrderRequest) error {
	if req == nil {
		return model.ErrShippingRequired
	}
	required := []string{req.FullName, req.Phone, req.City, req.Street, req.Country, req.PaymentMethod}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return model.ErrShippingRequired
		}
	}
	return nil
}

// validAdminStatus reports whether s is a status an admin may set.
func validAdminStatus(s string) bool {
	for _, v := range model.AdminStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// parseUserID converts the token subject into an object ID.
func parseUserID(userID string) (primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, model.NewDomainError(model.ErrCodeUnauthorised, "Invalid user identity")
	}
	return uid, nil
}

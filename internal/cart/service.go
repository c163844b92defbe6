package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/product"
)

// Products is the slice of the catalog the cart needs.
type Products interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

type Service struct {
	repo     Repository
	products Products
	logger   *zap.Logger
}

func NewService(repo Repository, products Products, logger *zap.Logger) *Service {
	return &Service{repo: repo, products: products, logger: logger}
}

// AddItem adds quantity units of productID; a zero quantity means one unit.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*Item, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, apperr.InvalidArgument("product_id is required")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperr.InvalidArgument("quantity must not be negative")
	}
	if quantity > MaxQuantity {
		return nil, ErrQuantityLimit
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, apperr.Internal(err)
	}
	it, err := s.repo.AddOrIncrement(ctx, &Item{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: p.ID,
		Quantity:  quantity,
		Price:     p.Price,
	})
	if errors.Is(err, ErrQuantityLimit) {
		return nil, ErrQuantityLimit
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.logger.Debug("cart item added",
		zap.String("user_id", userID),
		zap.String("product_id", p.ID),
		zap.Int("quantity", it.Quantity))
	return it, nil
}

// SetQuantity overwrites the quantity of one of the user's items. Zero removes it.
func (s *Service) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity < 0 {
		return apperr.InvalidArgument("quantity must not be negative")
	}
	if quantity > MaxQuantity {
		return ErrQuantityLimit
	}
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		return err
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}
	ok, err := s.repo.SetQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) error {
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Clear empties the cart. Clearing an empty cart is not an error.
func (s *Service) Clear(ctx context.Context, userID string) error {
	n, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	s.logger.Debug("cart cleared", zap.String("user_id", userID), zap.Int64("removed", n))
	return nil
}

// List joins the cart with current product display data. A product that no
// longer exists yields placeholder fields.
func (s *Service) List(ctx context.Context, userID string) (View, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return View{}, apperr.Internal(err)
	}
	view := View{Items: make([]Line, 0, len(items)), Total: Total(items)}
	for _, it := range items {
		line := Line{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal(),
			Name:      unknownProduct,
		}
		p, err := s.products.GetByID(ctx, it.ProductID)
		switch {
		case err == nil:
			line.Name, line.Image, line.Description = p.Name, p.Image, p.Description
		case !errors.Is(err, apperr.ErrNotFound):
			return View{}, apperr.Internal(err)
		}
		view.Items = append(view.Items, line)
		view.Count += it.Quantity
	}
	return view, nil
}

func (s *Service) owned(ctx context.Context, userID, itemID string) (*Item, error) {
	it, err := s.repo.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperr.Internal(err)
	}
	if !OwnedBy(it, userID) {
		return nil, ErrNotFound
	}
	return it, nil
}

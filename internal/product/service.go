package product

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
)

const defaultStock = 100

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, q Query) (ListResponse, error) {
	q = q.Normalize()
	items, err := s.repo.List(ctx, q)
	if err != nil {
		return ListResponse{}, apperr.Internal(err)
	}
	return ListResponse{Q: q.Q, Limit: q.Limit, Offset: q.Offset, Items: items}, nil
}

func (s *Service) Create(ctx context.Context, in CreateProductRequest) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Price) == "" {
		return nil, apperr.InvalidArgument("name and price are required")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	stock := defaultStock
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return nil, apperr.InvalidArgument("stock must be non-negative")
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = slug(name)
	}
	if id == "" {
		return nil, apperr.InvalidArgument("id is required when the name has no letters or digits")
	}
	p := &Product{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Price:       price,
		Image:       in.Image,
		Category:    in.Category,
		Stock:       stock,
	}
	if _, err := s.repo.GetByID(ctx, id); err == nil {
		return nil, ErrAlreadyExist
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Internal(err)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			return nil, ErrAlreadyExist
		}
		return nil, apperr.Internal(err)
	}
	s.logger.Info("product created", zap.String("product_id", p.ID))
	return s.Get(ctx, id)
}

// Update applies a partial update; a missing price leaves the current one.
func (s *Service) Update(ctx context.Context, id string, in UpdateProductRequest) (*Product, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Image:       in.Image,
		Category:    in.Category,
		Stock:       cur.Stock,
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, apperr.InvalidArgument("stock must be non-negative")
		}
		p.Stock = *in.Stock
	}
	updatePrice := strings.TrimSpace(in.Price) != ""
	if updatePrice {
		if p.Price, err = parsePrice(in.Price); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, p, updatePrice); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, apperr.Internal(err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Seed inserts the sample catalog when the products collection is empty.
func (s *Service) Seed(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for i := range SampleCatalog {
		p := SampleCatalog[i]
		if err := s.repo.Create(ctx, &p); err != nil {
			return err
		}
	}
	s.logger.Info("sample products inserted", zap.Int("count", len(SampleCatalog)))
	return nil
}

var maxPrice = decimal.NewFromInt(1_000_000)

func parsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero, apperr.InvalidArgument("price must be a non-negative number")
	}
	if d.GreaterThan(maxPrice) {
		return decimal.Zero, apperr.InvalidArgument("price must not exceed " + maxPrice.String())
	}
	return d, nil
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var SampleCatalog = []Product{
	{ID: "zeus-whey", Name: "Zeus Whey", Description: "The Ultimate Strength Formula - Premium whey protein for maximum muscle growth", Price: decimal.NewFromInt(2999), Image: "assets/product.png", Category: "supplements", Stock: defaultStock},
	{ID: "ares-preworkout", Name: "Ares Pre-workout", Description: "Unleash Your Power Surge - High-intensity pre-workout for explosive energy", Price: decimal.NewFromInt(1999), Image: "assets/product.png", Category: "supplements", Stock: defaultStock},
	{ID: "hermes-energy", Name: "Hermes Energy", Description: "For Unmatched Speed & Endurance - Natural energy booster for peak performance", Price: decimal.NewFromInt(1499), Image: "assets/product.png", Category: "supplements", Stock: defaultStock},
	{ID: "athena-focus", Name: "Athena Focus", Description: "A True Brain Booster - Cognitive enhancement for mental clarity", Price: decimal.NewFromInt(1799), Image: "assets/product.png", Category: "supplements", Stock: defaultStock},
	{ID: "olympian-tee", Name: "The Olympian Tee", Description: "Premium Cotton-Poly Blend with Athletic Fit & High-Durability FEAR Logo Print", Price: decimal.NewFromInt(1999), Image: "assets/merchandise.png", Category: "apparel", Stock: defaultStock},
}

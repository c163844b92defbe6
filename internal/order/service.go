package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/events"
	"github.com/MikeMC777/storefront/internal/user"
)

// Users resolves the e-mail shown next to orders in the back-office.
type Users interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Service struct {
	repo      Repository
	users     Users
	locker    Locker
	publisher events.Publisher
	logger    *zap.Logger
	checkouts *prometheus.CounterVec
	now       func() time.Time
}

type Option func(*Service)

// WithMetrics counts checkouts by outcome on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Service) {
		s.checkouts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkouts_total",
			Help:      "Checkouts by outcome.",
		}, []string{"outcome"})
		reg.MustRegister(s.checkouts)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, users Users, locker Locker, publisher events.Publisher, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		users:     users,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var errAddressRequired = apperr.InvalidArgument("shipping address is required")

// Placed is the result of a checkout.
type Placed struct {
	OrderID  string
	Replayed bool
}

// PlaceOrder converts the user's cart into an order, its items and a completed
// payment, and empties the cart. An empty cart fails with ErrEmptyCart before
// the shipping address is looked at. All writes happen in one repository
// transaction; concurrent checkouts of the same user are serialized so the
// second one finds an empty cart.
func (s *Service) PlaceOrder(ctx context.Context, userID string, addr *ShippingAddress, idempotencyKey, requestID string) (Placed, error) {
	if userID == "" {
		return Placed{}, apperr.ErrUnauthorized
	}
	idempotencyKey = strings.TrimSpace(idempotencyKey)

	unlock, err := s.locker.Lock(ctx, "checkout:"+userID)
	if err != nil {
		s.count("error")
		return Placed{}, apperr.Internal(err)
	}
	defer unlock()

	var placement *Placement
	o, replayed, err := s.repo.Checkout(ctx, userID, idempotencyKey, func(lines []cart.Item) (*Placement, error) {
		if len(lines) == 0 {
			return nil, apperr.ErrEmptyCart
		}
		if addr == nil || strings.TrimSpace(addr.Address) == "" {
			return nil, errAddressRequired
		}
		shipping, err := addr.Encode()
		if err != nil {
			return nil, err
		}
		placement = s.build(userID, shipping, idempotencyKey, lines)
		return placement, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrEmptyCart):
			s.count("empty_cart")
			return Placed{}, apperr.ErrEmptyCart
		case errors.Is(err, errAddressRequired):
			s.count("invalid")
			return Placed{}, errAddressRequired
		}
		s.count("error")
		s.logger.Error("checkout failed", zap.String("user_id", userID), zap.Error(err))
		return Placed{}, apperr.Internal(err)
	}
	if replayed {
		s.count("replayed")
		s.logger.Info("checkout replayed", zap.String("order_id", o.ID), zap.String("user_id", userID))
		return Placed{OrderID: o.ID, Replayed: true}, nil
	}

	s.count("placed")
	s.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", userID),
		zap.String("total", o.Total.String()),
		zap.Int("items", len(placement.Items)))
	s.publish(ctx, events.TopicOrderPlaced, o.ID, events.OrderPlaced{
		EventID:   uuid.NewString(),
		OrderID:   o.ID,
		UserID:    userID,
		Total:     o.Total,
		ItemCount: len(placement.Items),
		RequestID: requestID,
		Timestamp: s.now().UTC(),
	})
	return Placed{OrderID: o.ID}, nil
}

// build prices the order from the snapshot prices stored on the cart lines,
// never from the live catalog.
func (s *Service) build(userID, shipping, idempotencyKey string, lines []cart.Item) *Placement {
	now := s.now().UTC()
	total := cart.Total(lines)
	o := Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Total:           total,
		Status:          StatusPending,
		ShippingAddress: shipping,
		IdempotencyKey:  idempotencyKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}
	return &Placement{
		Order: o,
		Items: items,
		Payment: Payment{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			Amount:    total,
			Method:    PaymentMethodOnline,
			Status:    PaymentStatusCompleted,
			CreatedAt: now,
		},
	}
}

// ListForUser returns the user's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]View, error) {
	orders, err := s.repo.List(ctx, Filter{UserID: userID})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.views(ctx, orders, false)
}

// AdminList returns every order, optionally filtered by status, with the
// owner's e-mail.
func (s *Service) AdminList(ctx context.Context, status string) ([]View, error) {
	f := Filter{}
	if status = strings.TrimSpace(status); status != "" {
		f.Status = Status(status)
	}
	orders, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.views(ctx, orders, true)
}

func (s *Service) AdminGet(ctx context.Context, id string) (View, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return View{}, ErrNotFound
		}
		return View{}, apperr.Internal(err)
	}
	vs, err := s.views(ctx, []Order{*o}, true)
	if err != nil {
		return View{}, err
	}
	v := vs[0]
	p, err := s.repo.GetPayment(ctx, id)
	switch {
	case err == nil:
		v.Payment = p
	case !errors.Is(err, apperr.ErrNotFound):
		return View{}, apperr.Internal(err)
	}
	return v, nil
}

// Recent returns the n newest orders without their lines.
func (s *Service) Recent(ctx context.Context, n int) ([]Order, error) {
	orders, err := s.repo.List(ctx, Filter{Limit: n})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// UpdateStatus sets any valid status; transitions are not restricted.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	st := Status(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return apperr.InvalidArgument("status must be one of pending, processing, shipped, delivered, cancelled")
	}
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotFound
		}
		return apperr.Internal(err)
	}
	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotFound
		}
		return apperr.Internal(err)
	}
	s.logger.Info("order status updated",
		zap.String("order_id", id),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(st)))
	s.publish(ctx, events.TopicOrderStatusChanged, id, events.OrderStatusChanged{
		EventID:   uuid.NewString(),
		OrderID:   id,
		From:      string(cur.Status),
		To:        string(st),
		Timestamp: s.now().UTC(),
	})
	return nil
}

func (s *Service) ListPayments(ctx context.Context, status string) ([]Payment, error) {
	ps, err := s.repo.ListPayments(ctx, strings.TrimSpace(status))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return ps, nil
}

func (s *Service) views(ctx context.Context, orders []Order, withEmail bool) ([]View, error) {
	out := make([]View, 0, len(orders))
	emails := map[string]string{}
	for _, o := range orders {
		items, err := s.repo.GetItems(ctx, o.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		v := View{
			Order:       o,
			Shipping:    DecodeShipping(o.ShippingAddress),
			Items:       items,
			ItemSummary: Summary(items),
		}
		if withEmail {
			email, ok := emails[o.UserID]
			if !ok {
				email = "N/A"
				u, err := s.users.GetByID(ctx, o.UserID)
				switch {
				case err == nil:
					email = u.Email
				case !errors.Is(err, apperr.ErrNotFound):
					return nil, apperr.Internal(err)
				}
				emails[o.UserID] = email
			}
			v.UserEmail = email
		}
		out = append(out, v)
	}
	return out, nil
}

// publish never fails the caller; the order is already committed.
func (s *Service) publish(ctx context.Context, topic, key string, payload any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, topic, key, payload); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("topic", topic),
			zap.String("key", key),
			zap.Error(err))
	}
}

func (s *Service) count(outcome string) {
	if s.checkouts != nil {
		s.checkouts.WithLabelValues(outcome).Inc()
	}
}

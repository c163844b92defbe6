// Package report computes the admin dashboard and the per-user back-office
// views. Every figure is recomputed from the stores on each call.
package report

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/enquiry"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/user"
)

const recentLimit = 5

type Orders interface {
	List(ctx context.Context, f order.Filter) ([]order.Order, error)
	CountByStatus(ctx context.Context) (map[order.Status]int, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	StatsByUser(ctx context.Context, userID string) (order.UserStats, error)
}

type Enquiries interface {
	List(ctx context.Context, status enquiry.Status, limit int) ([]enquiry.Enquiry, error)
	CountByStatus(ctx context.Context) (map[enquiry.Status]int, error)
}

type Users interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

// Dashboard is the admin landing view.
// swagger:model Dashboard
type Dashboard struct {
	TotalOrders       int                    `json:"totalOrders"`
	TotalRevenue      decimal.Decimal        `json:"totalRevenue" swaggertype:"string"`
	PendingOrders     int                    `json:"pendingOrders"`
	NewEnquiries      int                    `json:"newEnquiries"`
	OrdersByStatus    map[order.Status]int   `json:"ordersByStatus"`
	EnquiriesByStatus map[enquiry.Status]int `json:"enquiriesByStatus"`
	RecentOrders      []order.Order          `json:"recentOrders"`
	RecentEnquiries   []enquiry.Enquiry      `json:"recentEnquiries"`
}

// UserSummary is a user row of the admin user list.
// swagger:model UserSummary
type UserSummary struct {
	user.User
	order.UserStats
}

// UserDetail is a single user with their latest orders.
// swagger:model UserDetail
type UserDetail struct {
	UserSummary
	RecentOrders []order.Order `json:"recent_orders"`
}

type Service struct {
	orders    Orders
	enquiries Enquiries
	users     Users
}

func NewService(orders Orders, enquiries Enquiries, users Users) *Service {
	return &Service{orders: orders, enquiries: enquiries, users: users}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		byStatus, err := s.orders.CountByStatus(gctx)
		if err != nil {
			return err
		}
		d.OrdersByStatus = byStatus
		for _, n := range byStatus {
			d.TotalOrders += n
		}
		d.PendingOrders = byStatus[order.StatusPending]
		return nil
	})
	g.Go(func() error {
		rev, err := s.orders.Revenue(gctx)
		d.TotalRevenue = rev
		return err
	})
	g.Go(func() error {
		byStatus, err := s.enquiries.CountByStatus(gctx)
		if err != nil {
			return err
		}
		d.EnquiriesByStatus = byStatus
		d.NewEnquiries = byStatus[enquiry.StatusNew]
		return nil
	})
	g.Go(func() error {
		recent, err := s.orders.List(gctx, order.Filter{Limit: recentLimit})
		d.RecentOrders = recent
		return err
	})
	g.Go(func() error {
		recent, err := s.enquiries.List(gctx, "", recentLimit)
		d.RecentEnquiries = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, apperr.Internal(err)
	}
	return d, nil
}

// Users lists every user with their order statistics.
func (s *Service) Users(ctx context.Context) ([]UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]UserSummary, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range users {
		g.Go(func() error {
			st, err := s.orders.StatsByUser(gctx, users[i].ID)
			if err != nil {
				return err
			}
			out[i] = UserSummary{User: users[i], UserStats: st}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *Service) User(ctx context.Context, id string) (UserDetail, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return UserDetail{}, user.ErrNotFound
		}
		return UserDetail{}, apperr.Internal(err)
	}
	d := UserDetail{UserSummary: UserSummary{User: *u}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.orders.StatsByUser(gctx, id)
		d.UserStats = st
		return err
	})
	g.Go(func() error {
		recent, err := s.orders.List(gctx, order.Filter{UserID: id, Limit: recentLimit})
		d.RecentOrders = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return UserDetail{}, apperr.Internal(err)
	}
	return d, nil
}

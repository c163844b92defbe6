package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/enquiry"
	"github.com/MikeMC777/storefront/internal/events"
	"github.com/MikeMC777/storefront/internal/memstore"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/product"
	"github.com/MikeMC777/storefront/internal/report"
	"github.com/MikeMC777/storefront/internal/user"
)

type env struct {
	st        *memstore.Store
	cart      *cart.Service
	orders    *order.Service
	enquiries *enquiry.Service
	report    *report.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()
	st := memstore.New()
	require.NoError(t, product.NewService(st.Products(), log).Seed(ctx))
	for _, u := range []user.User{
		{ID: "u-1", Email: "ann@example.com", Name: "Ann", Status: user.StatusActive},
		{ID: "u-2", Email: "bob@example.com", Name: "Bob", Status: user.StatusActive},
	} {
		u := u
		require.NoError(t, st.Users().Create(ctx, &u))
	}
	return &env{
		st:        st,
		cart:      cart.NewService(st.Carts(), st.Products(), log),
		orders:    order.NewService(st.Orders(), st.Users(), order.NewMemoryLocker(), events.Nop{}, log),
		enquiries: enquiry.NewService(st.Enquiries(), log),
		report:    report.NewService(st.Orders(), st.Enquiries(), st.Users()),
	}
}

func (e *env) buy(t *testing.T, userID, productID string, qty int) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.cart.AddItem(ctx, userID, productID, qty)
	require.NoError(t, err)
	placed, err := e.orders.PlaceOrder(ctx, userID, &order.ShippingAddress{Address: "1 Main St"}, "", "")
	require.NoError(t, err)
	return placed.OrderID
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	// 5998 + 1499 count as revenue, the cancelled 1799 does not.
	e.buy(t, "u-1", "zeus-whey", 2)
	e.buy(t, "u-1", "hermes-energy", 1)
	cancelled := e.buy(t, "u-2", "athena-focus", 1)
	require.NoError(t, e.orders.UpdateStatus(ctx, cancelled, "cancelled"))

	_, err := e.enquiries.Submit(ctx, enquiry.SubmitRequest{Name: "A", Email: "a@x.io", Message: "m"})
	require.NoError(t, err)
	read, err := e.enquiries.Submit(ctx, enquiry.SubmitRequest{Name: "B", Email: "b@x.io", Message: "m"})
	require.NoError(t, err)
	require.NoError(t, e.enquiries.UpdateStatus(ctx, read.ID, "read"))

	d, err := e.report.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, d.TotalOrders)
	assert.Equal(t, 2, d.PendingOrders)
	assert.True(t, decimal.NewFromInt(7497).Equal(d.TotalRevenue), d.TotalRevenue.String())
	assert.Equal(t, map[order.Status]int{order.StatusPending: 2, order.StatusCancelled: 1}, d.OrdersByStatus)
	assert.Equal(t, 1, d.NewEnquiries)
	assert.Equal(t, map[enquiry.Status]int{enquiry.StatusNew: 1, enquiry.StatusRead: 1}, d.EnquiriesByStatus)
	require.Len(t, d.RecentOrders, 3)
	assert.Equal(t, cancelled, d.RecentOrders[0].ID)
	assert.Len(t, d.RecentEnquiries, 2)
}

func TestRecentListsAreCapped(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	for i := 0; i < 7; i++ {
		e.buy(t, "u-1", "zeus-whey", 1)
		_, err := e.enquiries.Submit(ctx, enquiry.SubmitRequest{Name: "A", Email: "a@x.io", Message: "m"})
		require.NoError(t, err)
	}

	d, err := e.report.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, d.TotalOrders)
	assert.Len(t, d.RecentOrders, 5)
	assert.Len(t, d.RecentEnquiries, 5)

	detail, err := e.report.User(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 7, detail.OrderCount)
	assert.Len(t, detail.RecentOrders, 5)
}

func TestUsersWithStats(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.buy(t, "u-1", "zeus-whey", 1)
	e.buy(t, "u-1", "olympian-tee", 1)

	users, err := e.report.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	byID := map[string]report.UserSummary{}
	for _, u := range users {
		byID[u.ID] = u
	}
	assert.Equal(t, 2, byID["u-1"].OrderCount)
	assert.True(t, decimal.NewFromInt(4998).Equal(byID["u-1"].TotalSpent))
	assert.NotNil(t, byID["u-1"].LastOrderDate)
	assert.Equal(t, 0, byID["u-2"].OrderCount)
	assert.Nil(t, byID["u-2"].LastOrderDate)

	_, err = e.report.User(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeletingUserRemovesTheirOrders(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	id := e.buy(t, "u-1", "zeus-whey", 1)
	e.buy(t, "u-2", "zeus-whey", 1)

	ok, err := e.st.Users().Delete(ctx, "u-1")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = e.orders.AdminGet(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	payments, err := e.orders.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	d, err := e.report.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.TotalOrders)
}

type failingEnquiries struct{ report.Enquiries }

func (failingEnquiries) CountByStatus(context.Context) (map[enquiry.Status]int, error) {
	return nil, errors.New("db down")
}

func (failingEnquiries) List(context.Context, enquiry.Status, int) ([]enquiry.Enquiry, error) {
	return nil, nil
}

func TestDashboardFailureIsInternal(t *testing.T) {
	e := newEnv(t)
	svc := report.NewService(e.st.Orders(), failingEnquiries{}, e.st.Users())
	_, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, apperr.ErrInternal)
}

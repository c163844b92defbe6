package order_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/events"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/pg"
	"github.com/MikeMC777/storefront/internal/user"
)

// pgPool connects to TEST_POSTGRES_DSN and applies the schema. Tests using it
// are skipped when the variable is unset.
func pgPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pg.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pg.Migrate(ctx, pool))
	return pool
}

func pgUser(t *testing.T, users *user.PGRepo) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	require.NoError(t, users.Create(ctx, &user.User{
		ID:           id,
		Email:        id + "@example.com",
		Name:         "PG",
		PasswordHash: "x",
		Status:       user.StatusActive,
	}))
	t.Cleanup(func() { _, _ = users.Delete(context.Background(), id) })
	return id
}

func TestPGCheckout(t *testing.T) {
	ctx := context.Background()
	pool := pgPool(t)
	users := user.NewPGRepo(pool)
	carts := cart.NewPGRepo(pool)
	uid := pgUser(t, users)
	svc := order.NewService(order.NewPGRepo(pool), users, order.NewMemoryLocker(), &events.Recorder{}, zap.NewNop())

	lines := []struct {
		product string
		price   int64
	}{{"olympian-tee", 1999}, {"athena-focus", 1799}, {"zeus-whey", 2999}}
	for _, l := range lines {
		_, err := carts.AddOrIncrement(ctx, &cart.Item{
			ID: uuid.NewString(), UserID: uid, ProductID: l.product, Quantity: 1, Price: decimal.NewFromInt(l.price),
		})
		require.NoError(t, err)
	}

	_, err := carts.AddOrIncrement(ctx, &cart.Item{
		ID: uuid.NewString(), UserID: uid, ProductID: "zeus-whey", Quantity: cart.MaxQuantity, Price: decimal.NewFromInt(2999),
	})
	assert.ErrorIs(t, err, cart.ErrQuantityLimit)

	placed, err := svc.PlaceOrder(ctx, uid, addr(), "pg-key", "")
	require.NoError(t, err)
	assert.False(t, placed.Replayed)

	v, err := svc.AdminGet(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "olympian-tee:1:1999,athena-focus:1:1799,zeus-whey:1:2999", v.ItemSummary)
	assert.True(t, decimal.NewFromInt(6797).Equal(v.Total), v.Total.String())
	require.NotNil(t, v.Payment)
	assert.True(t, v.Total.Equal(v.Payment.Amount))

	left, err := carts.ListByUser(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, left)

	again, err := svc.PlaceOrder(ctx, uid, addr(), "pg-key", "")
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, placed.OrderID, again.OrderID)

	_, err = svc.PlaceOrder(ctx, uid, nil, "", "")
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)

	mine, err := svc.ListForUser(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

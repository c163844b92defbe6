package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/auth"
	"github.com/MikeMC777/storefront/internal/cart"
	"github.com/MikeMC777/storefront/internal/memstore"
	"github.com/MikeMC777/storefront/internal/user"
)

func newService(t *testing.T) (*user.Service, *auth.Issuer, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	is, err := auth.NewIssuer(auth.DomainCustomer, "test-secret", time.Hour)
	require.NoError(t, err)
	return user.NewService(st.Users(), is, 4, zap.NewNop()), is, st
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, is, _ := newService(t)

	res, err := svc.Register(ctx, user.RegisterRequest{Name: " Ann ", Email: " Ann@Example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Equal(t, "Ann", res.User.Name)

	id, err := is.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.UserID)

	_, err = svc.Register(ctx, user.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "pw"})
	assert.ErrorIs(t, err, user.ErrAlreadyExist)
	assert.Equal(t, "email already exists", apperr.Message(err))

	_, err = svc.Register(ctx, user.RegisterRequest{Email: "b@example.com", Password: "pw"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	login, err := svc.Login(ctx, user.LoginRequest{Email: "ANN@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, user.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	_, err = svc.Login(ctx, user.LoginRequest{Email: "nobody@example.com", Password: "pw"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestBlockedUserCannotLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	res, err := svc.Register(ctx, user.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, res.User.ID, "frozen"), apperr.ErrInvalidArgument)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, "missing", "blocked"), apperr.ErrNotFound)
	require.NoError(t, svc.UpdateStatus(ctx, res.User.ID, "blocked"))

	_, err = svc.Login(ctx, user.LoginRequest{Email: "ann@example.com", Password: "pw"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, svc.UpdateStatus(ctx, res.User.ID, "active"))
	_, err = svc.Login(ctx, user.LoginRequest{Email: "ann@example.com", Password: "pw"})
	assert.NoError(t, err)
}

func TestDeleteRemovesCart(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newService(t)

	res, err := svc.Register(ctx, user.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = st.Carts().AddOrIncrement(ctx, &cart.Item{ID: "c-1", UserID: res.User.ID, ProductID: "zeus-whey", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, res.User.ID))
	assert.ErrorIs(t, svc.Delete(ctx, res.User.ID), apperr.ErrNotFound)

	_, err = svc.Get(ctx, res.User.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	items, err := st.Carts().ListByUser(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/admin"
	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/auth"
	"github.com/MikeMC777/storefront/internal/memstore"
)

func TestSeedAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New().Admins()
	is, err := auth.NewIssuer(auth.DomainAdmin, "admin-secret", 8*time.Hour)
	require.NoError(t, err)
	svc := admin.NewService(repo, is, 4, zap.NewNop())

	require.NoError(t, svc.SeedDefault(ctx))
	require.NoError(t, svc.SeedDefault(ctx))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := svc.Login(ctx, admin.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", res.Admin.Username)

	id, err := is.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.DomainAdmin, id.Domain)
	assert.Equal(t, res.Admin.ID, id.SubjectID())

	tests := []admin.LoginRequest{
		{Username: "admin", Password: "nope"},
		{Username: "root", Password: "admin123"},
		{Username: "", Password: ""},
	}
	for _, in := range tests {
		_, err := svc.Login(ctx, in)
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument, in.Username)
	}
}

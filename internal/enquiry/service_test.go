package enquiry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/enquiry"
	"github.com/MikeMC777/storefront/internal/memstore"
)

func TestEnquiryLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := enquiry.NewService(memstore.New().Enquiries(), zap.NewNop())

	_, err := svc.Submit(ctx, enquiry.SubmitRequest{Name: "Ann", Email: "ann@example.com"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	first, err := svc.Submit(ctx, enquiry.SubmitRequest{Name: "Ann", Email: "ann@example.com", Message: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, enquiry.StatusNew, first.Status)
	second, err := svc.Submit(ctx, enquiry.SubmitRequest{Name: "Bob", Email: "bob@example.com", Message: "Hello"})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	assert.ErrorIs(t, svc.UpdateStatus(ctx, first.ID, "archived"), apperr.ErrInvalidArgument)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, "missing", "read"), apperr.ErrNotFound)
	require.NoError(t, svc.UpdateStatus(ctx, first.ID, "replied"))

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, enquiry.StatusReplied, got.Status)
	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	replied, err := svc.List(ctx, "replied")
	require.NoError(t, err)
	require.Len(t, replied, 1)
	assert.Equal(t, first.ID, replied[0].ID)

	_, err = svc.List(ctx, "bogus")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	recent, err := svc.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

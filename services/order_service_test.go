package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quisine/models"
	"quisine/repository"
	"quisine/utils"
)

func newOrders(t *testing.T) (*orderService, *repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewOrderService(store.Orders).(*orderService)
	svc.now = fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return svc, store
}

func couscousOrder(shopID string) models.PlaceOrderInput {
	return models.PlaceOrderInput{
		ShopID: shopID,
		Table:  4,
		Items:  []models.LineItem{{Name: "Couscous Royal", Qty: 2, Price: 35}},
		Total:  float(70),
	}
}

func TestPlaceOrderStartsPendingAndIsRetrievable(t *testing.T) {
	svc, _ := newOrders(t)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, couscousOrder("t1"))
	require.NoError(t, err)

	assert.False(t, order.ID.IsZero())
	assert.Equal(t, models.StatusPending, order.Status)

	got, err := svc.GetOrder(ctx, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "t1", got.UserID)
	assert.Equal(t, 4, got.Table)
	assert.Equal(t, float64(70), got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Couscous Royal", got.Items[0].Name)
	assert.Equal(t, 2, got.Items[0].Qty)
	assert.Equal(t, float64(35), got.Items[0].Price)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, _ := newOrders(t)
	ctx := context.Background()

	cases := map[string]func(in *models.PlaceOrderInput){
		"no shop":       func(in *models.PlaceOrderInput) { in.ShopID = "" },
		"no items":      func(in *models.PlaceOrderInput) { in.Items = nil },
		"zero quantity": func(in *models.PlaceOrderInput) { in.Items[0].Qty = 0 },
		"no total":      func(in *models.PlaceOrderInput) { in.Total = nil },
		"negative":      func(in *models.PlaceOrderInput) { in.Total = float(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := couscousOrder("t1")
			mutate(&in)
			_, err := svc.PlaceOrder(ctx, in)
			assert.ErrorIs(t, err, utils.ErrValidation)
		})
	}
}

func TestGetOrderMissing(t *testing.T) {
	svc, _ := newOrders(t)

	_, err := svc.GetOrder(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.GetOrder(context.Background(), "garbage")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdateStatusFollowsWorkflow(t *testing.T) {
	svc, _ := newOrders(t)
	ctx := context.Background()
	order, err := svc.PlaceOrder(ctx, couscousOrder("t1"))
	require.NoError(t, err)
	id := order.ID.Hex()

	for _, next := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusCompleted} {
		updated, err := svc.UpdateStatus(ctx, "t1", id, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	_, err = svc.UpdateStatus(ctx, "t1", id, models.StatusCancelled)
	assert.ErrorIs(t, err, utils.ErrValidation, "completed is terminal")
}

func TestUpdateStatusRejectsSkipsAndUnknown(t *testing.T) {
	svc, _ := newOrders(t)
	ctx := context.Background()
	order, err := svc.PlaceOrder(ctx, couscousOrder("t1"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "t1", order.ID.Hex(), models.StatusCompleted)
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.UpdateStatus(ctx, "t1", order.ID.Hex(), "served")
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.UpdateStatus(ctx, "other", order.ID.Hex(), models.StatusPreparing)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

// racingOrders moves the order to another status between the read and the write.
type racingOrders struct {
	repository.OrderRepository
}

func (r racingOrders) CompareAndSetStatus(ctx context.Context, tenantID string, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	if _, err := r.OrderRepository.CompareAndSetStatus(ctx, tenantID, id, from, models.StatusCancelled, at); err != nil {
		return nil, err
	}
	return r.OrderRepository.CompareAndSetStatus(ctx, tenantID, id, from, to, at)
}

func TestUpdateStatusLostRaceIsConflict(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOrderService(racingOrders{store.Orders})
	ctx := context.Background()
	order, err := svc.PlaceOrder(ctx, couscousOrder("t1"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "t1", order.ID.Hex(), models.StatusPreparing)

	assert.ErrorIs(t, err, utils.ErrConflict)
	got, err := store.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestDeleteOrderIsIdempotent(t *testing.T) {
	svc, _ := newOrders(t)
	ctx := context.Background()
	order, err := svc.PlaceOrder(ctx, couscousOrder("t1"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, "t1", order.ID.Hex()))
	require.NoError(t, svc.DeleteOrder(ctx, "t1", order.ID.Hex()))

	orders, err := svc.ListOrders(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestDeleteOrderOfAnotherTenantIsNoop(t *testing.T) {
	svc, _ := newOrders(t)
	ctx := context.Background()
	order, err := svc.PlaceOrder(ctx, couscousOrder("t1"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, "t2", order.ID.Hex()))

	orders, err := svc.ListOrders(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

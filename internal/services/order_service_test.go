package services_test

import (
	"context"
	"testing"

	"storefront/internal/database/dbtest"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T, pub *MockPublisher) (*services.OrderService, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	if pub == nil {
		pub = new(MockPublisher)
		pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	}
	return services.NewOrderService(repositories.NewGORMOrderRepository(db), pub), db
}

func twoItemOrder() services.CreateOrderInput {
	return services.CreateOrderInput{
		Total: decimal.NewFromInt(25),
		Items: []services.OrderItemInput{
			{Title: "A", Price: decimal.NewFromInt(10), Quantity: 2},
			{Title: "B", Price: decimal.NewFromInt(5), Quantity: 1},
		},
	}
}

func TestOrderService_CreateStoresSnapshot(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, eventOfType("order.created")).Return(nil).Once()
	service, db := newOrderService(t, pub)
	ctx := context.Background()

	order, err := service.Create(ctx, "user-1", twoItemOrder())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "user-1", order.UserID)
	assert.Len(t, order.Items, 2)

	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(2), items)
	pub.AssertExpectations(t)
}

func TestOrderService_TotalIsStoredAsSubmitted(t *testing.T) {
	service, _ := newOrderService(t, nil)
	ctx := context.Background()

	in := twoItemOrder()
	in.Total = decimal.NewFromInt(1) // items add up to 25
	order, err := service.Create(ctx, "user-1", in)
	require.NoError(t, err)

	stored, err := service.FindOne(ctx, order.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(decimal.NewFromInt(1)))
}

func TestOrderService_CreateValidates(t *testing.T) {
	service, _ := newOrderService(t, nil)
	ctx := context.Background()

	noItems := services.CreateOrderInput{Total: decimal.NewFromInt(1)}
	negativeTotal := twoItemOrder()
	negativeTotal.Total = decimal.NewFromInt(-1)
	zeroQuantity := twoItemOrder()
	zeroQuantity.Items[1].Quantity = 0
	blankTitle := twoItemOrder()
	blankTitle.Items[0].Title = " "

	for _, in := range []services.CreateOrderInput{noItems, negativeTotal, zeroQuantity, blankTitle} {
		_, err := service.Create(ctx, "user-1", in)
		assert.ErrorIs(t, err, services.ErrValidation)
	}
}

func TestOrderService_CreateKeepsCustomStatus(t *testing.T) {
	service, _ := newOrderService(t, nil)

	in := twoItemOrder()
	in.Status = "awaiting-pickup"
	order, err := service.Create(context.Background(), "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatus("awaiting-pickup"), order.Status)
}

func TestOrderService_FindOneOfAnotherUserIsNotFound(t *testing.T) {
	service, _ := newOrderService(t, nil)
	ctx := context.Background()

	order, err := service.Create(ctx, "user-1", twoItemOrder())
	require.NoError(t, err)

	_, err = service.FindOne(ctx, order.ID, "user-2")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestOrderService_ItemsSurviveProductEdits(t *testing.T) {
	service, db := newOrderService(t, nil)
	ctx := context.Background()
	p := createProduct(t, db, "Keychain")

	order, err := service.Create(ctx, "user-1", services.CreateOrderInput{
		Total: p.Price,
		Items: []services.OrderItemInput{{Title: p.Title, Price: p.Price, Quantity: 1, Image: &p.Image}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(p).Update("price", decimal.NewFromInt(99)).Error)

	stored, err := service.FindOne(ctx, order.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, stored.Items[0].Price.Equal(decimal.NewFromInt(10)))
}

func TestOrderService_UpdateStatus(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, eventOfType("order.created")).Return(nil)
	pub.On("Publish", mock.Anything, eventOfType("order.status_updated")).Return(nil).Twice()
	service, _ := newOrderService(t, pub)
	ctx := context.Background()

	order, err := service.Create(ctx, "user-1", twoItemOrder())
	require.NoError(t, err)

	updated, err := service.UpdateStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	// no transition rules: going back is allowed
	updated, err = service.UpdateStatus(ctx, order.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)

	_, err = service.UpdateStatus(ctx, order.ID, "")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = service.UpdateStatus(ctx, "missing", "shipped")
	assert.ErrorIs(t, err, services.ErrNotFound)
	pub.AssertExpectations(t)
}

func TestOrderService_RemoveAndStats(t *testing.T) {
	service, _ := newOrderService(t, nil)
	ctx := context.Background()

	first, err := service.Create(ctx, "user-1", twoItemOrder())
	require.NoError(t, err)
	_, err = service.Create(ctx, "user-2", twoItemOrder())
	require.NoError(t, err)

	stats, err := service.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(50)))

	assert.ErrorIs(t, service.Remove(ctx, first.ID, "user-2"), services.ErrNotFound)
	require.NoError(t, service.Remove(ctx, first.ID, "user-1"))

	orders, err := service.FindByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)

	stats, err = service.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalOrders)
}

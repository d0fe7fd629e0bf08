package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quisine/models"
	"quisine/repository"
	"quisine/utils"
)

var statsNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func newStats(t *testing.T, loc *time.Location) (*statsService, *repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewStatsService(store.Orders, store.Expenses, loc).(*statsService)
	svc.now = fixedClock(statsNow)
	return svc, store
}

func addOrder(t *testing.T, store *repository.Store, tenant string, status models.OrderStatus, at time.Time, items ...models.LineItem) {
	t.Helper()
	var total float64
	for _, li := range items {
		total += float64(li.Qty) * li.Price
	}
	require.NoError(t, store.Orders.Create(context.Background(), &models.Order{
		UserID: tenant, Items: items, Total: total, Status: status, CreatedAt: at, UpdatedAt: at,
	}))
}

func TestDashboardSummaryIgnoresCancelledOrders(t *testing.T) {
	svc, store := newStats(t, time.UTC)
	ctx := context.Background()
	addOrder(t, store, "t1", models.StatusCompleted, statsNow.Add(-time.Hour), models.LineItem{Name: "Tajine", Qty: 1, Price: 10})
	addOrder(t, store, "t1", models.StatusPending, statsNow.Add(-2*time.Hour), models.LineItem{Name: "Brik", Qty: 1, Price: 15})
	addOrder(t, store, "t1", models.StatusCancelled, statsNow.Add(-3*time.Hour), models.LineItem{Name: "Mechoui", Qty: 1, Price: 100})
	addOrder(t, store, "t2", models.StatusCompleted, statsNow, models.LineItem{Name: "Other", Qty: 1, Price: 999})
	_, err := svc.AddExpense(ctx, "t1", models.ExpenseInput{Title: "Flour", Amount: amount(5)})
	require.NoError(t, err)

	stats, err := svc.Dashboard(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, models.StatsSummary{Revenue: 25, Expenses: 5, Profit: 20, Orders: 2}, stats.Summary)
	assert.Equal(t, []models.ExpenseSlice{{Category: models.ExpenseSupplies, Value: 5}}, stats.ExpensesPie)
}

func TestDashboardEmptyTenant(t *testing.T) {
	svc, _ := newStats(t, time.UTC)

	stats, err := svc.Dashboard(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Equal(t, models.StatsSummary{}, stats.Summary)
	assert.Empty(t, stats.ChartData)
	assert.Empty(t, stats.TopItems)
	assert.Empty(t, stats.ExpensesPie)
}

func TestDailyRevenueIsSparseAndBoundedToAWeek(t *testing.T) {
	svc, store := newStats(t, time.UTC)
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	addOrder(t, store, "t1", models.StatusCompleted, day(5), models.LineItem{Name: "A", Qty: 1, Price: 10})
	addOrder(t, store, "t1", models.StatusCompleted, day(5), models.LineItem{Name: "A", Qty: 1, Price: 5})
	addOrder(t, store, "t1", models.StatusReady, day(8), models.LineItem{Name: "B", Qty: 2, Price: 4})
	addOrder(t, store, "t1", models.StatusCompleted, day(1), models.LineItem{Name: "old", Qty: 1, Price: 50})

	stats, err := svc.Dashboard(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, []models.DailyRevenue{
		{Day: "2024-03-05", Revenue: 15},
		{Day: "2024-03-08", Revenue: 8},
	}, stats.ChartData)
}

func TestDailyRevenueUsesShopTimezone(t *testing.T) {
	tunis := time.FixedZone("CET", 3600)
	svc, store := newStats(t, tunis)
	addOrder(t, store, "t1", models.StatusCompleted, time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC), models.LineItem{Name: "A", Qty: 1, Price: 10})

	stats, err := svc.Dashboard(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, []models.DailyRevenue{{Day: "2024-03-10", Revenue: 10}}, stats.ChartData)
}

func TestTopItemsRankByQuantity(t *testing.T) {
	svc, store := newStats(t, time.UTC)
	at := statsNow.Add(-time.Hour)
	addOrder(t, store, "t1", models.StatusCompleted, at, models.LineItem{Name: "Burger", Qty: 3, Price: 10}, models.LineItem{Name: "Fries", Qty: 6, Price: 3})
	addOrder(t, store, "t1", models.StatusPending, at, models.LineItem{Name: "Burger", Qty: 5, Price: 10}, models.LineItem{Name: "Fries", Qty: 4, Price: 3})
	addOrder(t, store, "t1", models.StatusCancelled, at, models.LineItem{Name: "Burger", Qty: 50, Price: 10})

	stats, err := svc.Dashboard(context.Background(), "t1")
	require.NoError(t, err)

	require.Len(t, stats.TopItems, 2)
	assert.Equal(t, models.TopItem{Name: "Fries", Count: 10, Sales: 30}, stats.TopItems[0])
	assert.Equal(t, models.TopItem{Name: "Burger", Count: 8, Sales: 80}, stats.TopItems[1])
}

func TestTopItemsLimitedToFive(t *testing.T) {
	svc, store := newStats(t, time.UTC)
	var items []models.LineItem
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		items = append(items, models.LineItem{Name: name, Qty: i + 1, Price: 1})
	}
	addOrder(t, store, "t1", models.StatusCompleted, statsNow, items...)

	stats, err := svc.Dashboard(context.Background(), "t1")
	require.NoError(t, err)

	require.Len(t, stats.TopItems, 5)
	assert.Equal(t, "g", stats.TopItems[0].Name)
}

func TestAddExpenseValidation(t *testing.T) {
	svc, _ := newStats(t, time.UTC)
	ctx := context.Background()

	_, err := svc.AddExpense(ctx, "t1", models.ExpenseInput{Title: "", Amount: amount(1)})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.AddExpense(ctx, "t1", models.ExpenseInput{Title: "Rent", Amount: amount(1), Category: "Bribes"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	e, err := svc.AddExpense(ctx, "t1", models.ExpenseInput{Title: "Rent", Amount: amount(800), Category: models.ExpenseRent})
	require.NoError(t, err)
	assert.Equal(t, statsNow, e.Date)

	list, err := svc.ListExpenses(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddExpenseDayInShopTimezone(t *testing.T) {
	tunis := time.FixedZone("CET", 3600)
	svc, _ := newStats(t, tunis)
	ctx := context.Background()

	e, err := svc.AddExpense(ctx, "t1", models.ExpenseInput{Title: "Tomatoes", Amount: amount(12.5), Date: "2024-05-01"})
	require.NoError(t, err)
	assert.True(t, e.Date.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, tunis)), e.Date)
	assert.Equal(t, 12.5, e.Amount)

	_, err = svc.AddExpense(ctx, "t1", models.ExpenseInput{Title: "Tomatoes", Amount: amount(1), Date: "yesterday"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.AddExpense(ctx, "t1", models.ExpenseInput{Title: "Refund", Amount: amount(-4)})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

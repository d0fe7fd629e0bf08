package services

import (
	"context"
	"strings"
	"time"

	"quisine/models"
	"quisine/repository"
	"quisine/utils"
)

const (
	chartWindow    = 7 * 24 * time.Hour
	topItemsLimit  = 5
	recentExpenses = 20
)

type StatsService interface {
	Dashboard(ctx context.Context, tenantID string) (*models.DashboardStats, error)
	ListExpenses(ctx context.Context, tenantID string) ([]models.Expense, error)
	AddExpense(ctx context.Context, tenantID string, in models.ExpenseInput) (*models.Expense, error)
}

type statsService struct {
	orders   repository.OrderRepository
	expenses repository.ExpenseRepository
	loc      *time.Location
	now      func() time.Time
}

// NewStatsService groups the revenue chart by calendar day in loc.
func NewStatsService(orders repository.OrderRepository, expenses repository.ExpenseRepository, loc *time.Location) StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statsService{orders: orders, expenses: expenses, loc: loc, now: time.Now}
}

// Dashboard is recomputed from the raw orders and expenses on every call.
func (s *statsService) Dashboard(ctx context.Context, tenantID string) (*models.DashboardStats, error) {
	revenue, count, err := s.orders.RevenueSummary(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	spent, err := s.expenses.Total(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	chart, err := s.orders.DailyRevenue(ctx, tenantID, s.now().Add(-chartWindow), s.loc)
	if err != nil {
		return nil, err
	}
	pie, err := s.expenses.ByCategory(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	top, err := s.orders.TopItems(ctx, tenantID, topItemsLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		Summary: models.StatsSummary{
			Revenue:  revenue,
			Expenses: spent,
			Profit:   revenue - spent,
			Orders:   count,
		},
		ChartData:   chart,
		ExpensesPie: pie,
		TopItems:    top,
	}, nil
}

func (s *statsService) ListExpenses(ctx context.Context, tenantID string) ([]models.Expense, error) {
	return s.expenses.ListRecent(ctx, tenantID, recentExpenses)
}

func (s *statsService) AddExpense(ctx context.Context, tenantID string, in models.ExpenseInput) (*models.Expense, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, utils.Invalid("Title is required")
	}
	if in.Amount == nil || *in.Amount < 0 {
		return nil, utils.Invalid("Amount must be zero or more")
	}
	category := in.Category
	if category == "" {
		category = models.ExpenseSupplies
	}
	if !category.Valid() {
		return nil, utils.Invalid("Unknown expense category %q", category)
	}

	now := s.now()
	date := now
	day, err := in.Date.Resolve(s.loc)
	if err != nil {
		return nil, utils.Invalid("Date must be YYYY-MM-DD or an RFC 3339 timestamp")
	}
	if !day.IsZero() {
		date = day
	}
	expense := &models.Expense{
		UserID:    tenantID,
		Title:     title,
		Amount:    float64(*in.Amount),
		Category:  category,
		Date:      date,
		CreatedAt: now,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

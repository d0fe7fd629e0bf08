package models

// The json names below are what the dashboard charts bind to.

type StatsSummary struct {
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
	Orders   int64   `json:"orders"`
}

type DailyRevenue struct {
	Day     string  `bson:"_id" json:"_id"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

type ExpenseSlice struct {
	Category ExpenseCategory `bson:"_id" json:"_id"`
	Value    float64         `bson:"value" json:"value"`
}

type TopItem struct {
	Name  string  `bson:"_id" json:"_id"`
	Count int64   `bson:"count" json:"count"`
	Sales float64 `bson:"sales" json:"sales"`
}

type DashboardStats struct {
	Summary     StatsSummary   `json:"summary"`
	ChartData   []DailyRevenue `json:"chartData"`
	ExpensesPie []ExpenseSlice `json:"expensesPie"`
	TopItems    []TopItem      `json:"topItems"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExpenseCategory string

const (
	ExpenseSupplies    ExpenseCategory = "Supplies"
	ExpenseRent        ExpenseCategory = "Rent"
	ExpenseUtilities   ExpenseCategory = "Utilities"
	ExpenseSalaries    ExpenseCategory = "Salaries"
	ExpenseMaintenance ExpenseCategory = "Maintenance"
	ExpenseOther       ExpenseCategory = "Other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseSupplies, ExpenseRent, ExpenseUtilities, ExpenseSalaries, ExpenseMaintenance, ExpenseOther:
		return true
	}
	return false
}

type Expense struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Amount    float64            `bson:"amount" json:"amount"`
	Category  ExpenseCategory    `bson:"category" json:"category"`
	Date      time.Time          `bson:"date" json:"date"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quisine/models"
)

type mongoExpenses struct {
	coll *mongo.Collection
}

func NewMongoExpenseRepository(coll *mongo.Collection) ExpenseRepository {
	return &mongoExpenses{coll: coll}
}

func (r *mongoExpenses) Create(ctx context.Context, e *models.Expense) error {
	res, err := r.coll.InsertOne(ctx, e)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid
	}
	return nil
}

func (r *mongoExpenses) ListRecent(ctx context.Context, tenantID string, limit int64) ([]models.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"userId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	expenses := []models.Expense{}
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *mongoExpenses) Total(ctx context.Context, tenantID string) (float64, error) {
	cursor, err := r.coll.Aggregate(ctx, expenseTotalPipeline(tenantID))
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *mongoExpenses) ByCategory(ctx context.Context, tenantID string) ([]models.ExpenseSlice, error) {
	cursor, err := r.coll.Aggregate(ctx, expenseByCategoryPipeline(tenantID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	slices := []models.ExpenseSlice{}
	if err := cursor.All(ctx, &slices); err != nil {
		return nil, err
	}
	return slices, nil
}

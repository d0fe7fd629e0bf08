package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quisine/models"
)

type mongoOrders struct {
	coll *mongo.Collection
}

func NewMongoOrderRepository(coll *mongo.Collection) OrderRepository {
	return &mongoOrders{coll: coll}
}

func (r *mongoOrders) Create(ctx context.Context, order *models.Order) error {
	res, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (r *mongoOrders) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, translateReadError(err)
	}
	return &order, nil
}

func (r *mongoOrders) ListByTenant(ctx context.Context, tenantID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrders) CompareAndSetStatus(ctx context.Context, tenantID string, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	filter := bson.M{"_id": id, "userId": tenantID, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order); err != nil {
		return nil, translateReadError(err)
	}
	return &order, nil
}

func (r *mongoOrders) Delete(ctx context.Context, tenantID string, id primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": tenantID})
	return err
}

func (r *mongoOrders) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	var rows []struct {
		Status models.OrderStatus `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}
	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *mongoOrders) RevenueSummary(ctx context.Context, tenantID string) (float64, int64, error) {
	var rows []struct {
		Revenue float64 `bson:"revenue"`
		Orders  int64   `bson:"orders"`
	}
	if err := r.aggregate(ctx, revenueSummaryPipeline(tenantID), &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Revenue, rows[0].Orders, nil
}

func (r *mongoOrders) DailyRevenue(ctx context.Context, tenantID string, since time.Time, loc *time.Location) ([]models.DailyRevenue, error) {
	days := []models.DailyRevenue{}
	if err := r.aggregate(ctx, dailyRevenuePipeline(tenantID, since, loc), &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (r *mongoOrders) TopItems(ctx context.Context, tenantID string, limit int) ([]models.TopItem, error) {
	items := []models.TopItem{}
	if err := r.aggregate(ctx, topItemsPipeline(tenantID, limit), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoOrders) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

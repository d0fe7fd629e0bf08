package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"quisine/models"
)

// billableOrders matches the tenant's orders that count towards revenue.
func billableOrders(tenantID string) bson.D {
	return bson.D{
		{Key: "userId", Value: tenantID},
		{Key: "status", Value: bson.D{{Key: "$ne", Value: models.StatusCancelled}}},
	}
}

func revenueSummaryPipeline(tenantID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: billableOrders(tenantID)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
			{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

func dailyRevenuePipeline(tenantID string, since time.Time, loc *time.Location) mongo.Pipeline {
	match := append(billableOrders(tenantID), bson.E{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}})
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$createdAt"},
				{Key: "timezone", Value: loc.String()},
			}}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// topItemsPipeline ranks line items by quantity sold. Items are keyed by name, so two menu
// items sharing a name are reported together.
func topItemsPipeline(tenantID string, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: billableOrders(tenantID)}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$items.name"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: "$items.qty"}}},
			{Key: "sales", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$items.qty", "$items.price"}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func expenseTotalPipeline(tenantID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: tenantID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
}

func expenseByCategoryPipeline(tenantID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: tenantID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "value", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
}

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ShopCollectionName    = "shops"
	MenuCollectionName    = "menus"
	OrderCollectionName   = "orders"
	ExpenseCollectionName = "expenses"
)

type Database struct {
	Client *mongo.Client
	DB     *mongo.Database

	ShopCollection    *mongo.Collection
	MenuCollection    *mongo.Collection
	OrderCollection   *mongo.Collection
	ExpenseCollection *mongo.Collection

	// SupportsTransactions is true when connected to a replica set or mongos.
	SupportsTransactions bool
}

func ConnectDatabase(uri, dbName string) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	d := &Database{
		Client:            client,
		DB:                db,
		ShopCollection:    db.Collection(ShopCollectionName),
		MenuCollection:    db.Collection(MenuCollectionName),
		OrderCollection:   db.Collection(OrderCollectionName),
		ExpenseCollection: db.Collection(ExpenseCollectionName),
	}
	d.SupportsTransactions = detectTransactions(ctx, db)

	if err := d.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	log.Info().Str("db", dbName).Bool("transactions", d.SupportsTransactions).Msg("Connected to MongoDB")
	return d, nil
}

func detectTransactions(ctx context.Context, db *mongo.Database) bool {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		log.Warn().Err(err).Msg("hello command failed, assuming standalone server")
		return false
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid"
}

// EnsureIndexes creates the uniqueness and lookup indexes the repositories rely on.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	specs := map[*mongo.Collection][]mongo.IndexModel{
		d.ShopCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		d.MenuCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "categories._id", Value: 1}}},
		},
		d.OrderCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		d.ExpenseCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
		},
	}
	for coll, models := range specs {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (d *Database) Disconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
}

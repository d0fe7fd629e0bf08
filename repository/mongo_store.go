package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"quisine/config"
)

type mongoTx struct {
	client    *mongo.Client
	supported bool
}

func (t *mongoTx) Supported() bool { return t.supported }

func (t *mongoTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// NewMongoStore wires every repository to its collection.
func NewMongoStore(db *config.Database) *Store {
	return &Store{
		Shops:    NewMongoShopRepository(db.ShopCollection),
		Menus:    NewMongoMenuRepository(db.MenuCollection),
		Orders:   NewMongoOrderRepository(db.OrderCollection),
		Expenses: NewMongoExpenseRepository(db.ExpenseCollection),
		Tx:       &mongoTx{client: db.Client, supported: db.SupportsTransactions},
	}
}

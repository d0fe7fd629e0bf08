package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quisine/models"
)

// itemPath addresses one item through the "cat" and "item" array filters.
const itemPath = "categories.$[cat].items.$[item]."

type mongoMenus struct {
	coll *mongo.Collection
}

func NewMongoMenuRepository(coll *mongo.Collection) MenuRepository {
	return &mongoMenus{coll: coll}
}

func (r *mongoMenus) Create(ctx context.Context, menu *models.Menu) error {
	if menu.Categories == nil {
		menu.Categories = []models.Category{}
	}
	res, err := r.coll.InsertOne(ctx, menu)
	if err != nil {
		return translateWriteError(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		menu.ID = oid
	}
	return nil
}

func (r *mongoMenus) DeleteByTenant(ctx context.Context, tenantID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"userId": tenantID})
	return err
}

func (r *mongoMenus) FindByTenant(ctx context.Context, tenantID string) (*models.Menu, error) {
	var menu models.Menu
	if err := r.coll.FindOne(ctx, bson.M{"userId": tenantID}).Decode(&menu); err != nil {
		return nil, translateReadError(err)
	}
	return &menu, nil
}

func (r *mongoMenus) GetOrCreate(ctx context.Context, tenantID string) (*models.Menu, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": bson.M{"userId": tenantID, "categories": bson.A{}}}

	var menu models.Menu
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": tenantID}, update, opts).Decode(&menu)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent upsert won the race on the unique index.
		return r.FindByTenant(ctx, tenantID)
	}
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *mongoMenus) AddCategory(ctx context.Context, tenantID string, cat models.Category) (*models.Menu, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var menu models.Menu
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"userId": tenantID},
		bson.M{"$push": bson.M{"categories": cat}},
		opts,
	).Decode(&menu)
	if err != nil {
		return nil, translateReadError(err)
	}
	return &menu, nil
}

func (r *mongoMenus) DeleteCategory(ctx context.Context, tenantID string, categoryID primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		categoryFilter(tenantID, categoryID),
		bson.M{"$pull": bson.M{"categories": bson.M{"_id": categoryID}}},
	)
	return err
}

func (r *mongoMenus) AddItem(ctx context.Context, tenantID string, categoryID primitive.ObjectID, item models.Item) error {
	res, err := r.coll.UpdateOne(ctx,
		categoryFilter(tenantID, categoryID),
		bson.M{"$push": bson.M{"categories.$.items": item}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoMenus) FindItem(ctx context.Context, tenantID string, categoryID, itemID primitive.ObjectID) (*models.Item, error) {
	opts := options.FindOne().SetProjection(bson.M{"userId": 1, "categories.$": 1})
	var menu models.Menu
	if err := r.coll.FindOne(ctx, itemFilter(tenantID, categoryID, itemID), opts).Decode(&menu); err != nil {
		return nil, translateReadError(err)
	}
	item, ok := menu.FindItem(categoryID, itemID)
	if !ok {
		return nil, ErrNotFound
	}
	return item, nil
}

func (r *mongoMenus) UpdateItem(ctx context.Context, tenantID string, categoryID, itemID primitive.ObjectID, u models.ItemUpdate) error {
	return r.updateItem(ctx, tenantID, categoryID, itemID, itemUpdateDoc(u))
}

func (r *mongoMenus) SetItemAvailability(ctx context.Context, tenantID string, categoryID, itemID primitive.ObjectID, available bool) error {
	return r.updateItem(ctx, tenantID, categoryID, itemID, bson.M{"$set": bson.M{itemPath + "available": available}})
}

func (r *mongoMenus) updateItem(ctx context.Context, tenantID string, categoryID, itemID primitive.ObjectID, update bson.M) error {
	opts := options.Update().SetArrayFilters(itemArrayFilters(categoryID, itemID))
	res, err := r.coll.UpdateOne(ctx, itemFilter(tenantID, categoryID, itemID), update, opts)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoMenus) DeleteItem(ctx context.Context, tenantID string, categoryID, itemID primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		categoryFilter(tenantID, categoryID),
		bson.M{"$pull": bson.M{"categories.$.items": bson.M{"_id": itemID}}},
	)
	return err
}

func categoryFilter(tenantID string, categoryID primitive.ObjectID) bson.M {
	return bson.M{"userId": tenantID, "categories._id": categoryID}
}

// itemFilter only matches a menu whose *same* category element holds the item.
func itemFilter(tenantID string, categoryID, itemID primitive.ObjectID) bson.M {
	return bson.M{
		"userId": tenantID,
		"categories": bson.M{"$elemMatch": bson.M{
			"_id":       categoryID,
			"items._id": itemID,
		}},
	}
}

func itemArrayFilters(categoryID, itemID primitive.ObjectID) options.ArrayFilters {
	return options.ArrayFilters{Filters: []interface{}{
		bson.M{"cat._id": categoryID},
		bson.M{"item._id": itemID},
	}}
}

func itemUpdateDoc(u models.ItemUpdate) bson.M {
	set := bson.M{
		itemPath + "name":        u.Name,
		itemPath + "baseprice":   u.BasePrice,
		itemPath + "description": u.Description,
		itemPath + "time":        u.Time,
	}
	if u.Img != nil {
		set[itemPath+"img"] = *u.Img
	}
	if u.Modifiers != nil {
		set[itemPath+"modifiers"] = u.Modifiers
	}
	return bson.M{"$set": set}
}

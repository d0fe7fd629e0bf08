package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quisine/models"
)

type mongoShops struct {
	coll *mongo.Collection
}

func NewMongoShopRepository(coll *mongo.Collection) ShopRepository {
	return &mongoShops{coll: coll}
}

func (r *mongoShops) Create(ctx context.Context, shop *models.Shop) error {
	if shop.Staff == nil {
		shop.Staff = []models.Staff{}
	}
	res, err := r.coll.InsertOne(ctx, shop)
	if err != nil {
		return translateWriteError(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		shop.ID = oid
	}
	return nil
}

func (r *mongoShops) DeleteByTenant(ctx context.Context, tenantID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"userId": tenantID})
	return err
}

func (r *mongoShops) FindByTenant(ctx context.Context, tenantID string) (*models.Shop, error) {
	return r.findOne(ctx, bson.M{"userId": tenantID})
}

func (r *mongoShops) FindByEmail(ctx context.Context, email string) (*models.Shop, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoShops) findOne(ctx context.Context, filter bson.M) (*models.Shop, error) {
	var shop models.Shop
	if err := r.coll.FindOne(ctx, filter).Decode(&shop); err != nil {
		return nil, translateReadError(err)
	}
	return &shop, nil
}

func (r *mongoShops) UpdateProfile(ctx context.Context, tenantID string, u models.ShopProfileUpdate) (*models.Shop, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var shop models.Shop
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": tenantID}, profileUpdateDoc(u, time.Now()), opts).Decode(&shop)
	if err != nil {
		return nil, translateReadError(err)
	}
	return &shop, nil
}

func profileUpdateDoc(u models.ShopProfileUpdate, at time.Time) bson.M {
	set := bson.M{"updatedAt": at}
	fields := map[string]*string{
		"shopname":       u.ShopName,
		"address":        u.Address,
		"contactphone":   u.ContactPhone,
		"primarycolor":   u.PrimaryColor,
		"secondarycolor": u.SecondaryColor,
		"logo":           u.Logo,
		"cover":          u.Cover,
	}
	for key, v := range fields {
		if v != nil {
			set[key] = *v
		}
	}
	return bson.M{"$set": set}
}

// AddStaff guards the push with the PIN so the uniqueness check and the write are one
// atomic single-document update.
func (r *mongoShops) AddStaff(ctx context.Context, tenantID string, staff models.Staff) ([]models.Staff, error) {
	filter, update := addStaffDoc(tenantID, staff)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var shop models.Shop
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&shop)
	if err == nil {
		return shop.Staff, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Either the shop is unknown or the PIN is taken.
	n, cerr := r.coll.CountDocuments(ctx, bson.M{"userId": tenantID})
	if cerr != nil {
		return nil, cerr
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrDuplicateKey
}

func addStaffDoc(tenantID string, staff models.Staff) (bson.M, bson.M) {
	filter := bson.M{"userId": tenantID, "staff.pin": bson.M{"$ne": staff.Pin}}
	update := bson.M{
		"$push": bson.M{"staff": staff},
		"$set":  bson.M{"updatedAt": staff.CreatedAt},
	}
	return filter, update
}

func (r *mongoShops) RemoveStaff(ctx context.Context, tenantID string, staffID primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": tenantID},
		bson.M{"$pull": bson.M{"staff": bson.M{"_id": staffID}}},
	)
	return err
}

func translateReadError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func translateWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

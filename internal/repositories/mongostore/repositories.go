package mongostore

import (
	"context"
	"strings"
	"time"

	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	user.EnsureID()
	user.Touch(r.now())
	_, err := r.coll.InsertOne(ctx, user)
	return translate(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"email": strings.ToLower(email)})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{
		"reset_password_token":  tokenHash,
		"reset_password_expire": bson.M{"$gt": now},
	})
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	user.Touch(r.now())
	return replaceByID(ctx, r.coll, user.ID, user)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *UserRepository) List(ctx context.Context, filter repositories.UserFilter) ([]models.User, int64, error) {
	q := bson.M{}
	if filter.Keyword != "" {
		rx := containsRegex(filter.Keyword)
		q["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
	}
	if filter.Role != "" {
		q["role"] = filter.Role
	}
	return list[models.User](ctx, r.coll, q, filter.Pagination)
}

type ProductRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.EnsureID()
	product.Touch(r.now())
	_, err := r.coll.InsertOne(ctx, product)
	return translate(err)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return findOne[models.Product](ctx, r.coll, bson.M{"_id": id})
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.Touch(r.now())
	return replaceByID(ctx, r.coll, product.ID, product)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *ProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	q := bson.M{}
	if filter.Keyword != "" {
		q["name"] = containsRegex(filter.Keyword)
	}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}
	return list[models.Product](ctx, r.coll, q, filter.Pagination)
}

func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	if delta == 0 {
		return nil
	}

	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": r.now()},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	found, err := exists(ctx, r.coll, id)
	if err != nil {
		return err
	}
	if !found {
		return repositories.ErrNotFound
	}
	return repositories.ErrInsufficientStock
}

type OrderRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	order.EnsureID()
	order.Touch(r.now())
	_, err := r.coll.InsertOne(ctx, order)
	return translate(err)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	return findOne[models.Order](ctx, r.coll, bson.M{"_id": id})
}

func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	order.Touch(r.now())
	return replaceByID(ctx, r.coll, order.ID, order)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *OrderRepository) List(ctx context.Context, filter repositories.OrderFilter) ([]models.Order, int64, error) {
	q := bson.M{}
	if filter.UserID != "" {
		q["user"] = filter.UserID
	}
	if filter.Status != "" {
		q["order_status"] = filter.Status
	}
	return list[models.Order](ctx, r.coll, q, filter.Pagination)
}

type CouponRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (r *CouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	coupon.EnsureID()
	coupon.Touch(r.now())
	_, err := r.coll.InsertOne(ctx, coupon)
	return translate(err)
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, r.coll, bson.M{"_id": id})
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, r.coll, bson.M{"code": strings.ToUpper(code)})
}

func (r *CouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	coupon.Touch(r.now())
	return replaceByID(ctx, r.coll, coupon.ID, coupon)
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *CouponRepository) List(ctx context.Context, filter repositories.CouponFilter) ([]models.Coupon, int64, error) {
	q := bson.M{}
	if filter.Active != nil {
		q["active"] = *filter.Active
	}
	return list[models.Coupon](ctx, r.coll, q, filter.Pagination)
}

func (r *CouponRepository) IncrementUsage(ctx context.Context, id string) error {
	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"max_uses": 0},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$used_count", "$max_uses"}}},
		},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"used_count": 1}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	found, err := exists(ctx, r.coll, id)
	if err != nil {
		return err
	}
	if !found {
		return repositories.ErrNotFound
	}
	return repositories.ErrCouponExhausted
}

func (r *CouponRepository) DecrementUsage(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "used_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"used_count": -1}},
	)
	return translate(err)
}

type SubscriptionRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	sub.EnsureID()
	sub.Touch(r.now())
	_, err := r.coll.InsertOne(ctx, sub)
	return translate(err)
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	return findOne[models.Subscription](ctx, r.coll, bson.M{"_id": id})
}

func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error) {
	return findOne[models.Subscription](ctx, r.coll,
		bson.M{
			"user":     userID,
			"status":   models.SubscriptionStatusActive,
			"end_date": bson.M{"$gt": now},
		},
		options.FindOne().SetSort(bson.D{{Key: "end_date", Value: -1}}),
	)
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	sub.Touch(r.now())
	return replaceByID(ctx, r.coll, sub.ID, sub)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *SubscriptionRepository) List(ctx context.Context, filter repositories.SubscriptionFilter) ([]models.Subscription, int64, error) {
	q := bson.M{}
	if filter.UserID != "" {
		q["user"] = filter.UserID
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	return list[models.Subscription](ctx, r.coll, q, filter.Pagination)
}

func (r *SubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"status": models.SubscriptionStatusActive, "end_date": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": models.SubscriptionStatusExpired, "updated_at": now}},
	)
	if err != nil {
		return 0, translate(err)
	}
	return res.ModifiedCount, nil
}

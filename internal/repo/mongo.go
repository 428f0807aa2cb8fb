package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	errx "github.com/kdsmedia/altoshopbot/internal/core/error"
	"github.com/kdsmedia/altoshopbot/internal/model"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens and pings a MongoDB connection.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, client.Database(database), nil
}

// MongoStore implements model.Store on MongoDB collections. Voucher redemption
// and order creation run inside multi-document transactions; the daily bonus
// guard is a single conditional update.
type MongoStore struct {
	client   *mongo.Client
	users    *mongo.Collection
	products *mongo.Collection
	orders   *mongo.Collection
	vouchers *mongo.Collection
	adminID  string
}

// NewMongoStore wires the store to its collections. adminID is the one chat id
// that receives the admin role at profile creation.
func NewMongoStore(client *mongo.Client, db *mongo.Database, adminID string) *MongoStore {
	return &MongoStore{
		client:   client,
		users:    db.Collection("users"),
		products: db.Collection("products"),
		orders:   db.Collection("orders"),
		vouchers: db.Collection("vouchers"),
		adminID:  adminID,
	}
}

func newReferralCode() string {
	return "ALTO" + strings.ToUpper(uuid.NewString()[:6])
}

func (s *MongoStore) GetOrCreateUser(ctx context.Context, userID string) (*model.User, error) {
	role := model.RoleUser
	if userID == s.adminID {
		role = model.RoleAdmin
	}

	// Upsert keeps first contact atomic so two racing messages from a brand-new
	// user cannot create two profiles.
	filter := bson.M{"_id": userID}
	update := bson.M{"$setOnInsert": bson.M{
		"role":             role,
		"balance":          int64(0),
		"cart":             []model.CartItem{},
		"claimed_vouchers": []string{},
		"referral_code":    newReferralCode(),
		"created_at":       time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var u model.User
	if err := s.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to get or create user")
		return nil, errx.WrapMongo(err)
	}
	return &u, nil
}

func (s *MongoStore) UpdateCart(ctx context.Context, userID string, cart []model.CartItem) error {
	if cart == nil {
		cart = []model.CartItem{}
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"cart": cart}})
	if err != nil {
		return errx.WrapMongo(err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (s *MongoStore) ClearCart(ctx context.Context, userID string) error {
	return s.UpdateCart(ctx, userID, nil)
}

func (s *MongoStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	cursor, err := s.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, errx.WrapMongo(err)
	}

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, errx.WrapMongo(err)
	}
	return products, nil
}

func (s *MongoStore) CreateProduct(ctx context.Context, p model.Product) (string, error) {
	p.ID = uuid.NewString()
	if _, err := s.products.InsertOne(ctx, p); err != nil {
		return "", errx.WrapMongo(err)
	}
	return p.ID, nil
}

func (s *MongoStore) CreateOrder(ctx context.Context, order model.Order) (string, error) {
	order.ID = uuid.NewString()

	session, err := s.client.StartSession()
	if err != nil {
		return "", errx.Internal(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := s.orders.InsertOne(sc, order); err != nil {
			return nil, fmt.Errorf("failed to insert order: %w", err)
		}
		if _, err := s.users.UpdateOne(sc,
			bson.M{"_id": order.UserID},
			bson.M{"$set": bson.M{"cart": []model.CartItem{}}},
		); err != nil {
			return nil, fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return "", err
	}

	logx.Info().Str("orderID", order.ID).Str("userID", order.UserID).Int64("total", order.Total).Msg("order created")
	return order.ID, nil
}

func (s *MongoStore) ListRecentOrders(ctx context.Context, n int) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(n))
	cursor, err := s.orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errx.WrapMongo(err)
	}

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, errx.WrapMongo(err)
	}
	return orders, nil
}

func (s *MongoStore) ListUserIDs(ctx context.Context) ([]string, error) {
	raw, err := s.users.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, errx.WrapMongo(err)
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *MongoStore) ClaimDailyBonus(ctx context.Context, userID string, amount int64, dayStart, now time.Time) error {
	filter := bson.M{
		"_id": userID,
		"$or": bson.A{
			bson.M{"last_bonus_claim": bson.M{"$exists": false}},
			bson.M{"last_bonus_claim": nil},
			bson.M{"last_bonus_claim": bson.M{"$lt": dayStart}},
		},
	}
	update := bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{"last_bonus_claim": now},
	}

	res, err := s.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return errx.WrapMongo(err)
	}
	if res.ModifiedCount == 0 {
		// The guard filter also rejects missing users, so tell the two cases
		// apart before reporting a repeat claim.
		n, err := s.users.CountDocuments(ctx, bson.M{"_id": userID})
		if err != nil {
			return errx.WrapMongo(err)
		}
		if n == 0 {
			return model.ErrUserNotFound
		}
		return model.ErrBonusClaimed
	}
	return nil
}

func (s *MongoStore) RedeemVoucher(ctx context.Context, userID, code string) (*model.Voucher, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, errx.Internal(err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		var v model.Voucher
		if err := s.vouchers.FindOne(sc, bson.M{"code": code}).Decode(&v); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, model.ErrVoucherNotFound
			}
			return nil, errx.WrapMongo(err)
		}
		if v.Quantity <= 0 {
			return nil, model.ErrVoucherExhausted
		}

		// Guard both ends with conditional updates so the race loses cleanly:
		// a second claimer fails the $ne filter, a last-unit race fails $gt.
		userRes, err := s.users.UpdateOne(sc,
			bson.M{"_id": userID, "claimed_vouchers": bson.M{"$ne": code}},
			bson.M{
				"$inc":  bson.M{"balance": v.Amount},
				"$push": bson.M{"claimed_vouchers": code},
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to credit user: %w", err)
		}
		if userRes.ModifiedCount == 0 {
			return nil, model.ErrVoucherClaimed
		}

		vRes, err := s.vouchers.UpdateOne(sc,
			bson.M{"code": code, "quantity": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"quantity": -1}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement voucher: %w", err)
		}
		if vRes.ModifiedCount == 0 {
			return nil, model.ErrVoucherExhausted
		}

		return &v, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*model.Voucher), nil
}

var _ model.Store = (*MongoStore)(nil)

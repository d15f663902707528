package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notehub/notehub-api/internal/core/domain"
)

const userCollection = "users"

// UserRepository is the mongo-backed credential store.
type UserRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewUserRepository(db *mongo.Database, timeout time.Duration) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection), timeout: timeout}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Role:         mu.Role,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

// EnsureIndexes creates the unique indexes on username and email.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return translate(err, nil)
}

// Create inserts a user, reporting username/email collisions field by field
// as a ConflictError. The unique indexes close the race between the
// pre-check and the insert.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	var msgs []string
	if err := r.coll.FindOne(ctx, bson.M{"username": user.Username}).Err(); err == nil {
		msgs = append(msgs, "username already taken")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err, nil)
	}
	if err := r.coll.FindOne(ctx, bson.M{"email": user.Email}).Err(); err == nil {
		msgs = append(msgs, "email already registered")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err, nil)
	}
	if len(msgs) > 0 {
		return nil, &domain.ConflictError{Messages: msgs}
	}

	doc := mongoUser{
		ID:           primitive.NewObjectID(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewConflictError("username or email already registered")
		}
		return nil, translate(err, nil)
	}

	created := *user
	created.ID = doc.ID.Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// UpdateProfile changes username and email, failing with a ConflictError
// when either value belongs to another account.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, username, email string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	var msgs []string
	if err := r.coll.FindOne(ctx, bson.M{"username": username, "_id": bson.M{"$ne": oid}}).Err(); err == nil {
		msgs = append(msgs, "username already taken")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err, nil)
	}
	if err := r.coll.FindOne(ctx, bson.M{"email": email, "_id": bson.M{"$ne": oid}}).Err(); err == nil {
		msgs = append(msgs, "email already registered")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err, nil)
	}
	if len(msgs) > 0 {
		return nil, &domain.ConflictError{Messages: msgs}
	}

	update := bson.M{"$set": bson.M{
		"username":   username,
		"email":      email,
		"updated_at": time.Now().UTC().Unix(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		return nil, translate(err, domain.ErrUserNotFound)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, translate(err, nil)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, translate(err, nil)
		}
		users = append(users, *mu.toDomain())
	}
	return users, translate(cur.Err(), nil)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		return nil, translate(err, domain.ErrUserNotFound)
	}
	return mu.toDomain(), nil
}

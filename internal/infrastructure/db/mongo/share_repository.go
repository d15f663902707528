package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notehub/notehub-api/internal/core/domain"
)

const shareCollection = "shares"

// ShareRepository is the mongo-backed sharing registry. The unique index on
// (grantee_id, resource_type, resource_id) makes Upsert an atomic
// replace-or-insert even under concurrent grants for the same pair.
type ShareRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewShareRepository(db *mongo.Database, timeout time.Duration) *ShareRepository {
	return &ShareRepository{coll: db.Collection(shareCollection), timeout: timeout}
}

type mongoShare struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	GranteeID    string             `bson:"grantee_id"`
	ResourceType string             `bson:"resource_type"`
	ResourceID   string             `bson:"resource_id"`
	Level        string             `bson:"access_level"`
	GrantedByID  string             `bson:"granted_by_id"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (ms *mongoShare) toDomain() *domain.Share {
	return &domain.Share{
		ID:           ms.ID.Hex(),
		GranteeID:    ms.GranteeID,
		ResourceType: domain.ResourceType(ms.ResourceType),
		ResourceID:   ms.ResourceID,
		Level:        domain.AccessLevel(ms.Level),
		GrantedByID:  ms.GrantedByID,
		CreatedAt:    unixToTime(ms.CreatedAt),
		UpdatedAt:    unixToTime(ms.UpdatedAt),
	}
}

// EnsureIndexes creates the uniqueness constraint backing grant idempotence.
func (r *ShareRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "grantee_id", Value: 1},
				{Key: "resource_type", Value: 1},
				{Key: "resource_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "resource_type", Value: 1}, {Key: "resource_id", Value: 1}}},
	})
	return translate(err, nil)
}

// Upsert replaces the level for an existing (grantee, resource) pair or
// inserts a new share, returning the stored row either way.
func (r *ShareRepository) Upsert(ctx context.Context, share *domain.Share) (*domain.Share, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC().Unix()
	filter := bson.M{
		"grantee_id":    share.GranteeID,
		"resource_type": string(share.ResourceType),
		"resource_id":   share.ResourceID,
	}
	update := bson.M{
		"$set": bson.M{
			"access_level":  string(share.Level),
			"granted_by_id": share.GrantedByID,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"grantee_id":    share.GranteeID,
			"resource_type": string(share.ResourceType),
			"resource_id":   share.ResourceID,
			"created_at":    now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var ms mongoShare
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ms)
	if mongo.IsDuplicateKeyError(err) {
		// two first-time grants raced: the unique index rejected this
		// upsert's insert, so the row now exists and a retry updates it
		err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ms)
	}
	if err != nil {
		return nil, translate(err, nil)
	}
	return ms.toDomain(), nil
}

func (r *ShareRepository) FindByID(ctx context.Context, id string) (*domain.Share, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrShareNotFound
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	var ms mongoShare
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		return nil, translate(err, domain.ErrShareNotFound)
	}
	return ms.toDomain(), nil
}

func (r *ShareRepository) FindByGranteeAndResource(ctx context.Context, granteeID string, resourceType domain.ResourceType, resourceID string) (*domain.Share, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	filter := bson.M{
		"grantee_id":    granteeID,
		"resource_type": string(resourceType),
		"resource_id":   resourceID,
	}
	var ms mongoShare
	if err := r.coll.FindOne(ctx, filter).Decode(&ms); err != nil {
		return nil, translate(err, domain.ErrShareNotFound)
	}
	return ms.toDomain(), nil
}

func (r *ShareRepository) UpdateLevel(ctx context.Context, id string, level domain.AccessLevel) (*domain.Share, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrShareNotFound
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"access_level": string(level),
		"updated_at":   time.Now().UTC().Unix(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ms mongoShare
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&ms); err != nil {
		return nil, translate(err, domain.ErrShareNotFound)
	}
	return ms.toDomain(), nil
}

// Delete removes a share; deleting an absent id succeeds.
func (r *ShareRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return translate(err, nil)
}

func (r *ShareRepository) ListForResource(ctx context.Context, resourceType domain.ResourceType, resourceID string) ([]domain.Share, error) {
	return r.list(ctx, bson.M{
		"resource_type": string(resourceType),
		"resource_id":   resourceID,
	})
}

func (r *ShareRepository) ListForGrantee(ctx context.Context, granteeID string) ([]domain.Share, error) {
	return r.list(ctx, bson.M{"grantee_id": granteeID})
}

func (r *ShareRepository) list(ctx context.Context, filter bson.M) ([]domain.Share, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, translate(err, nil)
	}
	defer cur.Close(ctx)

	var shares []domain.Share
	for cur.Next(ctx) {
		var ms mongoShare
		if err := cur.Decode(&ms); err != nil {
			return nil, translate(err, nil)
		}
		shares = append(shares, *ms.toDomain())
	}
	return shares, translate(cur.Err(), nil)
}

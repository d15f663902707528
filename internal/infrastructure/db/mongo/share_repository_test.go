package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/notehub/notehub-api/internal/core/domain"
)

func duplicateKeyResponse() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{
		Code:    11000,
		Name:    "DuplicateKey",
		Message: "E11000 duplicate key error",
	})
}

// Two first-time grants for the same (grantee, resource) pair can race: the
// unique index rejects one upsert's insert arm with a duplicate-key error.
// The repository must retry, at which point the row exists and the update
// arm wins.
func TestShareRepository_Upsert_RetriesAfterDuplicateKey(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("retry takes the update path", func(mt *mtest.T) {
		repo := &ShareRepository{coll: mt.Coll, timeout: time.Second}

		stored := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "grantee_id", Value: "user-2"},
			{Key: "resource_type", Value: "folder"},
			{Key: "resource_id", Value: "folder-1"},
			{Key: "access_level", Value: "WRITE"},
			{Key: "granted_by_id", Value: "user-1"},
			{Key: "created_at", Value: int64(1700000000)},
			{Key: "updated_at", Value: int64(1700000100)},
		}
		mt.AddMockResponses(
			duplicateKeyResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: stored}),
		)

		share, err := repo.Upsert(context.Background(), &domain.Share{
			GranteeID:    "user-2",
			ResourceType: domain.ResourceFolder,
			ResourceID:   "folder-1",
			Level:        domain.AccessWrite,
			GrantedByID:  "user-1",
		})
		if err != nil {
			mt.Fatalf("upsert failed despite retry: %v", err)
		}
		if share.GranteeID != "user-2" || share.Level != domain.AccessWrite {
			mt.Fatalf("unexpected share: %+v", share)
		}
	})

	mt.Run("persistent duplicate key still surfaces", func(mt *mtest.T) {
		repo := &ShareRepository{coll: mt.Coll, timeout: time.Second}

		mt.AddMockResponses(duplicateKeyResponse(), duplicateKeyResponse())

		_, err := repo.Upsert(context.Background(), &domain.Share{
			GranteeID:    "user-2",
			ResourceType: domain.ResourceFolder,
			ResourceID:   "folder-1",
			Level:        domain.AccessRead,
			GrantedByID:  "user-1",
		})
		if err == nil {
			mt.Fatalf("expected the second duplicate-key failure to surface")
		}
	})
}

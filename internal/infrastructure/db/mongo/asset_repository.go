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

const (
	folderCollection = "folders"
	noteCollection   = "notes"
)

// AssetRepository persists folders and notes. Folder deletion cascades to
// contained notes and to every share on the folder or its notes inside one
// multi-document transaction.
type AssetRepository struct {
	db      *mongo.Database
	folders *mongo.Collection
	notes   *mongo.Collection
	shares  *mongo.Collection
	timeout time.Duration
}

func NewAssetRepository(db *mongo.Database, timeout time.Duration) *AssetRepository {
	return &AssetRepository{
		db:      db,
		folders: db.Collection(folderCollection),
		notes:   db.Collection(noteCollection),
		shares:  db.Collection(shareCollection),
		timeout: timeout,
	}
}

type mongoFolder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	OwnerID   string             `bson:"owner_id"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

type mongoNote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	OwnerID   string             `bson:"owner_id"`
	FolderID  string             `bson:"folder_id,omitempty"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mf *mongoFolder) toDomain() *domain.Folder {
	return &domain.Folder{
		ID:        mf.ID.Hex(),
		Name:      mf.Name,
		OwnerID:   mf.OwnerID,
		CreatedAt: unixToTime(mf.CreatedAt),
		UpdatedAt: unixToTime(mf.UpdatedAt),
	}
}

func (mn *mongoNote) toDomain() *domain.Note {
	return &domain.Note{
		ID:        mn.ID.Hex(),
		Title:     mn.Title,
		Content:   mn.Content,
		OwnerID:   mn.OwnerID,
		FolderID:  mn.FolderID,
		CreatedAt: unixToTime(mn.CreatedAt),
		UpdatedAt: unixToTime(mn.UpdatedAt),
	}
}

// EnsureIndexes creates the owner and folder lookup indexes.
func (r *AssetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	if _, err := r.folders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	}); err != nil {
		return translate(err, nil)
	}
	_, err := r.notes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "folder_id", Value: 1}}},
	})
	return translate(err, nil)
}

func (r *AssetRepository) CreateFolder(ctx context.Context, folder *domain.Folder) (*domain.Folder, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	doc := mongoFolder{
		ID:        primitive.NewObjectID(),
		Name:      folder.Name,
		OwnerID:   folder.OwnerID,
		CreatedAt: folder.CreatedAt.Unix(),
		UpdatedAt: folder.UpdatedAt.Unix(),
	}
	if _, err := r.folders.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, nil)
	}

	created := *folder
	created.ID = doc.ID.Hex()
	return &created, nil
}

func (r *AssetRepository) FindFolder(ctx context.Context, id string) (*domain.Folder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrResourceNotFound
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	var mf mongoFolder
	if err := r.folders.FindOne(ctx, bson.M{"_id": oid}).Decode(&mf); err != nil {
		return nil, translate(err, domain.ErrResourceNotFound)
	}
	return mf.toDomain(), nil
}

func (r *AssetRepository) ListFoldersByOwner(ctx context.Context, ownerID string) ([]domain.Folder, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	cur, err := r.folders.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, translate(err, nil)
	}
	defer cur.Close(ctx)

	var folders []domain.Folder
	for cur.Next(ctx) {
		var mf mongoFolder
		if err := cur.Decode(&mf); err != nil {
			return nil, translate(err, nil)
		}
		folders = append(folders, *mf.toDomain())
	}
	return folders, translate(cur.Err(), nil)
}

func (r *AssetRepository) RenameFolder(ctx context.Context, id, name string) (*domain.Folder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrResourceNotFound
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"name": name, "updated_at": time.Now().UTC().Unix()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mf mongoFolder
	if err := r.folders.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mf); err != nil {
		return nil, translate(err, domain.ErrResourceNotFound)
	}
	return mf.toDomain(), nil
}

// DeleteFolderCascade removes the folder, its notes, and all shares on the
// folder or any contained note, atomically. Requires a replica-set
// deployment for multi-document transactions.
func (r *AssetRepository) DeleteFolderCascade(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrResourceNotFound
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	sess, err := r.db.Client().StartSession()
	if err != nil {
		return translate(err, nil)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		cur, err := r.notes.Find(sc, bson.M{"folder_id": id})
		if err != nil {
			return nil, err
		}
		var noteIDs []string
		for cur.Next(sc) {
			var mn mongoNote
			if err := cur.Decode(&mn); err != nil {
				cur.Close(sc)
				return nil, err
			}
			noteIDs = append(noteIDs, mn.ID.Hex())
		}
		if err := cur.Err(); err != nil {
			cur.Close(sc)
			return nil, err
		}
		cur.Close(sc)

		if len(noteIDs) > 0 {
			if _, err := r.shares.DeleteMany(sc, bson.M{
				"resource_type": string(domain.ResourceNote),
				"resource_id":   bson.M{"$in": noteIDs},
			}); err != nil {
				return nil, err
			}
		}
		if _, err := r.shares.DeleteMany(sc, bson.M{
			"resource_type": string(domain.ResourceFolder),
			"resource_id":   id,
		}); err != nil {
			return nil, err
		}
		if _, err := r.notes.DeleteMany(sc, bson.M{"folder_id": id}); err != nil {
			return nil, err
		}

		res, err := r.folders.DeleteOne(sc, bson.M{"_id": oid})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrResourceNotFound
		}
		return nil, nil
	})
	if err == domain.ErrResourceNotFound {
		return err
	}
	return translate(err, nil)
}

func (r *AssetRepository) CreateNote(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	doc := mongoNote{
		ID:        primitive.NewObjectID(),
		Title:     note.Title,
		Content:   note.Content,
		OwnerID:   note.OwnerID,
		FolderID:  note.FolderID,
		CreatedAt: note.CreatedAt.Unix(),
		UpdatedAt: note.UpdatedAt.Unix(),
	}
	if _, err := r.notes.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, nil)
	}

	created := *note
	created.ID = doc.ID.Hex()
	return &created, nil
}

func (r *AssetRepository) FindNote(ctx context.Context, id string) (*domain.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrResourceNotFound
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	var mn mongoNote
	if err := r.notes.FindOne(ctx, bson.M{"_id": oid}).Decode(&mn); err != nil {
		return nil, translate(err, domain.ErrResourceNotFound)
	}
	return mn.toDomain(), nil
}

func (r *AssetRepository) ListNotesByFolder(ctx context.Context, folderID string) ([]domain.Note, error) {
	return r.listNotes(ctx, bson.M{"folder_id": folderID})
}

func (r *AssetRepository) ListNotesByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	return r.listNotes(ctx, bson.M{"owner_id": ownerID})
}

func (r *AssetRepository) UpdateNote(ctx context.Context, id, title, content string) (*domain.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrResourceNotFound
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":      title,
		"content":    content,
		"updated_at": time.Now().UTC().Unix(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mn mongoNote
	if err := r.notes.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mn); err != nil {
		return nil, translate(err, domain.ErrResourceNotFound)
	}
	return mn.toDomain(), nil
}

// DeleteNote removes the note and any shares on it.
func (r *AssetRepository) DeleteNote(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrResourceNotFound
	}

	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	sess, err := r.db.Client().StartSession()
	if err != nil {
		return translate(err, nil)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.shares.DeleteMany(sc, bson.M{
			"resource_type": string(domain.ResourceNote),
			"resource_id":   id,
		}); err != nil {
			return nil, err
		}
		res, err := r.notes.DeleteOne(sc, bson.M{"_id": oid})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrResourceNotFound
		}
		return nil, nil
	})
	if err == domain.ErrResourceNotFound {
		return err
	}
	return translate(err, nil)
}

// FindResource resolves either asset variant to its ownership view.
func (r *AssetRepository) FindResource(ctx context.Context, resourceType domain.ResourceType, id string) (*domain.Resource, error) {
	switch resourceType {
	case domain.ResourceFolder:
		folder, err := r.FindFolder(ctx, id)
		if err != nil {
			return nil, err
		}
		return &domain.Resource{Type: domain.ResourceFolder, ID: folder.ID, OwnerID: folder.OwnerID}, nil
	case domain.ResourceNote:
		note, err := r.FindNote(ctx, id)
		if err != nil {
			return nil, err
		}
		return &domain.Resource{Type: domain.ResourceNote, ID: note.ID, OwnerID: note.OwnerID}, nil
	default:
		return nil, domain.ErrResourceNotFound
	}
}

func (r *AssetRepository) listNotes(ctx context.Context, filter bson.M) ([]domain.Note, error) {
	ctx, cancel := opContext(ctx, r.timeout)
	defer cancel()

	cur, err := r.notes.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, translate(err, nil)
	}
	defer cur.Close(ctx)

	var notes []domain.Note
	for cur.Next(ctx) {
		var mn mongoNote
		if err := cur.Decode(&mn); err != nil {
			return nil, translate(err, nil)
		}
		notes = append(notes, *mn.toDomain())
	}
	return notes, translate(cur.Err(), nil)
}

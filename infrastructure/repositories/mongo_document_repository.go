package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"drivesync/domain/drive"
	"drivesync/logging"
)

// firstParentField addresses the first element of the parents array, the
// only parent the pipeline ever consults.
const firstParentField = "parents.0"

// MongoDocumentRepository implements contracts.DocumentRepository on one
// Mongo collection. Documents are FileRecords keyed by the remote file ID.
type MongoDocumentRepository struct {
	coll   *mongo.Collection
	logger *logging.Logger
}

func NewMongoDocumentRepository(coll *mongo.Collection) *MongoDocumentRepository {
	return &MongoDocumentRepository{
		coll:   coll,
		logger: logging.Default().WithComponent("document_repository"),
	}
}

// InsertNew upserts each record keyed on the remote ID with $setOnInsert, so
// a record that already exists is left exactly as stored and counted as
// skipped. Re-running the same batch is a no-op.
func (r *MongoDocumentRepository) InsertNew(ctx context.Context, records []*drive.FileRecord) (inserted, skipped int64, err error) {
	for _, rec := range records {
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"id": rec.ID},
			bson.M{"$setOnInsert": rec},
			options.Update().SetUpsert(true))
		if err != nil {
			return inserted, skipped, fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
		if res.UpsertedCount > 0 {
			inserted++
		} else {
			skipped++
		}
	}
	r.logger.Mongo("Insert batch applied",
		"collection", r.coll.Name(), "inserted", inserted, "skipped", skipped)
	return inserted, skipped, nil
}

// SetCreatedByForParent bulk-updates created_by on every document whose
// first parent is folderID. Re-applying the same label yields the same end
// state.
func (r *MongoDocumentRepository) SetCreatedByForParent(ctx context.Context, folderID, label string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{firstParentField: folderID},
		bson.M{"$set": bson.M{"created_by": label}})
	if err != nil {
		return 0, fmt.Errorf("set created_by for folder %s: %w", folderID, err)
	}
	return res.ModifiedCount, nil
}

// DistinctFirstParents enumerates every distinct first-parent folder ID in
// the collection.
func (r *MongoDocumentRepository) DistinctFirstParents(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, firstParentField, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct first parents: %w", err)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

// FindCreatedAfter returns a projection of documents created strictly after
// the given instant. createdTime is stored in RFC 3339, so a lexicographic
// comparison is chronologically correct.
func (r *MongoDocumentRepository) FindCreatedAfter(ctx context.Context, after time.Time) ([]*drive.FileRecord, error) {
	filter := bson.M{"createdTime": bson.M{"$gt": after.UTC().Format(time.RFC3339)}}
	projection := bson.M{"id": 1, "name": 1, "createdTime": 1, "created_by": 1}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("find created after %s: %w", after, err)
	}
	defer cursor.Close(ctx)

	var records []*drive.FileRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// DeleteCreatedAfter removes documents created strictly after the given
// instant.
func (r *MongoDocumentRepository) DeleteCreatedAfter(ctx context.Context, after time.Time) (int64, error) {
	filter := bson.M{"createdTime": bson.M{"$gt": after.UTC().Format(time.RFC3339)}}
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete created after %s: %w", after, err)
	}
	r.logger.Mongo("Deleted documents", "collection", r.coll.Name(), "deleted", res.DeletedCount)
	return res.DeletedCount, nil
}

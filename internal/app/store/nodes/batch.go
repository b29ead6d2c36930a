// internal/app/store/nodes/batch.go
package nodestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// Patch is one per-document update inside a batch: fields to merge plus
// fields to clear. Batches carry many patches but each patch lands atomically
// on its own document.
type Patch struct {
	ID    primitive.ObjectID
	Set   bson.M
	Unset bson.M
}

func clampBatch(n int) int {
	if n <= 0 || n > MaxBatchSize {
		return MaxBatchSize
	}
	return n
}

// ApplyPatches writes the patches in sequential chunks of at most batchSize
// documents. It returns the ids whose chunks committed fully; when a chunk
// fails, ids from that chunk and later ones are not reported even if the
// server applied some of them, so callers re-run rather than roll back.
func (s *Store) ApplyPatches(ctx context.Context, patches []Patch, batchSize int) ([]primitive.ObjectID, error) {
	size := clampBatch(batchSize)
	now := time.Now().UTC()

	applied := make([]primitive.ObjectID, 0, len(patches))
	for start := 0; start < len(patches); start += size {
		end := start + size
		if end > len(patches) {
			end = len(patches)
		}
		chunk := patches[start:end]

		writes := make([]mongo.WriteModel, 0, len(chunk))
		for _, p := range chunk {
			set := bson.M{"updated_at": now}
			for k, v := range p.Set {
				set[k] = v
			}
			update := bson.M{"$set": set}
			if len(p.Unset) > 0 {
				update["$unset"] = p.Unset
			}
			writes = append(writes, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": p.ID}).
				SetUpdate(update))
		}
		if _, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
			return applied, err
		}
		for _, p := range chunk {
			applied = append(applied, p.ID)
		}
	}
	return applied, nil
}

// InsertMany writes fully-materialized nodes in sequential chunks. Ids and
// timestamps are stamped the same way Insert stamps them. The returned slice
// holds every node from committed chunks, with ids filled in.
func (s *Store) InsertMany(ctx context.Context, ns []models.Node, batchSize int) ([]models.Node, error) {
	size := clampBatch(batchSize)
	now := time.Now().UTC()

	inserted := make([]models.Node, 0, len(ns))
	for start := 0; start < len(ns); start += size {
		end := start + size
		if end > len(ns) {
			end = len(ns)
		}
		chunk := ns[start:end]

		docs := make([]any, 0, len(chunk))
		stamped := make([]models.Node, 0, len(chunk))
		for _, n := range chunk {
			if n.ID.IsZero() {
				n.ID = primitive.NewObjectID()
			}
			if n.CreatedAt.IsZero() {
				n.CreatedAt = now
			}
			n.UpdatedAt = now
			docs = append(docs, n)
			stamped = append(stamped, n)
		}
		if _, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
			return inserted, err
		}
		inserted = append(inserted, stamped...)
	}
	return inserted, nil
}

// DeleteByIDs removes the given nodes in sequential chunks and returns the
// ids from committed chunks. Ids that were already gone still count as
// applied; deletion is idempotent.
func (s *Store) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID, batchSize int) ([]primitive.ObjectID, error) {
	size := clampBatch(batchSize)

	applied := make([]primitive.ObjectID, 0, len(ids))
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		if _, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": chunk}}); err != nil {
			return applied, err
		}
		applied = append(applied, chunk...)
	}
	return applied, nil
}

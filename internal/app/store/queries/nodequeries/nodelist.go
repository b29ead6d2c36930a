// internal/app/store/queries/nodequeries/nodelist.go
package nodequeries

import (
	"context"
	"regexp"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/planboard/internal/app/system/paging"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// List returns one keyset page of an owner's nodes sorted by folded title.
// titleQ narrows by case-insensitive title prefix; kind and status narrow by
// exact match when non-empty.
func List(ctx context.Context, db *mongo.Database, ownerID primitive.ObjectID, titleQ, kind, status, before, after string) ([]models.Node, paging.Result, error) {
	filter := bson.M{"owner_id": ownerID}
	if titleQ != "" {
		filter["title_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(titleQ))}
	}
	if kind != "" {
		filter["kind"] = kind
	}
	if status != "" {
		filter["status"] = status
	}

	cfg := paging.ConfigureKeyset(before, after)
	if w := cfg.KeysetWindow("title_ci"); w != nil {
		filter = bson.M{"$and": []bson.M{filter, w}}
	}

	findOpts := options.Find()
	cfg.ApplyToFind(findOpts, "title_ci")

	cur, err := db.Collection("nodes").Find(ctx, filter, findOpts)
	if err != nil {
		return nil, paging.Result{}, err
	}
	defer cur.Close(ctx)

	var rows []models.Node
	if err := cur.All(ctx, &rows); err != nil {
		return nil, paging.Result{}, err
	}
	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	res := paging.TrimPage(&rows, before, after)
	return rows, res, nil
}

// Board returns every node a room should see on the given day: shared with
// the room, not a draft, and either undated or dated over the day. The day
// argument is the start of the day in UTC; windows are half-open.
func Board(ctx context.Context, db *mongo.Database, room string, day time.Time) ([]models.Node, error) {
	filter := bson.M{
		"visibility": room,
		"status":     bson.M{"$ne": models.StatusDraft},
		"$or": []bson.M{
			{"window": bson.M{"$exists": false}},
			{"window.start": bson.M{"$lte": day}, "window.end": bson.M{"$gt": day}},
		},
	}

	cur, err := db.Collection("nodes").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Node
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// internal/domain/models/question.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is one help-request raised against a node, embedded in the node's
// QuestionHistory array. Questions belong to the lived instance of a task:
// they describe what happened while this node was worked on, not what the
// node is, which is why duplication always resets the array.
type Question struct {
	ID         primitive.ObjectID `bson:"id" json:"id"`
	AuthorID   string             `bson:"author_id" json:"author_id"` // roster identifier of the asking student
	AuthorName string             `bson:"author_name,omitempty" json:"author_name,omitempty"`
	Body       string             `bson:"body" json:"body"`
	Resolved   bool               `bson:"resolved" json:"resolved"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadKind says what an uploaded object is used for.
type UploadKind string

const (
	UploadAvatar        UploadKind = "avatar"
	UploadExerciseMedia UploadKind = "exercise_media"
)

// Upload stores metadata about an object placed in object storage.
// The actual file resides in S3.
type Upload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Kind        UploadKind         `bson:"kind" json:"kind"`
	ObjectKey   string             `bson:"objectKey" json:"-"` // Key in the bucket, internal use
	URL         string             `bson:"url,omitempty" json:"url,omitempty"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseMedia stores metadata about a demo video a user attached to one of
// their template exercises. The file itself lives in object storage.
type ExerciseMedia struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	TemplateID  primitive.ObjectID `bson:"templateId" json:"templateId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // Bucket key, internal use only
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}

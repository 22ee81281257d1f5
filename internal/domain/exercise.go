// internal/domain/exercise.go
package domain

import (
	"time"
)

// Exercise represents a single exercise definition in the library.
// Plans copy name and video URL by value, so editing a library entry
// never rewrites historical plans.
type Exercise struct {
	ID       int64  `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	VideoURL string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	// VideoObjectKey is set when the demo video was uploaded to object storage instead of linked.
	VideoObjectKey string    `bson:"videoObjectKey,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

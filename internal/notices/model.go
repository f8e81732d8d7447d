package notices

import "time"

const (
	KindProjectSubmitted = "project_submitted"
	KindProjectUpdated   = "project_updated"
	KindNewLead          = "new_lead"
)

type Notice struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"-"`
	Kind      string    `bson:"kind" json:"kind"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body,omitempty" json:"body,omitempty"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

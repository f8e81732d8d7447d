package leads

import "time"

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusClosed    = "closed"
)

var validStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusClosed:    {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

type Lead struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	ListingID   string    `bson:"listing_id" json:"listing_id"`
	ListingName string    `bson:"listing_name" json:"listing_name"`
	Name        string    `bson:"name" json:"name"`
	Phone       string    `bson:"phone" json:"phone"`
	Email       string    `bson:"email,omitempty" json:"email,omitempty"`
	Message     string    `bson:"message,omitempty" json:"message,omitempty"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required,phone10"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message"`
}

type AdminStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted closed"`
}

type ListFilter struct {
	ListingID string
	Status    string
}

package listings

import (
	"time"

	"github.com/paulmach/orb"
)

type Image struct {
	URL    string `bson:"url" json:"url"`
	IsMain bool   `bson:"is_main" json:"is_main"`
}

type Listing struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	RemoteProjectID string    `bson:"remote_project_id,omitempty" json:"remote_project_id,omitempty"`
	Slug            string    `bson:"slug" json:"slug"`
	Name            string    `bson:"name" json:"name"`
	ProjectType     string    `bson:"project_type" json:"project_type"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	Price           string    `bson:"price,omitempty" json:"price,omitempty"`
	PriceValue      float64   `bson:"price_value,omitempty" json:"-"`
	Area            string    `bson:"area,omitempty" json:"area,omitempty"`
	Beds            string    `bson:"beds,omitempty" json:"beds,omitempty"`
	Status          string    `bson:"status,omitempty" json:"status,omitempty"`
	Possession      string    `bson:"possession,omitempty" json:"possession,omitempty"`
	Address         string    `bson:"address,omitempty" json:"address,omitempty"`
	Locality        string    `bson:"locality,omitempty" json:"locality,omitempty"`
	CityID          string    `bson:"city_id,omitempty" json:"city_id,omitempty"`
	StateID         string    `bson:"state_id,omitempty" json:"state_id,omitempty"`
	CityName        string    `bson:"city_name,omitempty" json:"city_name,omitempty"`
	StateName       string    `bson:"state_name,omitempty" json:"state_name,omitempty"`
	Latitude        float64   `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude       float64   `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Images          []Image   `bson:"images,omitempty" json:"images,omitempty"`
	AmenityIDs      []string  `bson:"amenity_ids,omitempty" json:"amenity_ids,omitempty"`
	Features        []string  `bson:"features,omitempty" json:"features,omitempty"`
	OwnerID         string    `bson:"owner_id,omitempty" json:"-"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// Point reports the listing coordinates as lon/lat. The zero value means the
// listing was mirrored without a location.
func (l Listing) Point() orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

func (l Listing) HasPoint() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// Detail is the public detail payload. DescriptionHTML carries the sanitized
// rendering of the markdown description.
type Detail struct {
	Listing
	DescriptionHTML string `json:"description_html,omitempty"`
}

type SearchFilter struct {
	CityID      string
	ProjectType string
	Beds        string
	Status      string
	PriceMin    string
	PriceMax    string
	NearLat     string
	NearLng     string
	RadiusKM    string
}

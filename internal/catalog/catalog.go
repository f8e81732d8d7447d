package catalog

import "github.com/samber/lo"

// Amenity is one selectable amenity. Furnishing amenities form a mutually
// exclusive radio group on the form; everything else is a checkbox.
type Amenity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Furnishing bool   `json:"furnishing"`
}

var amenities = []Amenity{
	{ID: "1", Name: "Swimming Pool"},
	{ID: "2", Name: "Gym"},
	{ID: "3", Name: "Club House"},
	{ID: "4", Name: "Children's Play Area"},
	{ID: "5", Name: "Landscaped Garden"},
	{ID: "6", Name: "24x7 Security"},
	{ID: "7", Name: "Power Backup"},
	{ID: "8", Name: "Covered Parking"},
	{ID: "9", Name: "Lift"},
	{ID: "10", Name: "Jogging Track"},
	{ID: "11", Name: "Indoor Games"},
	{ID: "12", Name: "Rainwater Harvesting"},
	{ID: "13", Name: "Unfurnished", Furnishing: true},
	{ID: "14", Name: "Semi-Furnished", Furnishing: true},
	{ID: "15", Name: "Fully Furnished", Furnishing: true},
}

var furnishingIDs = lo.SliceToMap(
	lo.Filter(amenities, func(a Amenity, _ int) bool { return a.Furnishing }),
	func(a Amenity) (string, struct{}) { return a.ID, struct{}{} },
)

// All returns the full catalog in display order.
func All() []Amenity {
	return append([]Amenity(nil), amenities...)
}

// Checkboxes returns the multi-select amenities.
func Checkboxes() []Amenity {
	return lo.Filter(amenities, func(a Amenity, _ int) bool { return !a.Furnishing })
}

// Furnishing returns the radio-group amenities.
func Furnishing() []Amenity {
	return lo.Filter(amenities, func(a Amenity, _ int) bool { return a.Furnishing })
}

// IsFurnishing reports whether id belongs to the radio group.
func IsFurnishing(id string) bool {
	_, ok := furnishingIDs[id]
	return ok
}

// IsKnown reports whether id exists in the catalog at all.
func IsKnown(id string) bool {
	return lo.ContainsBy(amenities, func(a Amenity) bool { return a.ID == id })
}

package composer

// AmenitySelection merges the multi-select checkbox amenities with the
// single-select furnishing radio. The radio slot holds at most one id and a
// new selection replaces the previous one.
type AmenitySelection struct {
	Checkboxes []string `bson:"checkboxes" json:"checkboxes"`
	Radio      string   `bson:"radio,omitempty" json:"radio,omitempty"`
}

// ToggleCheckbox adds the id when absent and removes it when present.
func (a *AmenitySelection) ToggleCheckbox(id string) {
	for i, existing := range a.Checkboxes {
		if existing == id {
			a.Checkboxes = append(a.Checkboxes[:i], a.Checkboxes[i+1:]...)
			return
		}
	}
	a.Checkboxes = append(a.Checkboxes, id)
}

// SelectRadio replaces any previously selected radio amenity.
func (a *AmenitySelection) SelectRadio(id string) {
	a.Radio = id
}

func (a *AmenitySelection) ClearRadio() {
	a.Radio = ""
}

// Resolved returns the checkbox set unioned with the radio id, in selection
// order. This is the value the serializer reads.
func (a *AmenitySelection) Resolved() []string {
	ids := make([]string, 0, len(a.Checkboxes)+1)
	ids = append(ids, a.Checkboxes...)
	if a.Radio != "" {
		ids = append(ids, a.Radio)
	}
	return ids
}

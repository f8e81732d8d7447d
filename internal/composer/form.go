package composer

import "errors"

var ErrUnknownPlanField = errors.New("unknown plan detail field")

// ScalarFields are the flat, single-valued inputs of the project form. All
// values are kept as strings the way the remote API expects them; booleans
// are string-cast at serialization time.
type ScalarFields struct {
	Name                   string `bson:"name" json:"name"`
	ProjectType            string `bson:"project_type" json:"project_type"`
	Description            string `bson:"description" json:"description"`
	Price                  string `bson:"price" json:"price"`
	Area                   string `bson:"area" json:"area"`
	Beds                   string `bson:"beds" json:"beds"`
	Status                 string `bson:"status" json:"status"`
	Possession             string `bson:"possession" json:"possession"`
	Address                string `bson:"address" json:"address"`
	Locality               string `bson:"locality" json:"locality"`
	CityID                 string `bson:"city_id" json:"city_id"`
	StateID                string `bson:"state_id" json:"state_id"`
	IsNA                   bool   `bson:"is_na" json:"is_na"`
	IsReraApproved         bool   `bson:"is_rera_approved" json:"is_rera_approved"`
	IsOCApproved           bool   `bson:"is_oc_approved" json:"is_oc_approved"`
	ReraNumber             string `bson:"rera_number" json:"rera_number"`
	ReraDate               string `bson:"rera_date" json:"rera_date"`
	ProjectAreaAcres       string `bson:"project_area_acres" json:"project_area_acres"`
	LaunchDate             string `bson:"launch_date" json:"launch_date"`
	ExpectedCompletionDate string `bson:"expected_completion_date" json:"expected_completion_date"`
	OCDate                 string `bson:"oc_date" json:"oc_date"`
}

// ProjectFormState is the full form aggregate a draft persists between
// interactions: scalars, the three image groups, the two repeatable row
// lists and the amenity selection.
type ProjectFormState struct {
	Scalars       ScalarFields      `bson:"scalars" json:"scalars"`
	ProjectImages ImageGroup        `bson:"project_images" json:"project_images"`
	AmenityImages ImageGroup        `bson:"amenity_images" json:"amenity_images"`
	FloorImages   ImageGroup        `bson:"floor_images" json:"floor_images"`
	Plans         PlanDetails       `bson:"plans" json:"plans"`
	Features      ExclusiveFeatures `bson:"features" json:"features"`
	Amenities     AmenitySelection  `bson:"amenities" json:"amenities"`
}

func NewProjectFormState() ProjectFormState {
	return ProjectFormState{
		ProjectImages: NewImageGroup(GroupProject),
		AmenityImages: NewImageGroup(GroupAmenity),
		FloorImages:   NewImageGroup(GroupFloor),
		Plans:         NewPlanDetails(),
	}
}

// Group returns the image group for kind, or nil for an unknown kind.
func (f *ProjectFormState) Group(kind GroupKind) *ImageGroup {
	switch kind {
	case GroupProject:
		return &f.ProjectImages
	case GroupAmenity:
		return &f.AmenityImages
	case GroupFloor:
		return &f.FloorImages
	}
	return nil
}

func (f *ProjectFormState) Groups() []*ImageGroup {
	return []*ImageGroup{&f.ProjectImages, &f.AmenityImages, &f.FloorImages}
}

// Reset restores the zero form and returns the staged-file ids the caller
// must release. Runs after a successful submission.
func (f *ProjectFormState) Reset() []string {
	var staged []string
	for _, g := range f.Groups() {
		staged = append(staged, g.StagedIDs()...)
	}
	*f = NewProjectFormState()
	return staged
}

// RemoteImage is one already-persisted image carried by a fetched project
// record.
type RemoteImage struct {
	URL    string
	IsMain bool
}

// HydrationRecord is a fetched project record with state and city names
// already reverse-mapped to ids. The amenity ids arrive unsplit; the
// isFurnishing predicate routes furnishing ids into the radio slot.
type HydrationRecord struct {
	Scalars       ScalarFields
	AmenityIDs    []string
	ProjectImages []RemoteImage
	AmenityImages []RemoteImage
	FloorImages   []RemoteImage
	PlanRows      []PlanDetailRow
	Features      []string
}

// ApplyRecord replaces the form state with the fetched record's contents.
// Every image becomes a Remote entry; the flagged main image wins, falling
// back to the first entry when the record marks none.
func (f *ProjectFormState) ApplyRecord(rec HydrationRecord, isFurnishing func(string) bool) {
	*f = NewProjectFormState()
	f.Scalars = rec.Scalars

	for _, id := range rec.AmenityIDs {
		if isFurnishing != nil && isFurnishing(id) {
			f.Amenities.SelectRadio(id)
			continue
		}
		f.Amenities.ToggleCheckbox(id)
	}

	applyRemote(&f.ProjectImages, rec.ProjectImages)
	applyRemote(&f.AmenityImages, rec.AmenityImages)
	applyRemote(&f.FloorImages, rec.FloorImages)

	if len(rec.PlanRows) > 0 {
		f.Plans.Rows = append([]PlanDetailRow(nil), rec.PlanRows...)
	}
	for _, feat := range rec.Features {
		f.Features.AddFeature(feat)
	}
}

func applyRemote(group *ImageGroup, images []RemoteImage) {
	for i, img := range images {
		_ = group.AddEntries(NewRemoteEntry(img.URL))
		if img.IsMain {
			group.SetMain(i)
		}
	}
}

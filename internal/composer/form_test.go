package composer

import "testing"

func furnishingSet(ids ...string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestApplyRecordSplitsFurnishingIntoRadio(t *testing.T) {
	f := NewProjectFormState()
	f.ApplyRecord(HydrationRecord{
		Scalars:    ScalarFields{Name: "Skyline Towers", StateID: "7", CityID: "12"},
		AmenityIDs: []string{"gym", "furnished", "pool"},
	}, furnishingSet("furnished", "semi-furnished", "unfurnished"))

	if f.Amenities.Radio != "furnished" {
		t.Fatalf("expected furnishing id in radio slot, got %q", f.Amenities.Radio)
	}
	if len(f.Amenities.Checkboxes) != 2 {
		t.Fatalf("unexpected checkboxes: %v", f.Amenities.Checkboxes)
	}
	if f.Scalars.Name != "Skyline Towers" || f.Scalars.StateID != "7" {
		t.Fatalf("scalars not applied: %+v", f.Scalars)
	}
}

func TestApplyRecordKeepsMainImagePosition(t *testing.T) {
	f := NewProjectFormState()
	f.ApplyRecord(HydrationRecord{
		ProjectImages: []RemoteImage{
			{URL: "https://cdn.example.com/1.jpg"},
			{URL: "https://cdn.example.com/2.jpg", IsMain: true},
			{URL: "https://cdn.example.com/3.jpg"},
		},
	}, nil)

	if f.ProjectImages.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", f.ProjectImages.Len())
	}
	if f.ProjectImages.MainIndex != 1 {
		t.Fatalf("expected main at 1, got %d", f.ProjectImages.MainIndex)
	}
	if f.ProjectImages.Entries[1].IsLocal() {
		t.Fatalf("hydrated entries must be remote")
	}
}

func TestApplyRecordDefaultsMainToFirst(t *testing.T) {
	f := NewProjectFormState()
	f.ApplyRecord(HydrationRecord{
		FloorImages: []RemoteImage{
			{URL: "https://cdn.example.com/f1.jpg"},
			{URL: "https://cdn.example.com/f2.jpg"},
		},
	}, nil)
	if f.FloorImages.MainIndex != 0 {
		t.Fatalf("expected fallback main at 0, got %d", f.FloorImages.MainIndex)
	}
}

func TestApplyRecordPlanRowsAndFeatures(t *testing.T) {
	f := NewProjectFormState()
	f.ApplyRecord(HydrationRecord{
		PlanRows: []PlanDetailRow{{Type: "2BHK", Area: "980", Price: "52L"}},
		Features: []string{"Infinity pool", "  "},
	}, nil)

	if len(f.Plans.Rows) != 1 || f.Plans.Rows[0].Type != "2BHK" {
		t.Fatalf("unexpected plan rows: %+v", f.Plans.Rows)
	}
	if len(f.Features.Items) != 1 || f.Features.Items[0] != "Infinity pool" {
		t.Fatalf("unexpected features: %v", f.Features.Items)
	}
}

func TestResetReturnsStagedIDs(t *testing.T) {
	f := NewProjectFormState()
	if err := f.ProjectImages.AddEntries(NewLocalEntry("a", "/uploads/a.jpg")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.FloorImages.AddEntries(NewLocalEntry("b", "/uploads/b.jpg"), NewRemoteEntry("https://x/y.jpg")); err != nil {
		t.Fatalf("add: %v", err)
	}
	f.Scalars.Name = "To be cleared"

	staged := f.Reset()
	if len(staged) != 2 {
		t.Fatalf("expected 2 staged ids, got %v", staged)
	}
	if f.Scalars.Name != "" || f.ProjectImages.Len() != 0 {
		t.Fatalf("form not reset: %+v", f.Scalars)
	}
	if len(f.Plans.Rows) != 1 {
		t.Fatalf("reset should restore the blank plan row")
	}
}

func TestGroupLookup(t *testing.T) {
	f := NewProjectFormState()
	if f.Group(GroupFloor) != &f.FloorImages {
		t.Fatalf("wrong group returned")
	}
	if f.Group("bogus") != nil {
		t.Fatalf("unknown kind should return nil")
	}
	if _, ok := ParseGroupKind(" Project "); !ok {
		t.Fatalf("expected parse to accept padded case-insensitive kind")
	}
}

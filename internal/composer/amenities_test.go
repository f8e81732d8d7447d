package composer

import "testing"

func TestToggleCheckbox(t *testing.T) {
	var a AmenitySelection
	a.ToggleCheckbox("gym")
	a.ToggleCheckbox("pool")
	a.ToggleCheckbox("gym")
	if len(a.Checkboxes) != 1 || a.Checkboxes[0] != "pool" {
		t.Fatalf("unexpected checkboxes: %v", a.Checkboxes)
	}
}

func TestSelectRadioReplacesPrevious(t *testing.T) {
	var a AmenitySelection
	a.SelectRadio("furnished")
	a.SelectRadio("semi-furnished")

	resolved := a.Resolved()
	radioCount := 0
	for _, id := range resolved {
		if id == "furnished" || id == "semi-furnished" {
			radioCount++
		}
	}
	if radioCount != 1 {
		t.Fatalf("expected a single radio id in resolved set, got %v", resolved)
	}
	if a.Radio != "semi-furnished" {
		t.Fatalf("expected latest radio to win, got %q", a.Radio)
	}
}

func TestResolvedUnionsCheckboxesAndRadio(t *testing.T) {
	var a AmenitySelection
	a.ToggleCheckbox("gym")
	a.ToggleCheckbox("park")
	a.SelectRadio("unfurnished")

	resolved := a.Resolved()
	if len(resolved) != 3 {
		t.Fatalf("expected 3 ids, got %v", resolved)
	}
	if resolved[2] != "unfurnished" {
		t.Fatalf("expected radio id last, got %v", resolved)
	}
}

func TestResolvedEmptySelection(t *testing.T) {
	var a AmenitySelection
	if got := a.Resolved(); len(got) != 0 {
		t.Fatalf("expected empty resolution, got %v", got)
	}
}

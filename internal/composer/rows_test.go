package composer

import (
	"errors"
	"testing"
)

func TestPlanDetailsStartsWithBlankRow(t *testing.T) {
	p := NewPlanDetails()
	if len(p.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(p.Rows))
	}
	if !p.Rows[0].IsBlank() {
		t.Fatalf("expected blank starter row, got %+v", p.Rows[0])
	}
}

func TestPlanDetailsRemoveLastRowReinsertsBlank(t *testing.T) {
	p := NewPlanDetails()
	if err := p.UpdateField(0, PlanFieldType, "2BHK"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := p.RemoveRow(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(p.Rows) != 1 {
		t.Fatalf("expected floor of 1 row, got %d", len(p.Rows))
	}
	if !p.Rows[0].IsBlank() {
		t.Fatalf("expected reinserted blank row, got %+v", p.Rows[0])
	}
}

func TestPlanDetailsUpdateField(t *testing.T) {
	p := NewPlanDetails()
	p.AddRow()
	if err := p.UpdateField(1, PlanFieldArea, "1200 sqft"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := p.UpdateField(1, PlanFieldPrice, "45L"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Rows[1].Area != "1200 sqft" || p.Rows[1].Price != "45L" {
		t.Fatalf("unexpected row: %+v", p.Rows[1])
	}

	if err := p.UpdateField(1, "bogus", "x"); !errors.Is(err, ErrUnknownPlanField) {
		t.Fatalf("expected ErrUnknownPlanField, got %v", err)
	}
	if err := p.UpdateField(9, PlanFieldType, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestExclusiveFeaturesRejectsBlank(t *testing.T) {
	var f ExclusiveFeatures
	if f.AddFeature("   ") {
		t.Fatalf("blank feature should be rejected")
	}
	if !f.AddFeature("  Clubhouse ") {
		t.Fatalf("non-blank feature should be accepted")
	}
	if len(f.Items) != 1 || f.Items[0] != "Clubhouse" {
		t.Fatalf("unexpected items: %v", f.Items)
	}
}

func TestExclusiveFeaturesMayBecomeEmpty(t *testing.T) {
	var f ExclusiveFeatures
	f.AddFeature("Sky deck")
	if err := f.RemoveFeature(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(f.Items) != 0 {
		t.Fatalf("expected empty list, got %v", f.Items)
	}
	if err := f.RemoveFeature(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

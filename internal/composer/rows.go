package composer

import "strings"

// PlanDetailRow is one free-text row of the plan table. All three fields are
// kept as entered; blank rows are dropped at serialization time.
type PlanDetailRow struct {
	Type  string `bson:"type" json:"type"`
	Area  string `bson:"area" json:"area"`
	Price string `bson:"price" json:"price"`
}

func (r PlanDetailRow) IsBlank() bool {
	return strings.TrimSpace(r.Type) == "" &&
		strings.TrimSpace(r.Area) == "" &&
		strings.TrimSpace(r.Price) == ""
}

// PlanDetails is the repeatable plan-row editor. The list never goes below
// one row: removing the last row reinserts a blank one.
type PlanDetails struct {
	Rows []PlanDetailRow `bson:"rows" json:"rows"`
}

func NewPlanDetails() PlanDetails {
	return PlanDetails{Rows: []PlanDetailRow{{}}}
}

func (p *PlanDetails) AddRow() {
	p.Rows = append(p.Rows, PlanDetailRow{})
}

const (
	PlanFieldType  = "type"
	PlanFieldArea  = "area"
	PlanFieldPrice = "price"
)

func (p *PlanDetails) UpdateField(index int, field, value string) error {
	if index < 0 || index >= len(p.Rows) {
		return ErrIndexOutOfRange
	}
	switch field {
	case PlanFieldType:
		p.Rows[index].Type = value
	case PlanFieldArea:
		p.Rows[index].Area = value
	case PlanFieldPrice:
		p.Rows[index].Price = value
	default:
		return ErrUnknownPlanField
	}
	return nil
}

func (p *PlanDetails) RemoveRow(index int) error {
	if index < 0 || index >= len(p.Rows) {
		return ErrIndexOutOfRange
	}
	p.Rows = append(p.Rows[:index], p.Rows[index+1:]...)
	if len(p.Rows) == 0 {
		p.Rows = []PlanDetailRow{{}}
	}
	return nil
}

// ExclusiveFeatures is the repeatable free-text editor. Unlike PlanDetails it
// has no floor and may become empty.
type ExclusiveFeatures struct {
	Items []string `bson:"items" json:"items"`
}

// AddFeature appends only when the trimmed text is non-blank.
func (f *ExclusiveFeatures) AddFeature(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	f.Items = append(f.Items, text)
	return true
}

func (f *ExclusiveFeatures) RemoveFeature(index int) error {
	if index < 0 || index >= len(f.Items) {
		return ErrIndexOutOfRange
	}
	f.Items = append(f.Items[:index], f.Items[index+1:]...)
	return nil
}

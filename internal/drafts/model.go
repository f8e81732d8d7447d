package drafts

import (
	"time"

	"estatedesk-backend/internal/composer"
)

// Draft is one persisted form-in-progress. The composer aggregate carries the
// whole form; the envelope adds ownership and the remote project link for the
// update flow.
type Draft struct {
	ID              string                    `bson:"_id,omitempty" json:"id"`
	OwnerID         string                    `bson:"owner_id" json:"-"`
	RemoteProjectID string                    `bson:"remote_project_id,omitempty" json:"remote_project_id,omitempty"`
	Form            composer.ProjectFormState `bson:"form" json:"form"`
	CreatedAt       time.Time                 `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time                 `bson:"updated_at" json:"updated_at"`
}

type ScalarsRequest struct {
	Name                   string `json:"name"`
	ProjectType            string `json:"project_type"`
	Description            string `json:"description"`
	Price                  string `json:"price"`
	Area                   string `json:"area"`
	Beds                   string `json:"beds"`
	Status                 string `json:"status"`
	Possession             string `json:"possession"`
	Address                string `json:"address"`
	Locality               string `json:"locality"`
	CityID                 string `json:"city_id"`
	StateID                string `json:"state_id"`
	IsNA                   bool   `json:"is_na"`
	IsReraApproved         bool   `json:"is_rera_approved"`
	IsOCApproved           bool   `json:"is_oc_approved"`
	ReraNumber             string `json:"rera_number"`
	ReraDate               string `json:"rera_date" validate:"omitempty,date"`
	ProjectAreaAcres       string `json:"project_area_acres"`
	LaunchDate             string `json:"launch_date" validate:"omitempty,date"`
	ExpectedCompletionDate string `json:"expected_completion_date" validate:"omitempty,date"`
	OCDate                 string `json:"oc_date" validate:"omitempty,date"`
}

func (r ScalarsRequest) toScalars() composer.ScalarFields {
	return composer.ScalarFields{
		Name:                   r.Name,
		ProjectType:            r.ProjectType,
		Description:            r.Description,
		Price:                  r.Price,
		Area:                   r.Area,
		Beds:                   r.Beds,
		Status:                 r.Status,
		Possession:             r.Possession,
		Address:                r.Address,
		Locality:               r.Locality,
		CityID:                 r.CityID,
		StateID:                r.StateID,
		IsNA:                   r.IsNA,
		IsReraApproved:         r.IsReraApproved,
		IsOCApproved:           r.IsOCApproved,
		ReraNumber:             r.ReraNumber,
		ReraDate:               r.ReraDate,
		ProjectAreaAcres:       r.ProjectAreaAcres,
		LaunchDate:             r.LaunchDate,
		ExpectedCompletionDate: r.ExpectedCompletionDate,
		OCDate:                 r.OCDate,
	}
}

type SetMainRequest struct {
	Index int `json:"index"`
}

type PlanFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=type area price"`
	Value string `json:"value"`
}

type FeatureRequest struct {
	Text string `json:"text" validate:"required"`
}

type AmenityRequest struct {
	AmenityID string `json:"amenity_id" validate:"required"`
}

type HydrateRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
}

type SubmitRequest struct {
	Mode          string `json:"mode" validate:"required,oneof=create admin_create update"`
	ProjectID     string `json:"project_id"`
	BuilderID     string `json:"builder_id"`
	ContactName   string `json:"contact_name"`
	Phone         string `json:"phone" validate:"omitempty,phone10"`
	Email         string `json:"email" validate:"omitempty,email"`
	TermsAccepted bool   `json:"terms_accepted"`
	OTP           string `json:"otp" validate:"omitempty,otp6"`
}

type ResendOTPRequest struct {
	BuilderID string `json:"builder_id" validate:"required"`
}

// AddImagesResult reports a staged batch: entries that made it into the group
// and the files that failed compression and were skipped with a warning.
type AddImagesResult struct {
	Draft   Draft    `json:"draft"`
	Skipped []string `json:"skipped,omitempty"`
}

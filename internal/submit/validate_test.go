package submit

import (
	"testing"

	"estatedesk-backend/internal/composer"
)

func validCreateRequest() Request {
	return Request{
		Mode:          ModeCreate,
		ContactName:   "Asha Rao",
		Phone:         "9876543210",
		TermsAccepted: true,
	}
}

func filledForm() composer.ProjectFormState {
	form := composer.NewProjectFormState()
	form.Scalars.Name = "Skyline Towers"
	form.Scalars.StateID = "7"
	form.Scalars.CityID = "12"
	return form
}

func TestValidateCreateHappyPath(t *testing.T) {
	form := filledForm()
	if errs := Validate(&form, validCreateRequest()); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateShortPhoneBlocksSubmission(t *testing.T) {
	form := filledForm()
	req := validCreateRequest()
	req.Phone = "12345"
	errs := Validate(&form, req)
	if errs == nil || errs["phone"] == "" {
		t.Fatalf("expected phone error, got %v", errs)
	}
}

func TestValidatePhoneRejectsNonDigits(t *testing.T) {
	form := filledForm()
	req := validCreateRequest()
	req.Phone = "98765o3210"
	if errs := Validate(&form, req); errs == nil || errs["phone"] == "" {
		t.Fatalf("expected phone error, got %v", errs)
	}
}

func TestValidateAdminCreateRequiresBuilder(t *testing.T) {
	form := filledForm()
	req := validCreateRequest()
	req.Mode = ModeAdminCreate
	errs := Validate(&form, req)
	if errs == nil || errs["builder_id"] == "" {
		t.Fatalf("expected builder error, got %v", errs)
	}

	req.BuilderID = "b-1"
	if errs := Validate(&form, req); errs != nil {
		t.Fatalf("expected no errors with builder set, got %v", errs)
	}
}

func TestValidateRequiresStateCityAndTerms(t *testing.T) {
	form := composer.NewProjectFormState()
	form.Scalars.Name = "No Location Heights"
	req := validCreateRequest()
	req.TermsAccepted = false

	errs := Validate(&form, req)
	for _, field := range []string{"state_id", "city_id", "terms"} {
		if errs[field] == "" {
			t.Fatalf("expected %s error, got %v", field, errs)
		}
	}
}

func TestValidateUpdateIsLooser(t *testing.T) {
	form := filledForm()
	// No contact, phone or terms: the update profile only needs the name
	// and the target project id.
	errs := Validate(&form, Request{Mode: ModeUpdate, ProjectID: "p-1"})
	if errs != nil {
		t.Fatalf("expected no errors for update, got %v", errs)
	}

	errs = Validate(&form, Request{Mode: ModeUpdate})
	if errs == nil || errs["project_id"] == "" {
		t.Fatalf("expected project_id error, got %v", errs)
	}
}

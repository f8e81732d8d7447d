package submit

import (
	"regexp"
	"strings"

	"estatedesk-backend/internal/composer"
)

// Mode selects which endpoint and validation profile a submission uses.
type Mode string

const (
	ModeCreate      Mode = "create"
	ModeAdminCreate Mode = "admin_create"
	ModeUpdate      Mode = "update"
)

// Request carries the submission-level inputs that accompany the form state:
// who is posting, how to reach them, and the confirmations the flow needs.
type Request struct {
	Mode          Mode
	ProjectID     string
	BuilderID     string
	ContactName   string
	Phone         string
	Email         string
	TermsAccepted bool
	OTP           string
}

var phoneDigits = regexp.MustCompile(`^[0-9]{10}$`)

// Validate applies the per-mode field rules locally, before any network
// call. A non-empty result blocks submission. The update profile is looser:
// most fields arrive pre-filled from the fetched record.
func Validate(form *composer.ProjectFormState, req Request) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(form.Scalars.Name) == "" {
		errs["name"] = "project name is required"
	}

	if req.Mode == ModeUpdate {
		if strings.TrimSpace(req.ProjectID) == "" {
			errs["project_id"] = "project id is required"
		}
		return compact(errs)
	}

	if req.Mode == ModeAdminCreate && strings.TrimSpace(req.BuilderID) == "" {
		errs["builder_id"] = "select a builder"
	}
	if strings.TrimSpace(req.ContactName) == "" {
		errs["contact_name"] = "contact name is required"
	}
	if !phoneDigits.MatchString(strings.TrimSpace(req.Phone)) {
		errs["phone"] = "phone must be exactly 10 digits"
	}
	if strings.TrimSpace(form.Scalars.StateID) == "" {
		errs["state_id"] = "select a state"
	}
	if strings.TrimSpace(form.Scalars.CityID) == "" {
		errs["city_id"] = "select a city"
	}
	if !req.TermsAccepted {
		errs["terms"] = "accept the terms to continue"
	}

	return compact(errs)
}

func compact(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

package builderapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ProjectDetails is the hydration source returned by GetProjectDetails. The
// API returns human-readable state and city names; callers reverse-map them
// to ids through the reference data provider.
type ProjectDetails struct {
	ProjectID              string          `json:"projectId"`
	Name                   string          `json:"name"`
	ProjectType            string          `json:"projectType"`
	Description            string          `json:"description"`
	Price                  string          `json:"price"`
	Area                   string          `json:"area"`
	Beds                   string          `json:"beds"`
	Status                 string          `json:"status"`
	Possession             string          `json:"possession"`
	Address                string          `json:"address"`
	Locality               string          `json:"locality"`
	City                   string          `json:"city"`
	State                  string          `json:"state"`
	IsNA                   bool            `json:"isNA"`
	IsReraApproved         bool            `json:"isReraApproved"`
	IsOCApproved           bool            `json:"isOCApproved"`
	ReraNumber             string          `json:"reraNumber"`
	ReraDate               string          `json:"reraDate"`
	ProjectAreaAcres       string          `json:"projectAreaAcres"`
	LaunchDate             string          `json:"launchDate"`
	ExpectedCompletionDate string          `json:"expectedCompletionDate"`
	OCDate                 string          `json:"ocDate"`
	AmenityDetails         []AmenityDetail `json:"amenityDetails"`
	ProjectImages          []ImageDetail   `json:"projectImages"`
	AmenityImages          []ImageDetail   `json:"amenityImages"`
	FloorImages            []ImageDetail   `json:"floorImages"`
	PlanDetails            []PlanDetail    `json:"planDetails"`
	ExclusiveFeatures      []string        `json:"exclusiveFeatures"`
}

type AmenityDetail struct {
	AmenityID string `json:"amenityId"`
	Name      string `json:"amenityName"`
}

type ImageDetail struct {
	ImageURL string `json:"imageUrl"`
	IsMain   bool   `json:"isMain"`
}

type PlanDetail struct {
	Type  string `json:"planType"`
	Area  string `json:"area"`
	Price string `json:"price"`
}

// SubmitResult is the success envelope of AddProject/UpdateProject.
type SubmitResult struct {
	ProjectID string `json:"projectId"`
	Message   string `json:"message"`
}

// APIError carries the remote status and the body's message so the
// submission controller can classify the failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("builder api: status %d", e.Status)
	}
	return fmt.Sprintf("builder api: status %d: %s", e.Status, e.Message)
}

// AsAPIError unwraps err into an APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// RequiresOTP reports whether the failure means the add-project flow must
// collect a one-time code: a 400 response or any message mentioning OTP.
func RequiresOTP(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	if apiErr.Status == http.StatusBadRequest {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "otp")
}

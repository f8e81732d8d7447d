package submit

import (
	"context"
	"log/slog"
	"net/http"

	"estatedesk-backend/internal/builderapi"
)

// Status is the terminal state of one submission attempt. Every attempt ends
// back at idle; only the outcome differs.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusInvalid     Status = "invalid"
	StatusOTPRequired Status = "otp_required"
	StatusFailed      Status = "failed"
)

// Outcome is what the caller surfaces to the user. The form state itself is
// never touched on failure so the user can correct and resubmit.
type Outcome struct {
	Status         Status            `json:"status"`
	ProjectID      string            `json:"project_id,omitempty"`
	Message        string            `json:"message,omitempty"`
	FieldErrors    map[string]string `json:"field_errors,omitempty"`
	SessionExpired bool              `json:"session_expired,omitempty"`
}

// API is the remote surface the controller drives; *builderapi.Client
// satisfies it.
type API interface {
	AddProject(ctx context.Context, payload *builderapi.Payload, opts builderapi.AddOptions) (builderapi.SubmitResult, error)
	UpdateProject(ctx context.Context, projectID string, payload *builderapi.Payload) (builderapi.SubmitResult, error)
	ResendOTP(ctx context.Context, builderID string) error
}

// Controller orchestrates validate → serialize → submit → classify. It never
// retries; every failure is terminal for the attempt.
type Controller struct {
	api   API
	files builderapi.FileSource
	log   *slog.Logger
}

func NewController(api API, files builderapi.FileSource, log *slog.Logger) *Controller {
	return &Controller{api: api, files: files, log: log}
}

// Submit runs one attempt. All remote failures are caught here and converted
// into an Outcome; nothing propagates.
func (c *Controller) Submit(ctx context.Context, payload *builderapi.Payload, req Request) Outcome {
	if fieldErrs := Validate(payload.Form, req); fieldErrs != nil {
		return Outcome{Status: StatusInvalid, Message: "please correct the highlighted fields", FieldErrors: fieldErrs}
	}

	payload.Files = c.files

	var (
		result builderapi.SubmitResult
		err    error
	)
	switch req.Mode {
	case ModeUpdate:
		result, err = c.api.UpdateProject(ctx, req.ProjectID, payload)
	default:
		result, err = c.api.AddProject(ctx, payload, builderapi.AddOptions{
			BuilderID: req.BuilderID,
			OTP:       req.OTP,
		})
	}
	if err == nil {
		c.log.Info("project submission accepted",
			slog.String("mode", string(req.Mode)),
			slog.String("project_id", result.ProjectID),
		)
		return Outcome{Status: StatusSubmitted, ProjectID: result.ProjectID, Message: result.Message}
	}

	// The admin add-project path first tries without a code; the API
	// answering 400 (or mentioning OTP) means "verify first", not a
	// terminal failure.
	if req.Mode == ModeAdminCreate && req.OTP == "" && builderapi.RequiresOTP(err) {
		c.log.Info("project submission needs otp verification", slog.String("builder_id", req.BuilderID))
		return Outcome{Status: StatusOTPRequired, Message: "enter the 6-digit code sent to the builder"}
	}

	c.log.Warn("project submission failed",
		slog.String("mode", string(req.Mode)),
		slog.String("error", err.Error()),
	)
	return c.classify(err)
}

// ResendOTP asks for a fresh code. A 429 is surfaced as "wait", never
// retried automatically.
func (c *Controller) ResendOTP(ctx context.Context, builderID string) Outcome {
	if err := c.api.ResendOTP(ctx, builderID); err != nil {
		c.log.Warn("otp resend failed", slog.String("error", err.Error()))
		return c.classify(err)
	}
	return Outcome{Status: StatusOTPRequired, Message: "a new code has been sent"}
}

// classify maps a remote failure onto the small user-facing taxonomy.
func (c *Controller) classify(err error) Outcome {
	apiErr, ok := builderapi.AsAPIError(err)
	if !ok {
		return Outcome{Status: StatusFailed, Message: "could not reach the listing service, please try again"}
	}

	switch {
	case apiErr.Status == http.StatusUnauthorized:
		return Outcome{
			Status:         StatusFailed,
			Message:        "your session has expired, please sign in again",
			SessionExpired: true,
		}
	case apiErr.Status == http.StatusTooManyRequests:
		return Outcome{Status: StatusFailed, Message: "too many attempts, please wait a moment and try again"}
	case apiErr.Status >= 500:
		return Outcome{Status: StatusFailed, Message: "the listing service had a problem, please try again later"}
	case apiErr.Message != "":
		return Outcome{Status: StatusFailed, Message: apiErr.Message}
	default:
		return Outcome{Status: StatusFailed, Message: "submission was rejected, please review the form"}
	}
}

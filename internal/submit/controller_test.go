package submit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"estatedesk-backend/internal/builderapi"
	"estatedesk-backend/internal/composer"
)

type fakeAPI struct {
	addCalls    int
	updateCalls int
	resendCalls int
	addErr      error
	updateErr   error
	resendErr   error
	lastOTP     string
	result      builderapi.SubmitResult
}

func (f *fakeAPI) AddProject(ctx context.Context, payload *builderapi.Payload, opts builderapi.AddOptions) (builderapi.SubmitResult, error) {
	f.addCalls++
	f.lastOTP = opts.OTP
	if f.addErr != nil {
		return builderapi.SubmitResult{}, f.addErr
	}
	return f.result, nil
}

func (f *fakeAPI) UpdateProject(ctx context.Context, projectID string, payload *builderapi.Payload) (builderapi.SubmitResult, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return builderapi.SubmitResult{}, f.updateErr
	}
	return f.result, nil
}

func (f *fakeAPI) ResendOTP(ctx context.Context, builderID string) error {
	f.resendCalls++
	return f.resendErr
}

type noFiles struct{}

func (noFiles) Open(id string) ([]byte, error) { return nil, errors.New("no staged files") }

func newController(api *fakeAPI) *Controller {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewController(api, noFiles{}, log)
}

func submitPayload() (*builderapi.Payload, composer.ProjectFormState) {
	form := filledForm()
	return &builderapi.Payload{Form: &form}, form
}

func TestSubmitValidationErrorMakesNoNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	c := newController(api)
	payload, _ := submitPayload()
	req := validCreateRequest()
	req.Phone = "12345"

	outcome := c.Submit(context.Background(), payload, req)
	if outcome.Status != StatusInvalid {
		t.Fatalf("expected invalid, got %+v", outcome)
	}
	if api.addCalls != 0 {
		t.Fatalf("validation failure must not hit the network, got %d calls", api.addCalls)
	}
}

func TestSubmitSuccess(t *testing.T) {
	api := &fakeAPI{result: builderapi.SubmitResult{ProjectID: "p-42", Message: "created"}}
	c := newController(api)
	payload, _ := submitPayload()

	outcome := c.Submit(context.Background(), payload, validCreateRequest())
	if outcome.Status != StatusSubmitted || outcome.ProjectID != "p-42" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestAdminSubmit400TransitionsToOTPStep(t *testing.T) {
	api := &fakeAPI{addErr: &builderapi.APIError{Status: http.StatusBadRequest, Message: "OTP required"}}
	c := newController(api)
	payload, _ := submitPayload()
	req := validCreateRequest()
	req.Mode = ModeAdminCreate
	req.BuilderID = "b-1"

	outcome := c.Submit(context.Background(), payload, req)
	if outcome.Status != StatusOTPRequired {
		t.Fatalf("expected otp_required, got %+v", outcome)
	}
}

func TestAdminSubmitWithOTPDoesNotLoop(t *testing.T) {
	// Once a code is attached, a 400 is a terminal failure, not another
	// OTP prompt.
	api := &fakeAPI{addErr: &builderapi.APIError{Status: http.StatusBadRequest, Message: "invalid otp"}}
	c := newController(api)
	payload, _ := submitPayload()
	req := validCreateRequest()
	req.Mode = ModeAdminCreate
	req.BuilderID = "b-1"
	req.OTP = "123456"

	outcome := c.Submit(context.Background(), payload, req)
	if outcome.Status != StatusFailed {
		t.Fatalf("expected failed, got %+v", outcome)
	}
	if api.lastOTP != "123456" {
		t.Fatalf("otp not forwarded, got %q", api.lastOTP)
	}
}

func TestNonAdminCreate400IsTerminal(t *testing.T) {
	api := &fakeAPI{addErr: &builderapi.APIError{Status: http.StatusBadRequest, Message: "missing field"}}
	c := newController(api)
	payload, _ := submitPayload()

	outcome := c.Submit(context.Background(), payload, validCreateRequest())
	if outcome.Status != StatusFailed || outcome.Message != "missing field" {
		t.Fatalf("expected terminal failure with body message, got %+v", outcome)
	}
}

func TestClassify401SignalsSessionExpired(t *testing.T) {
	api := &fakeAPI{addErr: &builderapi.APIError{Status: http.StatusUnauthorized}}
	c := newController(api)
	payload, _ := submitPayload()

	outcome := c.Submit(context.Background(), payload, validCreateRequest())
	if outcome.Status != StatusFailed || !outcome.SessionExpired {
		t.Fatalf("expected session-expired failure, got %+v", outcome)
	}
}

func TestClassify429AsksToWait(t *testing.T) {
	api := &fakeAPI{addErr: &builderapi.APIError{Status: http.StatusTooManyRequests}}
	c := newController(api)
	payload, _ := submitPayload()

	outcome := c.Submit(context.Background(), payload, validCreateRequest())
	if outcome.Status != StatusFailed {
		t.Fatalf("expected failure, got %+v", outcome)
	}
	if api.addCalls != 1 {
		t.Fatalf("429 must not be retried, got %d calls", api.addCalls)
	}
}

func TestClassify5xxGenericNoRetry(t *testing.T) {
	api := &fakeAPI{addErr: &builderapi.APIError{Status: http.StatusBadGateway, Message: "upstream exploded"}}
	c := newController(api)
	payload, _ := submitPayload()

	outcome := c.Submit(context.Background(), payload, validCreateRequest())
	if outcome.Status != StatusFailed {
		t.Fatalf("expected failure, got %+v", outcome)
	}
	if outcome.Message == "upstream exploded" {
		t.Fatalf("5xx must use the generic message, got %q", outcome.Message)
	}
	if api.addCalls != 1 {
		t.Fatalf("5xx must not be retried, got %d calls", api.addCalls)
	}
}

func TestUpdateModeUsesUpdateEndpoint(t *testing.T) {
	api := &fakeAPI{result: builderapi.SubmitResult{ProjectID: "p-9"}}
	c := newController(api)
	payload, _ := submitPayload()

	outcome := c.Submit(context.Background(), payload, Request{Mode: ModeUpdate, ProjectID: "p-9"})
	if outcome.Status != StatusSubmitted {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if api.updateCalls != 1 || api.addCalls != 0 {
		t.Fatalf("expected update endpoint, got add=%d update=%d", api.addCalls, api.updateCalls)
	}
}

func TestResendOTPRateLimited(t *testing.T) {
	api := &fakeAPI{resendErr: &builderapi.APIError{Status: http.StatusTooManyRequests}}
	c := newController(api)

	outcome := c.ResendOTP(context.Background(), "b-1")
	if outcome.Status != StatusFailed {
		t.Fatalf("expected failure, got %+v", outcome)
	}
	if api.resendCalls != 1 {
		t.Fatalf("resend must not auto-retry, got %d calls", api.resendCalls)
	}
}

package builderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"estatedesk-backend/internal/composer"
)

// Client talks to the remote builder-project API. It never retries; failure
// policy lives in the submission controller.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// AddOptions carries the create-only extras: the builder posting on the
// admin path and the OTP collected by the verification step.
type AddOptions struct {
	BuilderID string
	OTP       string
}

// AddProject submits a new project with the create-endpoint encoding.
func (c *Client) AddProject(ctx context.Context, payload *Payload, opts AddOptions) (SubmitResult, error) {
	var body bytes.Buffer
	contentType, err := buildBody(&body, payload.Form, payload.Files, createEncoding, serializeOptions{
		builderID: opts.BuilderID,
		otp:       opts.OTP,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("serialize add project: %w", err)
	}
	return c.postMultipart(ctx, "/Builder/AddProject", contentType, &body)
}

// UpdateProject submits an edit with the update-endpoint encoding, which
// carries persisted images by URL and uses the update plan-field names.
func (c *Client) UpdateProject(ctx context.Context, projectID string, payload *Payload) (SubmitResult, error) {
	var body bytes.Buffer
	contentType, err := buildBody(&body, payload.Form, payload.Files, updateEncoding, serializeOptions{
		projectID: projectID,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("serialize update project: %w", err)
	}
	return c.postMultipart(ctx, "/Builder/UpdateProject", contentType, &body)
}

// GetProjectDetails fetches the hydration source for the update flow.
func (c *Client) GetProjectDetails(ctx context.Context, projectID string) (ProjectDetails, error) {
	endpoint := c.baseURL + "/Builder/GetProjectDetails?projectId=" + url.QueryEscape(projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ProjectDetails{}, fmt.Errorf("builder create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ProjectDetails{}, fmt.Errorf("builder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ProjectDetails{}, decodeError(resp)
	}

	var details ProjectDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return ProjectDetails{}, fmt.Errorf("builder decode details: %w", err)
	}
	return details, nil
}

// ResendOTP asks the API to send a fresh code for a pending add-project
// attempt. A 429 is returned as-is for the controller to surface.
func (c *Client) ResendOTP(ctx context.Context, builderID string) error {
	payload, err := json.Marshal(map[string]string{"builderId": builderID})
	if err != nil {
		return fmt.Errorf("builder marshal otp resend: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Builder/ResendOtp", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("builder create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("builder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	return nil
}

// Payload bundles the form state with the staged-file source it references.
type Payload struct {
	Form  *composer.ProjectFormState
	Files FileSource
}

func (c *Client) postMultipart(ctx context.Context, path, contentType string, body io.Reader) (SubmitResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("builder create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("content-type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("builder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return SubmitResult{}, decodeError(resp)
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SubmitResult{}, fmt.Errorf("builder decode response: %w", err)
	}
	return result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}

// decodeError reads a bounded slice of the failure body and extracts its
// message field when one exists.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(body))

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			message = envelope.Message
		} else if envelope.Error != "" {
			message = envelope.Error
		}
	}
	return &APIError{Status: resp.StatusCode, Message: message}
}

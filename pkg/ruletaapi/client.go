package ruletaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cardroid/ruleta/internal/models"
	"github.com/google/uuid"
)

const (
	OpSpinConfig = "spin-config"
	OpRegister   = "register"
	OpSpin       = "spin"
	OpShare      = "share"
)

// MaxResponseBytes caps the size of a response body read from the API
const MaxResponseBytes = 1 << 20

// Client represents a remote prize API client
type Client struct {
	BaseURL string
	client  *http.Client
}

// ShareResult is the outcome of a share-bonus request
type ShareResult struct {
	SpinsAvailable int
	Message        string
}

// NewClient creates a new prize API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a client that sends requests through httpClient
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// SpinConfig retrieves the wheel segment layout
func (c *Client) SpinConfig(ctx context.Context) (*models.WheelConfig, error) {
	var cfg models.WheelConfig
	if err := c.do(ctx, OpSpinConfig, http.MethodGet, "/api/spin-config", nil, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Segments) == 0 {
		return nil, &ProtocolError{Op: OpSpinConfig, Reason: "no segments"}
	}
	return &cfg, nil
}

// Register registers a player and returns the server's user record
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisteredUser, error) {
	var resp models.RegisterResponse
	if err := c.do(ctx, OpRegister, http.MethodPost, "/api/register", req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.SpinsAvailable == nil {
		return nil, &APIError{Op: OpRegister, Status: http.StatusOK, Message: resp.Message, Malformed: true}
	}
	return resp.User, nil
}

// Spin executes one spin for plate. The stop angle is returned as sent;
// range checking is left to the caller.
func (c *Client) Spin(ctx context.Context, plate string) (*models.SpinOutcome, error) {
	var resp models.SpinResponse
	if err := c.do(ctx, OpSpin, http.MethodPost, "/api/spin", models.PlateRequest{Plate: plate}, &resp); err != nil {
		return nil, err
	}
	if resp.Prize == nil || resp.Prize.Text == "" || resp.StopAngle == nil || resp.SpinsAvailable == nil {
		return nil, &APIError{Op: OpSpin, Status: http.StatusOK, Message: resp.Message, Malformed: true}
	}
	return &models.SpinOutcome{
		PrizeText:      resp.Prize.Text,
		StopAngle:      *resp.StopAngle,
		SpinsAvailable: *resp.SpinsAvailable,
		Prizes:         resp.Prizes,
	}, nil
}

// Share requests the share bonus for plate
func (c *Client) Share(ctx context.Context, plate string) (*ShareResult, error) {
	var resp models.ShareResponse
	if err := c.do(ctx, OpShare, http.MethodPost, "/api/share", models.PlateRequest{Plate: plate}, &resp); err != nil {
		return nil, err
	}
	if resp.SpinsAvailable == nil {
		return nil, &APIError{Op: OpShare, Status: http.StatusOK, Message: resp.Message, Malformed: true}
	}
	return &ShareResult{SpinsAvailable: *resp.SpinsAvailable, Message: resp.Message}, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request body: %w", op, err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to send request: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("%s: failed to read response body: %w", op, err)
	}
	log.Printf("[ruletaapi] %s %s -> %d (request %s)", method, path, resp.StatusCode, requestID)
	if len(data) > MaxResponseBytes {
		return &APIError{Op: op, Status: resp.StatusCode, Malformed: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp models.ErrorResponse
		_ = json.Unmarshal(data, &errResp)
		return &APIError{Op: op, Status: resp.StatusCode, Message: strings.TrimSpace(errResp.Message)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Malformed: true}
	}
	return nil
}

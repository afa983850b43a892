package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ventures/internal/api"
	"ventures/internal/game"
)

// Backend is everything the CLI and the TUI can do to a venture. *game.Service plays
// locally; *Client plays against a ventures-api server.
type Backend interface {
	NewVenture(ctx context.Context, name string, startupType game.StartupType, path game.StartingPath) (game.Result, error)
	Dashboard(ctx context.Context) (game.Dashboard, error)
	AdvanceDays(ctx context.Context, n int) (game.Result, error)
	DevelopFeature(ctx context.Context, featureID string) (game.Result, error)
	StartHiring(ctx context.Context, role string, salary float64) (game.Result, error)
	UnlockChannel(ctx context.Context, channelID string) (game.Result, error)
	RunCampaign(ctx context.Context, channelID string) (game.Result, error)
	EvaluatePitch(ctx context.Context) (game.PitchEvaluation, error)
	Pitch(ctx context.Context, accept bool) (game.PitchResult, error)
	RepayDebt(ctx context.Context, amount float64) (game.Result, error)
	SetOffice(ctx context.Context, rented bool) (game.Result, error)
	Events(ctx context.Context, limit int) ([]game.EventRecord, error)
	Wipe(ctx context.Context) error
	Catalog(ctx context.Context) (game.Catalog, error)
}

var (
	_ Backend = (*game.Service)(nil)
	_ Backend = (*Client)(nil)
)

// APIError is a non-2xx response. It unwraps to the game sentinel named by its code,
// so errors.Is works the same against local and remote backends.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return api.ErrorForCode(e.Code)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) NewVenture(ctx context.Context, name string, startupType game.StartupType, path game.StartingPath) (game.Result, error) {
	var out game.Result
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/venture", api.CreateVentureRequest{
		Name:         name,
		StartupType:  string(startupType),
		StartingPath: string(path),
	}, &out)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context) (game.Dashboard, error) {
	var out game.Dashboard
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/venture", nil, &out)
	return out, err
}

func (c *Client) AdvanceDays(ctx context.Context, n int) (game.Result, error) {
	var out game.Result
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/venture/advance", api.AdvanceRequest{Days: n}, &out)
	return out, err
}

func (c *Client) DevelopFeature(ctx context.Context, featureID string) (game.Result, error) {
	var out game.Result
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/venture/features/"+url.PathEscape(featureID)+"/develop", nil, &out)
	return out, err
}

func (c *Client) StartHiring(ctx context.Context, role string, salary float64) (game.Result, error) {
	var out game.Result
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/venture/hiring", api.HireRequest{Role: role, Salary: salary}, &out)
	return out, err
}

func (c *Client) UnlockChannel(ctx context.Context, channelID string) (game.Result, error) {
	var out game.Result
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/venture/channels/"+url.PathEscape(channelID)+"/unlock", nil, &out)
	return out, err
}

func (c *Client) RunCampaign(ctx context.Context, channelID string) (game.Result, error) {
	var out game.Result
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/venture/channels/"+url.PathEscape(channelID)+"/campaign", nil, &out)
	return out, err
}

func (c *Client) EvaluatePitch(ctx context.Context) (game.PitchEvaluation, error) {
	var out game.PitchEvaluation
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/venture/pitch", nil, &out)
	return out, err
}

func (c *Client) Pitch(ctx context.Context, accept bool) (game.PitchResult, error) {
	var out game.PitchResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/venture/pitch", api.PitchRequest{Accept: accept}, &out)
	return out, err
}

func (c *Client) RepayDebt(ctx context.Context, amount float64) (game.Result, error) {
	var out game.Result
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/venture/debt/repay", api.RepayRequest{Amount: amount}, &out)
	return out, err
}

func (c *Client) SetOffice(ctx context.Context, rented bool) (game.Result, error) {
	var out game.Result
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/venture/office", api.OfficeRequest{Rented: rented}, &out)
	return out, err
}

func (c *Client) Events(ctx context.Context, limit int) ([]game.EventRecord, error) {
	var out struct {
		Events []game.EventRecord `json:"events"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/venture/events?limit="+strconv.Itoa(limit), nil, &out)
	return out.Events, err
}

func (c *Client) Wipe(ctx context.Context) error {
	return c.jsonRequest(ctx, http.MethodDelete, "/v1/venture", nil, nil)
}

func (c *Client) Catalog(ctx context.Context) (game.Catalog, error) {
	var out game.Catalog
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog", nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var decoded api.ErrorResponse
		if json.Unmarshal(raw, &decoded) == nil && decoded.Error != "" {
			apiErr.Message, apiErr.Code = decoded.Error, decoded.Code
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

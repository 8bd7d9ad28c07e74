package gti

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the public GTI endpoint operated by HVV.
	BaseURL = "https://gti.geofox.de/gti/public"

	// EndpointInit is a lightweight call used as an authentication probe.
	EndpointInit = "/init"

	// EndpointGetRoute returns candidate journeys between two stations.
	EndpointGetRoute = "/getRoute"

	apiVersion     = 37
	defaultTimeout = 10 * time.Second
)

// Client talks to the Geofox Transit Interface on behalf of one account. It
// owns its HTTP session; one client per configured instance.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	validate   *validator.Validate
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the GTI endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new GTI client for the given account.
func NewClient(username, password string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    BaseURL,
		username:   username,
		password:   password,
		validate:   validator.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Init performs an authenticated probe against the backend without fetching
// any transit data.
func (c *Client) Init(ctx context.Context) error {
	var resp baseResponse
	return c.doRequest(ctx, EndpointInit, baseRequest{Version: apiVersion}, &resp)
}

// GetRoute queries journeys between the two named stations. Journeys are
// returned in the order the backend produced them, soonest first; they are
// not re-sorted here.
func (c *Client) GetRoute(ctx context.Context, q RouteQuery) ([]Journey, error) {
	depTime := q.Time
	if depTime == "" {
		depTime = "currenttime"
	}

	req := routeRequest{
		baseRequest:     baseRequest{Version: apiVersion, Language: "de"},
		Start:           sdName{Name: q.StartStation, City: q.StartCity, Type: "STATION"},
		Dest:            sdName{Name: q.DestStation, City: q.DestCity, Type: "STATION"},
		Time:            gtiTime{Date: "today", Time: depTime},
		TimeIsDeparture: q.TimeIsDeparture,
		Realtime:        "REALTIME",
	}

	var resp routeResponse
	if err := c.doRequest(ctx, EndpointGetRoute, req, &resp); err != nil {
		return nil, err
	}
	return resp.toJourneys(), nil
}

// Sign computes the GTI request signature: base64 HMAC-SHA1 over the body,
// keyed by the account password.
func Sign(password string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(password))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// gtiResponse is satisfied by every wire response via the embedded
// baseResponse, giving doRequest access to the returnCode.
type gtiResponse interface {
	base() *baseResponse
}

func (c *Client) doRequest(ctx context.Context, endpoint string, payload any, out gtiResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("geofox-auth-type", "HmacSHA1")
	req.Header.Set("geofox-auth-user", c.username)
	req.Header.Set("geofox-auth-signature", Sign(c.password, body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCannotConnect, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return NewAPIError(resp.StatusCode, resp.Status, endpoint)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", ErrCannotConnect, endpoint, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	if br := out.base(); br.ReturnCode != "OK" {
		return &GTIError{Code: br.ReturnCode, Text: br.ErrorText, DevInfo: br.ErrorDevInfo}
	}
	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("invalid %s response: %w", endpoint, err)
	}
	return nil
}

// ValidateCredentials probes the backend with the given credentials and
// classifies the outcome into exactly ErrInvalidAuth or ErrCannotConnect.
// Unexpected failures count as invalid auth; the root cause is logged.
func ValidateCredentials(ctx context.Context, username, password string, opts ...Option) error {
	c := NewClient(username, password, opts...)
	err := c.Init(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidAuth):
		return ErrInvalidAuth
	case errors.Is(err, ErrCannotConnect):
		return ErrCannotConnect
	default:
		log.Error().Err(err).Msg("unexpected error validating GTI credentials")
		return ErrInvalidAuth
	}
}

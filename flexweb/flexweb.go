// Package flexweb downloads Flex Query reports from the Interactive Brokers
// Flex Web Service.
//
// Getting a report takes two steps: SendRequest asks the service to generate
// it and returns a reference code, then GetStatement is polled with that code
// until the report is ready.
package flexweb

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/etnz/flexquery/date"
)

const (
	// DefaultBaseURL is the Flex Web Service endpoint.
	DefaultBaseURL = "https://ndcdyn.interactivebrokers.com/AccountManagement/FlexWebService"
	// APIVersion is the version of the Flex Web Service API in use.
	APIVersion = "3"
	// UserAgent is sent with every request, the service rejects requests without one.
	UserAgent = "flexquery/1.0 (Go)"
)

// ErrTimeout is returned when the report is still not ready after the last attempt.
var ErrTimeout = errors.New("flex report not ready after all attempts")

// RequestError is an error reported by the Flex Web Service.
type RequestError struct {
	Code    string // e.g. "1012" for an expired token.
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("flex request rejected: code %s: %s", e.Code, e.Message)
}

// retryable lists the error codes meaning "not yet, try again".
var retryable = map[string]bool{
	"1001": true, // statement could not be generated at this time.
	"1004": true, // statement is incomplete at this time.
	"1009": true, // server under heavy load.
	"1018": true, // too many requests.
	"1019": true, // statement generation in progress.
	"1021": true, // statement could not be retrieved at this time.
}

// Schedule is the polling schedule: attempt n (starting at 0) waits
// Initial + n*Increment before fetching the report.
type Schedule struct {
	Initial   time.Duration
	Increment time.Duration
	Attempts  int
}

// DefaultSchedule waits 5s, 15s, 25s ... for 7 attempts.
var DefaultSchedule = Schedule{Initial: 5 * time.Second, Increment: 10 * time.Second, Attempts: 7}

// Wait returns the wait before attempt n.
func (s Schedule) Wait(n int) time.Duration { return s.Initial + time.Duration(n)*s.Increment }

// Client talks to the Flex Web Service. Its zero value is not usable, use New.
type Client struct {
	BaseURL  string
	Token    string
	HTTP     *http.Client
	Limiter  *rate.Limiter // throttles every request sent to the service.
	Schedule Schedule
	Logger   *zap.Logger
}

// New returns a Client for the Flex Web Service authenticated by token.
//
// Requests are limited to one per second, the documented limit of the service.
func New(token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:  DefaultBaseURL,
		Token:    token,
		HTTP:     &http.Client{Timeout: time.Minute},
		Limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		Schedule: DefaultSchedule,
		Logger:   log,
	}
}

// statementResponse is the status document returned by SendRequest, and by
// GetStatement while the report is not ready.
type statementResponse struct {
	XMLName       xml.Name `xml:"FlexStatementResponse"`
	Status        string   `xml:"Status"`
	ReferenceCode string   `xml:"ReferenceCode"`
	URL           string   `xml:"Url"`
	ErrorCode     string   `xml:"ErrorCode"`
	ErrorMessage  string   `xml:"ErrorMessage"`
}

func (r statementResponse) err() error {
	return &RequestError{Code: r.ErrorCode, Message: r.ErrorMessage}
}

// get performs a throttled GET on endpoint and returns the body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	uri := endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v: %v", req.URL.Path, resp.Status)
	}
	return buf.Bytes(), nil
}

// SendRequest asks the service to generate the report of query and returns
// the reference code to fetch it with, and the URL to fetch it from if the
// service gave one.
func (c *Client) SendRequest(ctx context.Context, query string) (code, statementURL string, err error) {
	params := url.Values{"t": {c.Token}, "q": {query}, "v": {APIVersion}}
	data, err := c.get(ctx, c.BaseURL+"/SendRequest", params)
	if err != nil {
		return "", "", err
	}
	var r statementResponse
	if err := xml.Unmarshal(data, &r); err != nil {
		return "", "", fmt.Errorf("cannot decode SendRequest response: %w", err)
	}
	c.Logger.Debug("request sent", zap.String("query", query), zap.String("status", r.Status))
	if r.Status != "Success" {
		return "", "", r.err()
	}
	if r.ReferenceCode == "" {
		return "", "", errors.New("request accepted without reference code")
	}
	return r.ReferenceCode, r.URL, nil
}

// GetStatement polls the service for the report identified by code, following
// c.Schedule. It returns ErrTimeout if the report is not ready after the last
// attempt, and stops as soon as ctx is done.
func (c *Client) GetStatement(ctx context.Context, code, statementURL string) ([]byte, error) {
	if statementURL == "" {
		statementURL = c.BaseURL + "/GetStatement"
	}
	params := url.Values{"t": {c.Token}, "q": {code}, "v": {APIVersion}}

	for n := range c.Schedule.Attempts {
		wait := c.Schedule.Wait(n)
		c.Logger.Info("waiting before fetching report",
			zap.Duration("wait", wait),
			zap.Int("attempt", n+1),
			zap.Int("attempts", c.Schedule.Attempts),
		)
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}

		data, err := c.get(ctx, statementURL, params)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			c.Logger.Warn("report not yet ready, retrying")
			continue
		}
		var r statementResponse
		if xml.Unmarshal(data, &r) != nil {
			// anything but a status document is the report.
			c.Logger.Debug("report downloaded", zap.Int("bytes", len(data)))
			return data, nil
		}
		if !retryable[r.ErrorCode] {
			return nil, r.err()
		}
		c.Logger.Warn("report not yet ready, retrying", zap.String("code", r.ErrorCode), zap.String("message", r.ErrorMessage))
	}
	return nil, ErrTimeout
}

// Fetch requests the report of query and waits for it.
func (c *Client) Fetch(ctx context.Context, query string) ([]byte, error) {
	code, statementURL, err := c.SendRequest(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.GetStatement(ctx, code, statementURL)
}

// Download fetches the report of query and saves it into dir, which is
// created if needed. It returns the name of the file written.
//
// The file is named "<query>_<YYYYMMDD>_statement.<format>", the format being
// detected from the content.
func (c *Client) Download(ctx context.Context, query, dir string) (string, error) {
	data, err := c.Fetch(ctx, query)
	if err != nil {
		return "", err
	}
	format := DetectFormat(data)
	c.Logger.Debug("format detected", zap.Stringer("format", format))
	if format == FormatHTML {
		c.Logger.Warn("service returned an HTML page", zap.String("title", HTMLTitle(data)))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create output directory: %w", err)
	}
	name := filepath.Join(dir, FileName(query, date.Today(), format))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return "", fmt.Errorf("cannot save report: %w", err)
	}
	c.Logger.Info("report saved", zap.String("file", name), zap.String("format", strings.ToUpper(format.String())))
	return name, nil
}

// FileName returns the name a report is saved with.
func FileName(query string, on date.Date, format Format) string {
	return fmt.Sprintf("%s_%s_statement.%s", query, on.FlexString(), format)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func contentTypeFor(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}

const DefaultTimeout = 10 * time.Second

// API is a thin JSON client for the job board endpoints. Cookies set by the
// server (the session) are kept in a jar, so one API value is one browser.
type API struct {
	base *url.URL
	http *http.Client
}

type Option func(*API)

func WithHTTPClient(c *http.Client) Option {
	return func(a *API) { a.http = c }
}

func WithTimeout(d time.Duration) Option {
	return func(a *API) { a.http.Timeout = d }
}

func NewAPI(baseURL string, opts ...Option) (*API, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	a := &API{base: u, http: &http.Client{Timeout: DefaultTimeout, Jar: jar}}
	for _, opt := range opts {
		opt(a)
	}
	if a.http.Jar == nil {
		a.http.Jar = jar
	}
	return a, nil
}

func (a *API) endpoint(path string, query url.Values) string {
	u := *a.base
	u.Path = a.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do sends a JSON request and decodes a JSON response into out when out is non-nil.
func (a *API) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(ctx, req, out)
}

// Upload posts a multipart form. file may be nil when only fields are sent.
func (a *API) Upload(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to encode form: %w", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(fileField), quoteEscaper.Replace(filename)))
		h.Set("Content-Type", contentTypeFor(filename))
		fw, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("failed to encode form: %w", err)
		}
		if _, err := io.Copy(fw, file); err != nil {
			return fmt.Errorf("failed to read %s: %w", filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint(path, nil), &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.send(ctx, req, out)
}

func (a *API) send(ctx context.Context, req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(ctx, err)
	}
	if resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", ErrTransport, err)
	}
	return nil
}

func classifyTransport(ctx context.Context, err error) error {
	// a caller cancelling is not a failure worth retrying
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

type errorBody struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Field   string       `json:"field"`
	Message string       `json:"message"`
	Details []FieldError `json:"details"`
}

func statusError(status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)
	if body.Error == "" {
		body.Error = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body.Error)
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		ve := &ServerValidationError{Message: body.Error, Fields: body.Details}
		if len(ve.Fields) == 0 && body.Field != "" {
			ve.Fields = []FieldError{{Field: body.Field, Message: body.Message}}
		}
		return ve
	}
	return &ServerError{Status: status, Code: body.Code, Message: body.Error}
}

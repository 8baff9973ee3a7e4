// Package playground fabricates API responses for the tutorial's request
// playground. Nothing is sent over the network; the response echoes the
// request back.
package playground

import (
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Methods lists the HTTP methods the playground offers, in display order.
var Methods = []string{"GET", "POST", "PUT", "DELETE"}

// ErrUnsupportedMethod is returned for methods outside Methods.
var ErrUnsupportedMethod = errors.New("unsupported method")

// BodyError reports a request body that is not valid JSON.
type BodyError struct {
	Body string
	Err  error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body is not valid JSON: %v", e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

// Request is what the user typed into the playground form.
type Request struct {
	Method   string
	Endpoint string
	Body     string
}

// HasBody reports whether method carries a request body.
func HasBody(method string) bool {
	m := strings.ToUpper(method)
	return m == "POST" || m == "PUT"
}

// ValidateBody returns a *BodyError when body is neither blank nor valid
// JSON.
func ValidateBody(body string) error {
	raw := strings.TrimSpace(body)
	if raw == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return &BodyError{Body: body, Err: err}
	}
	return nil
}

// Data is the payload of a simulated response.
type Data struct {
	Message   string          `json:"message"`
	Method    string          `json:"method"`
	Endpoint  string          `json:"endpoint"`
	Body      json.RawMessage `json:"body"`
	Timestamp string          `json:"timestamp"`
	RequestID string          `json:"request_id"`
}

// Response is the fabricated reply.
type Response struct {
	Status int  `json:"status"`
	Data   Data `json:"data"`
}

// Simulate builds the response for req as of now.
func Simulate(req Request, now time.Time) (Response, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if !validMethod(method) {
		return Response{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}

	body := json.RawMessage("null")
	if HasBody(method) {
		if raw := strings.TrimSpace(req.Body); raw != "" {
			if err := ValidateBody(req.Body); err != nil {
				return Response{}, err
			}
			body = json.RawMessage(raw)
		}
	}

	return Response{
		Status: 200,
		Data: Data{
			Message:   "Simulated response",
			Method:    method,
			Endpoint:  strings.TrimSpace(req.Endpoint),
			Body:      body,
			Timestamp: now.UTC().Format(time.RFC3339Nano),
			RequestID: uuid.NewString(),
		},
	}, nil
}

// JSON renders the response the way the playground displays it: indented
// with two spaces.
func (r Response) JSON() (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode response: %w", err)
	}
	return string(out), nil
}

func validMethod(m string) bool {
	for _, allowed := range Methods {
		if m == allowed {
			return true
		}
	}
	return false
}

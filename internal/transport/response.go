package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/agentstation/nbctx/pkg/errors"
	"github.com/agentstation/nbctx/pkg/logging"
)

// maxDetail bounds the response text carried in errors.
const maxDetail = 512

// StatusError is a non-2xx response that is not an authentication or
// server failure. Callers decide what it means for their operation.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Detail     string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s returned %d", e.Method, e.URL, e.StatusCode)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// DecodeResponse checks the status of resp and decodes its JSON body into
// target. A nil target discards the body. The body is always closed.
//
// 401 becomes an AuthenticationError, 5xx a RemoteUnavailableError, other
// non-2xx a *StatusError, and an undecodable body a
// RemoteUnavailableError.
func DecodeResponse(resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	endpoint := ""
	method := ""
	if resp.Request != nil {
		endpoint = redact(resp.Request.URL.String())
		method = resp.Request.Method
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewRemoteUnavailableError(endpoint, resp.StatusCode, "reading response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &errors.AuthenticationError{
			Endpoint: endpoint,
			Method:   "token",
			Message:  "credentials rejected: " + Detail(body),
		}
	case resp.StatusCode >= 500:
		return errors.NewRemoteUnavailableError(endpoint, resp.StatusCode, Detail(body), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Detail:     Detail(body),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.NewRemoteUnavailableError(endpoint, resp.StatusCode, "undecodable response", err)
	}
	return nil
}

// Detail extracts a human-readable message from an error body. It
// understands {"detail": "..."} and field error maps, and falls back to
// the trimmed body text.
func Detail(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if detail, ok := payload["detail"].(string); ok {
			return detail
		}
		if len(payload) > 0 {
			keys := make([]string, 0, len(payload))
			for k := range payload {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, k+": "+flatten(payload[k]))
			}
			return truncate(strings.Join(parts, "; "))
		}
	}
	return truncate(strings.TrimSpace(string(body)))
}

func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, flatten(item))
		}
		return strings.Join(parts, ", ")
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

func truncate(s string) string {
	if len(s) <= maxDetail {
		return s
	}
	return s[:maxDetail] + "..."
}

package googleads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/adsync/internal/core/domain"
)

// requestIDHeader carries the Google Ads request id on every response.
const requestIDHeader = "Request-Id"

// errorEnvelope is the JSON error body of the REST API.
type errorEnvelope struct {
	Error struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Status  string          `json:"status"`
		Details []failureDetail `json:"details"`
	} `json:"error"`
}

// failureDetail is one entry of error.details. Only GoogleAdsFailure
// entries carry Errors.
type failureDetail struct {
	Type      string    `json:"@type"`
	Errors    []adError `json:"errors"`
	RequestID string    `json:"requestId"`
}

type adError struct {
	ErrorCode map[string]string `json:"errorCode"`
	Message   string            `json:"message"`
	Location  struct {
		FieldPathElements []struct {
			FieldName string `json:"fieldName"`
			Index     *int   `json:"index"`
		} `json:"fieldPathElements"`
	} `json:"location"`
}

// checkResponse returns nil for a 2xx response and a *domain.RemoteFailure
// otherwise.
func checkResponse(resp *http.Response) error {
	err := googleapi.CheckResponse(resp)
	if err == nil {
		return nil
	}
	return toRemoteFailure(err, resp.Header.Get(requestIDHeader))
}

// toRemoteFailure converts a googleapi error into the domain failure.
func toRemoteFailure(err error, requestID string) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	f := &domain.RemoteFailure{
		HTTPStatus: gerr.Code,
		Message:    gerr.Message,
		RequestID:  requestID,
	}

	var env errorEnvelope
	if jerr := json.Unmarshal([]byte(gerr.Body), &env); jerr == nil {
		f.Status = env.Error.Status
		if env.Error.Message != "" {
			f.Message = env.Error.Message
		}
		for _, d := range env.Error.Details {
			if f.RequestID == "" {
				f.RequestID = d.RequestID
			}
			for _, e := range d.Errors {
				f.Violations = append(f.Violations, domain.Violation{
					Code:      errorCode(e.ErrorCode),
					Message:   e.Message,
					FieldPath: fieldPath(e),
				})
			}
		}
	}
	if f.Message == "" {
		f.Message = http.StatusText(gerr.Code)
	}
	return f
}

// errorCode renders {"userListError": "NAME_ALREADY_USED"} as
// "userListError: NAME_ALREADY_USED".
func errorCode(code map[string]string) string {
	keys := make([]string, 0, len(code))
	for k := range code {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+code[k])
	}
	return strings.Join(parts, ", ")
}

// fieldPath renders the location as "operations[0].create.name".
func fieldPath(e adError) string {
	var b strings.Builder
	for i, el := range e.Location.FieldPathElements {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(el.FieldName)
		if el.Index != nil {
			b.WriteString("[" + strconv.Itoa(*el.Index) + "]")
		}
	}
	return b.String()
}

// transportFailure wraps an error that never reached the API as a failure
// without HTTP status, for lookups that report failures in-band.
func transportFailure(err error) *domain.RemoteFailure {
	if f, ok := domain.AsRemoteFailure(err); ok {
		return f
	}
	return &domain.RemoteFailure{Message: err.Error()}
}

// quoteGAQL returns s as a single-quoted GAQL string literal.
func quoteGAQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// normalizeCustomerID strips the dashes of "123-456-7890".
func normalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}

func errMissing(what string) error {
	return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, what)
}

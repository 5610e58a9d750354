package googleads

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/custodia-labs/adsync/internal/core/domain"
)

// recordedRequest is one call the fake API received.
type recordedRequest struct {
	Path    string
	Header  http.Header
	Payload map[string]any
}

// fakeAPI serves canned responses keyed by request path.
type fakeAPI struct {
	t         *testing.T
	responses map[string]fakeResponse
	requests  []recordedRequest
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{t: t, responses: make(map[string]fakeResponse)}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{
		Endpoint:        srv.URL,
		DeveloperToken:  "dev-token",
		LoginCustomerID: "111-222-3333",
	}, option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return api, client
}

func (f *fakeAPI) on(path string, status int, body string) {
	f.responses[path] = fakeResponse{status: status, body: body}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	require.NoError(f.t, err)
	payload := map[string]any{}
	if len(raw) > 0 {
		require.NoError(f.t, json.Unmarshal(raw, &payload))
	}
	f.requests = append(f.requests, recordedRequest{Path: r.URL.Path, Header: r.Header.Clone(), Payload: payload})

	resp, ok := f.responses[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("request-id", "req-123")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

func (f *fakeAPI) last() recordedRequest {
	require.NotEmpty(f.t, f.requests)
	return f.requests[len(f.requests)-1]
}

const nameUsedFailure = `{
  "error": {
    "code": 400,
    "message": "Request contains an invalid argument.",
    "status": "INVALID_ARGUMENT",
    "details": [{
      "@type": "type.googleapis.com/google.ads.googleads.v18.errors.GoogleAdsFailure",
      "errors": [{
        "errorCode": {"userListError": "NAME_ALREADY_USED"},
        "message": "Name is already being used for another user list for the account.",
        "location": {"fieldPathElements": [
          {"fieldName": "operations", "index": 0},
          {"fieldName": "create"},
          {"fieldName": "name"}
        ]}
      }],
      "requestId": "body-req-id"
    }]
  }
}`

func TestNewClient_RequiresDeveloperToken(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, option.WithHTTPClient(http.DefaultClient))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_SearchAudienceByName_Found(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1234567890/googleAds:search", http.StatusOK, `{
		"results": [{"userList": {"resourceName": "customers/1234567890/userLists/42", "name": "test result emails"}}]
	}`)

	lookup := client.SearchAudienceByName(context.Background(), "123-456-7890", "test result emails")

	assert.Equal(t, domain.LookupFound, lookup.Status)
	assert.Equal(t, "customers/1234567890/userLists/42", lookup.ResourceName)

	req := api.last()
	assert.Equal(t,
		"SELECT user_list.resource_name, user_list.name FROM user_list WHERE user_list.name = 'test result emails'",
		req.Payload["query"])
	assert.Equal(t, "dev-token", req.Header.Get("developer-token"))
	assert.Equal(t, "1112223333", req.Header.Get("login-customer-id"))
}

func TestClient_SearchAudienceByName_NotFound(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/googleAds:search", http.StatusOK, `{}`)

	lookup := client.SearchAudienceByName(context.Background(), "1", "missing")

	assert.Equal(t, domain.LookupNotFound, lookup.Status)
	assert.Empty(t, lookup.ResourceName)
}

func TestClient_SearchAudienceByName_EscapesName(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/googleAds:search", http.StatusOK, `{}`)

	client.SearchAudienceByName(context.Background(), "1", `O'Brien \ list`)

	assert.Equal(t,
		`SELECT user_list.resource_name, user_list.name FROM user_list WHERE user_list.name = 'O\'Brien \\ list'`,
		api.last().Payload["query"])
}

func TestClient_SearchAudienceByName_Failed(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/googleAds:search", http.StatusForbidden, `{
		"error": {"code": 403, "message": "The caller does not have permission", "status": "PERMISSION_DENIED",
		"details": [{"@type": "type.googleapis.com/google.ads.googleads.v18.errors.GoogleAdsFailure",
		"errors": [{"errorCode": {"authorizationError": "USER_PERMISSION_DENIED"}, "message": "User doesn't have permission."}]}]}
	}`)

	lookup := client.SearchAudienceByName(context.Background(), "1", "x")

	require.Equal(t, domain.LookupFailed, lookup.Status)
	require.NotNil(t, lookup.Failure)
	assert.Equal(t, http.StatusForbidden, lookup.Failure.HTTPStatus)
	assert.Equal(t, "PERMISSION_DENIED", lookup.Failure.Status)
	assert.Equal(t, "req-123", lookup.Failure.RequestID)
	require.Len(t, lookup.Failure.Violations, 1)
	assert.Equal(t, "authorizationError: USER_PERMISSION_DENIED", lookup.Failure.Violations[0].Code)
}

func TestClient_CreateAudience(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/userLists:mutate", http.StatusOK,
		`{"results": [{"resourceName": "customers/1/userLists/7"}]}`)

	rn, err := client.CreateAudience(context.Background(), "1", domain.NewAudience("newsletter"))

	require.NoError(t, err)
	assert.Equal(t, "customers/1/userLists/7", rn)

	ops := api.last().Payload["operations"].([]any)
	require.Len(t, ops, 1)
	create := ops[0].(map[string]any)["create"].(map[string]any)
	assert.Equal(t, "newsletter", create["name"])
	assert.Equal(t, "newsletter for marketing", create["description"])
	assert.Equal(t, "OPEN", create["membershipStatus"])
	assert.Equal(t, "30", create["membershipLifeSpan"])
	assert.Equal(t, "CONTACT_INFO", create["crmBasedUserList"].(map[string]any)["uploadKeyType"])
}

func TestClient_CreateAudience_Rejected(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/userLists:mutate", http.StatusBadRequest, nameUsedFailure)

	_, err := client.CreateAudience(context.Background(), "1", domain.NewAudience("dup"))

	require.ErrorIs(t, err, domain.ErrRemoteRejection)
	f, ok := domain.AsRemoteFailure(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, f.HTTPStatus)
	assert.Equal(t, "INVALID_ARGUMENT", f.Status)
	assert.Equal(t, "Request contains an invalid argument.", f.Message)
	assert.Equal(t, "req-123", f.RequestID)
	require.Len(t, f.Violations, 1)
	assert.Equal(t, domain.Violation{
		Code:      "userListError: NAME_ALREADY_USED",
		Message:   "Name is already being used for another user list for the account.",
		FieldPath: "operations[0].create.name",
	}, f.Violations[0])
}

func TestClient_CreateJob(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/offlineUserDataJobs:create", http.StatusOK,
		`{"resourceName": "customers/1/offlineUserDataJobs/9"}`)

	rn, err := client.CreateJob(context.Background(), "1", "customers/1/userLists/7")

	require.NoError(t, err)
	assert.Equal(t, "customers/1/offlineUserDataJobs/9", rn)
	job := api.last().Payload["job"].(map[string]any)
	assert.Equal(t, "CUSTOMER_MATCH_USER_LIST", job["type"])
	assert.Equal(t, "customers/1/userLists/7", job["customerMatchUserListMetadata"].(map[string]any)["userList"])
}

func TestClient_AddJobOperations(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/offlineUserDataJobs/9:addOperations", http.StatusOK, `{}`)
	ops := []domain.HashedIdentifier{domain.HashIdentifier("a@x.com"), domain.HashIdentifier("b@x.com")}

	err := client.AddJobOperations(context.Background(), "customers/1/offlineUserDataJobs/9", ops)

	require.NoError(t, err)
	payload := api.last().Payload
	assert.Equal(t, false, payload["enablePartialFailure"])
	sent := payload["operations"].([]any)
	require.Len(t, sent, 2)
	ids := sent[0].(map[string]any)["create"].(map[string]any)["userIdentifiers"].([]any)
	assert.Equal(t, string(ops[0]), ids[0].(map[string]any)["hashedEmail"])
	assert.Len(t, api.requests, 1, "all operations go in one request")
}

func TestClient_AddJobOperations_Rejected(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/offlineUserDataJobs/9:addOperations", http.StatusBadRequest, `{
		"error": {"code": 400, "message": "invalid", "status": "INVALID_ARGUMENT",
		"details": [{"@type": "type.googleapis.com/google.ads.googleads.v18.errors.GoogleAdsFailure",
		"errors": [{"errorCode": {"offlineUserDataJobError": "INVALID_SHA256_FORMAT"}, "message": "bad hash",
		"location": {"fieldPathElements": [{"fieldName": "operations", "index": 3}]}}]}]}
	}`)

	err := client.AddJobOperations(context.Background(), "customers/1/offlineUserDataJobs/9",
		[]domain.HashedIdentifier{"x"})

	f, ok := domain.AsRemoteFailure(err)
	require.True(t, ok)
	assert.Equal(t, "offlineUserDataJobError: INVALID_SHA256_FORMAT", f.Violations[0].Code)
	assert.Equal(t, "operations[3]", f.Violations[0].FieldPath)
}

func TestClient_RunJob(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/offlineUserDataJobs/9:run", http.StatusOK,
		`{"name": "customers/1/operations/abc"}`)

	err := client.RunJob(context.Background(), "customers/1/offlineUserDataJobs/9")

	require.NoError(t, err)
	assert.Equal(t, "/v18/customers/1/offlineUserDataJobs/9:run", api.last().Path)
}

func TestClient_ErrorWithoutJSONBody(t *testing.T) {
	api, client := newFakeAPI(t)
	api.on("/v18/customers/1/offlineUserDataJobs/9:run", http.StatusBadGateway, `upstream unavailable`)

	err := client.RunJob(context.Background(), "customers/1/offlineUserDataJobs/9")

	f, ok := domain.AsRemoteFailure(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, f.HTTPStatus)
	assert.NotEmpty(t, f.Message)
	assert.Empty(t, f.Violations)
}

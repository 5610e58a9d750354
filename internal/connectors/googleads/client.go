package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
	"github.com/custodia-labs/adsync/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.AudiencePlatform = (*Client)(nil)

// Defaults for the REST endpoint.
const (
	DefaultEndpoint   = "https://googleads.googleapis.com/"
	DefaultAPIVersion = "v18"
)

// Config configures the Google Ads client.
type Config struct {
	// Endpoint is the API base URL. Empty means DefaultEndpoint.
	Endpoint string
	// APIVersion is the path version prefix. Empty means DefaultAPIVersion.
	APIVersion string
	// DeveloperToken is sent on every request.
	DeveloperToken string
	// LoginCustomerID is the manager account to act through, if any.
	LoginCustomerID string
}

// Client calls the Google Ads REST API.
type Client struct {
	cfg  Config
	http *http.Client
	base string
}

// NewClient creates a client. opts carry the credentials, typically
// option.WithTokenSource.
func NewClient(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if cfg.DeveloperToken == "" {
		return nil, errMissing("developer token")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	cfg.LoginCustomerID = normalizeCustomerID(cfg.LoginCustomerID)

	hc, _, err := htransport.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create ads transport: %w", err)
	}

	return &Client{
		cfg:  cfg,
		http: hc,
		base: strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.APIVersion + "/",
	}, nil
}

// SearchAudienceByName finds a user list by exact name.
func (c *Client) SearchAudienceByName(ctx context.Context, customerID, name string) domain.AudienceLookup {
	query := "SELECT user_list.resource_name, user_list.name FROM user_list WHERE user_list.name = " + quoteGAQL(name)

	var resp searchResponse
	path := "customers/" + normalizeCustomerID(customerID) + "/googleAds:search"
	if err := c.post(ctx, path, searchRequest{Query: query}, &resp); err != nil {
		return domain.Failed(transportFailure(err))
	}

	for _, row := range resp.Results {
		// GAQL string equality is exact, the check guards against rows
		// without the selected field.
		if row.UserList.Name == name && row.UserList.ResourceName != "" {
			return domain.Found(row.UserList.ResourceName)
		}
	}
	return domain.NotFound()
}

// CreateAudience creates a customer-match user list.
func (c *Client) CreateAudience(ctx context.Context, customerID string, audience domain.AudienceResource) (string, error) {
	req := mutateUserListsRequest{
		Operations: []userListOperation{{
			Create: &userList{
				Name:               audience.Name,
				Description:        audience.Description,
				MembershipStatus:   string(audience.MembershipStatus),
				MembershipLifeSpan: fmt.Sprintf("%d", audience.MembershipLifespanDays),
				CrmBasedUserList: &crmBasedUserList{
					UploadKeyType: string(audience.UploadKeyType),
				},
			},
		}},
	}

	var resp mutateResponse
	path := "customers/" + normalizeCustomerID(customerID) + "/userLists:mutate"
	if err := c.post(ctx, path, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 || resp.Results[0].ResourceName == "" {
		return "", fmt.Errorf("%w: user list mutate returned no resource name", domain.ErrRemoteRejection)
	}
	return resp.Results[0].ResourceName, nil
}

// CreateJob creates a customer-match offline user data job.
func (c *Client) CreateJob(ctx context.Context, customerID, audienceResourceName string) (string, error) {
	req := createJobRequest{
		Job: offlineUserDataJob{
			Type: domain.JobTypeCustomerMatch,
			CustomerMatchUserListMetadata: &customerMatchMetadata{
				UserList: audienceResourceName,
			},
		},
	}

	var resp createJobResponse
	path := "customers/" + normalizeCustomerID(customerID) + "/offlineUserDataJobs:create"
	if err := c.post(ctx, path, req, &resp); err != nil {
		return "", err
	}
	if resp.ResourceName == "" {
		return "", fmt.Errorf("%w: job create returned no resource name", domain.ErrRemoteRejection)
	}
	return resp.ResourceName, nil
}

// AddJobOperations adds every identifier in one request with partial
// failure disabled, so the batch is accepted or rejected as a whole.
func (c *Client) AddJobOperations(ctx context.Context, jobResourceName string, ops []domain.HashedIdentifier) error {
	req := addOperationsRequest{
		Operations:           make([]jobOperation, 0, len(ops)),
		EnablePartialFailure: false,
	}
	for _, op := range ops {
		req.Operations = append(req.Operations, jobOperation{
			Create: userData{UserIdentifiers: []userIdentifier{{HashedEmail: string(op)}}},
		})
	}

	var resp addOperationsResponse
	if err := c.post(ctx, jobResourceName+":addOperations", req, &resp); err != nil {
		return err
	}
	if resp.PartialFailureError != nil && resp.PartialFailureError.Code != 0 {
		return &domain.RemoteFailure{
			Status:  "PARTIAL_FAILURE",
			Message: resp.PartialFailureError.Message,
		}
	}
	return nil
}

// RunJob starts processing the job. The returned long-running operation is
// not awaited.
func (c *Client) RunJob(ctx context.Context, jobResourceName string) error {
	var resp runJobResponse
	if err := c.post(ctx, jobResourceName+":run", struct{}{}, &resp); err != nil {
		return err
	}
	if resp.Name != "" {
		logger.Debug("Job run operation %s", resp.Name)
	}
	return nil
}

// post sends body as JSON to path and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.cfg.DeveloperToken)
	if c.cfg.LoginCustomerID != "" {
		req.Header.Set("login-customer-id", c.cfg.LoginCustomerID)
	}

	logger.Debug("POST %s", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

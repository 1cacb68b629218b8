package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	"github.com/gymadminhq/gym_management_app/internal/dto"
)

// StatusClient fetches the current status of the caller's join request.
type StatusClient interface {
	FetchStatus(ctx context.Context, gymCode string, role domain.GymRole) (domain.RequestStatus, *dto.JoinRequestResponse, error)
}

// HTTPStatusClient polls the backend status endpoint over HTTP. The email of
// the requester is carried by the bearer token, not by query parameters.
type HTTPStatusClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPStatusClient creates a status client for the given API base URL
// (e.g. "http://localhost:8080") and bearer token.
func NewHTTPStatusClient(baseURL, token string) *HTTPStatusClient {
	return &HTTPStatusClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchStatus issues a single status poll.
func (c *HTTPStatusClient) FetchStatus(ctx context.Context, gymCode string, role domain.GymRole) (domain.RequestStatus, *dto.JoinRequestResponse, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/v1/requests/status")
	if err != nil {
		return domain.StatusUnknown, nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := endpoint.Query()
	q.Set("gymCode", gymCode)
	q.Set("role", string(role))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return domain.StatusUnknown, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.StatusUnknown, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.StatusUnknown, nil, fmt.Errorf("status poll returned HTTP %d", resp.StatusCode)
	}

	var body dto.RequestStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.StatusUnknown, nil, fmt.Errorf("decoding status response: %w", err)
	}
	return body.Status, body.Request, nil
}

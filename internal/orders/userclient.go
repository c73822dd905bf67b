package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/models"
)

// ErrUserNotFound reports that the user service has no such user.
var ErrUserNotFound = errors.New("user not found")

// UserFetcher returns the user snapshot embedded into new orders. This is a
// plain request/response collaborator, separate from the event pipeline.
type UserFetcher interface {
	FetchUser(ctx context.Context, id int) (*models.UserSnapshot, error)
}

// UserClient fetches user snapshots from the user service over HTTP.
type UserClient struct {
	baseURL string
	http    *http.Client
}

// NewUserClient creates a client for the user service at baseURL.
func NewUserClient(baseURL string) *UserClient {
	return &UserClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// FetchUser gets one user by ID, returning ErrUserNotFound on 404.
func (c *UserClient) FetchUser(ctx context.Context, id int) (*models.UserSnapshot, error) {
	url := fmt.Sprintf("%s/users/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for user %d: %w", id, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user service returned status %d for user %d", resp.StatusCode, id)
	}

	var snapshot models.UserSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode user %d: %w", id, err)
	}
	return &snapshot, nil
}

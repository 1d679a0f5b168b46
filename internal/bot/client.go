package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oksasatya/blog-api/pkg/response"
)

// APIError is a non-2xx answer from the blog API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.Status)
	}
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// APIClient talks to the blog HTTP API as an ordinary client.
type APIClient struct {
	BaseURL     string
	TokenHeader string
	HTTP        *http.Client
}

func NewAPIClient(baseURL, tokenHeader string) *APIClient {
	if tokenHeader == "" {
		tokenHeader = "X-Token"
	}
	return &APIClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		TokenHeader: tokenHeader,
		HTTP:        &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenData struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token.
func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var out response.APIResponse[tokenData]
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/token", "", body, &out); err != nil {
		return "", err
	}
	if out.Data.AccessToken == "" {
		return "", &APIError{Status: http.StatusOK, Message: "no access token in response"}
	}
	return out.Data.AccessToken, nil
}

// ResetPassword changes the password of the account behind token.
func (c *APIClient) ResetPassword(ctx context.Context, token, oldPassword, newPassword string) error {
	body := map[string]string{"old_password": oldPassword, "password": newPassword}
	return c.post(ctx, "/reset_password", token, body, nil)
}

func (c *APIClient) post(ctx context.Context, path, token string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(c.TokenHeader, token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var env response.APIResponse[any]
		_ = json.NewDecoder(res.Body).Decode(&env)
		return &APIError{Status: res.StatusCode, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

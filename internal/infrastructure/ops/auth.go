package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

// tokenResponse is the body of a successful client-credentials exchange.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   string `json:"expires_in"`
}

// Authenticate exchanges the client credentials for a bearer token and
// stores it on the client for all subsequent calls. The exchange happens
// once per run; there is no refresh, so a token expiring mid-run surfaces
// as failed calls until the run ends. Any failure is fatal: nothing else
// can proceed without a token.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) error {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/accesstoken", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeAuthFailed, "token exchange request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.CodeAuthFailed, "token endpoint rejected credentials").
			WithDetail("status=" + strconv.Itoa(resp.StatusCode))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return errors.Wrap(err, errors.CodeAuthFailed, "token response is not valid JSON")
	}
	if tok.AccessToken == "" {
		return errors.New(errors.CodeAuthFailed, "token response lacks access_token field")
	}

	c.token = tok.AccessToken
	c.logger.Info("access token obtained")
	return nil
}

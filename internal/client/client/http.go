package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/authdialog/internal/common"
	"github.com/dmitrijs2005/authdialog/internal/cryptox"
	"github.com/dmitrijs2005/authdialog/internal/logging"
)

const maxResponseBytes = 1 << 20

// HTTPClient implements Client over net/http against one endpoint URL.
type HTTPClient struct {
	endpoint string
	http     *http.Client
	logger   logging.Logger
}

// NewHTTPClient returns a client for endpoint with a fresh cookie jar. Call
// deadlines come from the ctx passed to each method.
func NewHTTPClient(endpoint string, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", endpoint)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		endpoint: endpoint,
		http:     &http.Client{Jar: jar},
		logger:   logger.With("component", "api_client"),
	}, nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*Response, error) {
	hash := cryptox.PasswordHash(req.Password)
	return c.post(ctx, common.ActionLogin, url.Values{
		"api_cookieuser":               {boolFlag(req.RememberMe)},
		"securitytoken":                {common.GuestSecurityToken},
		"api_vb_login_md5password":     {hash},
		"api_vb_login_md5password_utf": {hash},
		"api_vb_login_password":        {req.Password},
		"api_vb_login_username":        {req.Username},
		"api_2factor":                  {req.TwoFactor},
		"api_captcha":                  {req.Captcha},
		"api_salt":                     {req.Salt},
	})
}

func (c *HTTPClient) Logout(ctx context.Context) (*Response, error) {
	return c.get(ctx, common.ActionLogout, url.Values{})
}

func (c *HTTPClient) Change2Factor(ctx context.Context, force bool) (*Response, error) {
	return c.get(ctx, common.ActionChange2Factor, url.Values{"force": {boolFlag(force)}})
}

func (c *HTTPClient) Update2Factor(ctx context.Context, secret, code string) (*Response, error) {
	return c.post(ctx, common.ActionUpdate2Factor, url.Values{
		"api_new_2factor": {secret},
		"api_new_code":    {code},
	})
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, req PasswordChange) (*Response, error) {
	return c.post(ctx, common.ActionUpdatePassword, url.Values{
		"currentpassword":        {req.Current},
		"currentpassword_md5":    {cryptox.PasswordHash(req.Current)},
		"newpassword":            {req.New},
		"newpassword_md5":        {cryptox.PasswordHash(req.New)},
		"newpasswordconfirm":     {req.Confirm},
		"newpasswordconfirm_md5": {cryptox.PasswordHash(req.Confirm)},
	})
}

func (c *HTTPClient) Disable2Factor(ctx context.Context) (*Response, error) {
	return c.post(ctx, common.ActionDisable2Factor, url.Values{})
}

func (c *HTTPClient) LostPassword(ctx context.Context, email string) (*Response, error) {
	return c.post(ctx, common.ActionLostPassword, url.Values{"email": {email}})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, params map[string]string) (*Response, error) {
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	return c.post(ctx, common.ActionResetPassword, form)
}

func (c *HTTPClient) post(ctx context.Context, action string, form url.Values) (*Response, error) {
	// set last so caller-supplied params can never change the action
	form.Set("do", action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(ctx, action, req)
}

func (c *HTTPClient) get(ctx context.Context, action string, query url.Values) (*Response, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", action, err)
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("do", action)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", action, err)
	}
	return c.do(ctx, action, req)
}

func (c *HTTPClient) do(ctx context.Context, action string, req *http.Request) (*Response, error) {
	req.Header.Set("Accept", "application/json")

	c.logger.Debug(ctx, "api request", "do", action, "method", req.Method)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "api request failed", "do", action, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, action, err)
		}
		return nil, fmt.Errorf("%w: %s: read body: %v", ErrBadResponse, action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn(ctx, "api non-2xx status", "do", action, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %s: status %s", ErrBadResponse, action, strconv.Itoa(resp.StatusCode))
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		c.logger.Warn(ctx, "api reply is not a JSON object", "do", action)
		return nil, fmt.Errorf("%w: %s: reply is not a JSON object", ErrBadResponse, action)
	}

	var out Response
	if err := json.Unmarshal(trimmed, &out); err != nil {
		c.logger.Warn(ctx, "api reply is not JSON", "do", action, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrBadResponse, action, err)
	}

	c.logger.Debug(ctx, "api response", "do", action, "error_code", string(out.Error))
	return &out, nil
}

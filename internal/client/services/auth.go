// Package services contains the application services of the dialog client.
// This file defines the auth controller: it turns request events from the
// dialog into API calls and API replies into outcome events.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/authdialog/internal/client/bus"
	"github.com/dmitrijs2005/authdialog/internal/client/client"
	"github.com/dmitrijs2005/authdialog/internal/client/events"
	"github.com/dmitrijs2005/authdialog/internal/client/i18n"
	"github.com/dmitrijs2005/authdialog/internal/client/models"
	"github.com/dmitrijs2005/authdialog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authdialog/internal/common"
	"github.com/dmitrijs2005/authdialog/internal/logging"
)

// ResetChallengeLength is the length of the locally verified lost-password
// challenge.
const ResetChallengeLength = 5

// Navigator performs the page-level effect of logging out.
type Navigator interface {
	Reload(ctx context.Context)
}

// Options tunes an AuthController. Zero values select defaults.
type Options struct {
	// Phones are the platforms selectPhone accepts.
	Phones []models.PhoneProfile
	// RequestTimeout bounds every API call; zero means no extra deadline.
	RequestTimeout time.Duration
	// Challenge generates the lost-password challenge.
	Challenge func() (string, error)
}

// credentials is the in-flight flow data. Only the controller touches it.
type credentials struct {
	username   string
	password   string
	rememberMe bool
	captcha    string
	twoFactor  string

	secretKey  string
	qrImageURL string

	pendingEmail   string
	resetChallenge string
}

// AuthController owns credentials in flight and talks to the API.
//
// Contract:
//   - Every request event has exactly one handler, registered by Attach.
//   - Handlers publish outcome events only; they never return errors.
//   - A reply that could not be obtained publishes FormTransportError
//     carrying the original request.
//   - Passwords and codes are never logged.
type AuthController struct {
	bus    bus.Mediator
	api    client.Client
	store  metadata.Repository
	tr     i18n.Translator
	nav    Navigator
	logger logging.Logger
	opts   Options

	mu    sync.Mutex
	creds credentials
}

func NewAuthController(m bus.Mediator, api client.Client, store metadata.Repository, tr i18n.Translator, nav Navigator, logger logging.Logger, opts Options) *AuthController {
	if opts.Phones == nil {
		opts.Phones = models.DefaultPhones()
	}
	if opts.Challenge == nil {
		opts.Challenge = func() (string, error) {
			return common.RandomString(ResetChallengeLength, common.AlphaNumeric)
		}
	}
	return &AuthController{
		bus:    m,
		api:    api,
		store:  store,
		tr:     tr,
		nav:    nav,
		logger: logger.With("component", "auth_controller"),
		opts:   opts,
	}
}

// Attach subscribes the controller to every request event and returns a
// function that undoes it.
func (c *AuthController) Attach() (detach func()) {
	offs := []func(){
		bus.On(c.bus, c.login),
		bus.On(c.bus, c.logout),
		bus.On(c.bus, c.requestNewEnrollment),
		bus.On(c.bus, c.confirmEnrollment),
		bus.On(c.bus, c.changePassword),
		bus.On(c.bus, c.selectPhone),
		bus.On(c.bus, c.disable2Factor),
		bus.On(c.bus, c.requestPasswordReset),
		bus.On(c.bus, c.confirmPasswordResetCaptcha),
		bus.On(c.bus, c.completePasswordReset),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// HandleFragment publishes a reset request when fragment has the form
// "#reset_password?k=v&...". It reports whether it did.
func (c *AuthController) HandleFragment(ctx context.Context, fragment string) bool {
	params, ok := ParseResetFragment(fragment)
	if !ok {
		return false
	}
	c.logger.Info(ctx, "completing password reset from link", "params", len(params))
	c.bus.Publish(ctx, events.ResetPassword{Params: params})
	return true
}

func (c *AuthController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.RequestTimeout > 0 {
		return context.WithTimeout(ctx, c.opts.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

// call runs fn under the request deadline. On a transport failure it
// publishes FormTransportError for req and returns nil.
func (c *AuthController) call(ctx context.Context, req events.Event, fn func(ctx context.Context) (*client.Response, error)) *client.Response {
	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := fn(callCtx)
	if err == nil {
		return resp
	}

	if !errors.Is(err, client.ErrUnavailable) && !errors.Is(err, client.ErrBadResponse) {
		c.logger.Error(ctx, "unexpected api error", "event", string(req.EventName()), "error", err)
	} else {
		c.logger.Warn(ctx, "request failed", "event", string(req.EventName()), "error", err)
	}
	c.bus.Publish(ctx, events.FormTransportError{
		Message: c.tr.T("validation.transport_error"),
		Request: req,
	})
	return nil
}

func (c *AuthController) formError(ctx context.Context, code string) {
	c.bus.Publish(ctx, events.FormError{Code: code, Message: c.tr.ErrorText(code)})
}

func (c *AuthController) readMeta(ctx context.Context, key string) string {
	v, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn(ctx, "metadata read failed", "key", key, "error", err)
		return ""
	}
	return string(v)
}

// login merges the step's fields into the in-flight credentials and posts
// the whole set.
func (c *AuthController) login(ctx context.Context, e events.Login) {
	lastLogged := c.readMeta(ctx, metadata.KeyLastLogged)
	salt := c.readMeta(ctx, metadata.KeyAPISalt)

	c.mu.Lock()
	switch e.Step {
	case events.StepCredentials:
		if userChanged(c.creds.username, lastLogged, e.Username) {
			c.creds.captcha = ""
			c.creds.twoFactor = ""
		}
		c.creds.username = e.Username
		c.creds.password = e.Password
		c.creds.rememberMe = e.RememberMe
	case events.StepCaptcha:
		c.creds.captcha = e.Code
	case events.StepTwoFactor:
		c.creds.twoFactor = e.Code
	}
	req := client.LoginRequest{
		Username:   c.creds.username,
		Password:   c.creds.password,
		RememberMe: c.creds.rememberMe,
		TwoFactor:  c.creds.twoFactor,
		Captcha:    c.creds.captcha,
		Salt:       salt,
	}
	c.mu.Unlock()

	c.logger.Info(ctx, "login attempt", "step", e.Step.String(), "username", req.Username)

	resp := c.call(ctx, e, func(ctx context.Context) (*client.Response, error) {
		return c.api.Login(ctx, req)
	})
	if resp == nil {
		return
	}

	switch code := string(resp.Error); code {
	case "":
		c.loginSucceeded(ctx, req.Username, string(resp.Salt))
		c.bus.Publish(ctx, events.FormSuccess{URL: string(resp.URL)})
	case common.CodeRequire2Factor:
		c.bus.Publish(ctx, events.Form2Step{Message: c.tr.ErrorText(code)})
	case common.CodeRequireCaptcha:
		c.bus.Publish(ctx, events.FormCaptcha{Captcha: string(resp.Captcha), Message: c.tr.ErrorText(code)})
	case common.CodeInvalidAuthentication:
		c.bus.Publish(ctx, events.FormLogin{})
		c.formError(ctx, code)
	case common.CodeIncorrectCaptcha:
		c.bus.Publish(ctx, events.FormCaptcha{Captcha: string(resp.Captcha)})
		c.formError(ctx, code)
	default:
		c.logger.Info(ctx, "login rejected", "code", code)
		c.formError(ctx, code)
	}
}

// userChanged reports whether answers collected for an earlier user must not
// be carried over to next.
func userChanged(inFlight, lastLogged, next string) bool {
	if inFlight != "" {
		return inFlight != next
	}
	return lastLogged != "" && lastLogged != next
}

func (c *AuthController) loginSucceeded(ctx context.Context, username, salt string) {
	values := map[string][]byte{metadata.KeyLastLogged: []byte(username)}
	if salt != "" {
		values[metadata.KeyAPISalt] = []byte(salt)
	}
	if err := c.store.SetAll(ctx, values); err != nil {
		c.logger.Error(ctx, "failed to persist login metadata", "error", err)
	}

	c.mu.Lock()
	c.creds = credentials{}
	c.mu.Unlock()

	c.logger.Info(ctx, "login succeeded", "username", username)
}

func (c *AuthController) logout(ctx context.Context, e events.Logout) {
	resp := c.call(ctx, e, func(ctx context.Context) (*client.Response, error) {
		return c.api.Logout(ctx)
	})
	if resp == nil {
		return
	}
	if resp.Failed() {
		c.logger.Info(ctx, "logout reply carried an error", "code", string(resp.Error))
	}
	// the salt was issued for the session that just ended
	if err := c.store.Delete(ctx, metadata.KeyAPISalt); err != nil {
		c.logger.Warn(ctx, "failed to forget session salt", "error", err)
	}
	c.nav.Reload(ctx)
}

func (c *AuthController) requestNewEnrollment(ctx context.Context, e events.NewQR) {
	resp := c.call(ctx, e, func(ctx context.Context) (*client.Response, error) {
		return c.api.Change2Factor(ctx, e.Force)
	})
	if resp == nil {
		return
	}

	switch code := string(resp.Error); code {
	case "":
		c.storeEnrollment(resp)
		c.bus.Publish(ctx, events.FormChoosePhone{})
	case common.CodeRequireChangePass:
		c.bus.Publish(ctx, events.FormChangePassword{Message: c.tr.ErrorText(code)})
	case common.CodeAlreadyUsed:
		c.storeEnrollment(resp)
		c.bus.Publish(ctx, events.Form2FactorReady{Message: c.tr.ErrorText(code)})
	default:
		c.formError(ctx, code)
	}
}

func (c *AuthController) storeEnrollment(resp *client.Response) {
	c.mu.Lock()
	c.creds.secretKey = string(resp.SecretCode)
	c.creds.qrImageURL = string(resp.QRURL)
	c.mu.Unlock()
}

func (c *AuthController) selectPhone(ctx context.Context, e events.ChoosePhone) {
	phone, ok := models.FindPhone(c.opts.Phones, strings.TrimSpace(e.Slug))
	if !ok {
		c.formError(ctx, common.CodeRequirePhone)
		return
	}

	c.mu.Lock()
	out := events.FormChange2Factor{Phone: phone, QRURL: c.creds.qrImageURL, SecretKey: c.creds.secretKey}
	c.mu.Unlock()

	c.bus.Publish(ctx, out)
}

func (c *AuthController) confirmEnrollment(ctx context.Context, e events.UpdateQR) {
	c.mu.Lock()
	secret := c.creds.secretKey
	c.mu.Unlock()

	resp := c.call(ctx, e, func(ctx context.Context) (*client.Response, error) {
		return c.api.Update2Factor(ctx, secret, e.Code)
	})
	if resp == nil {
		return
	}
	if resp.Failed() {
		c.formError(ctx, string(resp.Error))
		return
	}

	c.mu.Lock()
	c.creds.secretKey = ""
	c.creds.qrImageURL = ""
	c.mu.Unlock()

	c.logger.Info(ctx, "2fa enabled")
	c.bus.Publish(ctx, events.FormMsg{Title: c.tr.T("box_title.twoFA"), Message: c.tr.T("message.twoFA_enable")})
}

func (c *AuthController) changePassword(ctx context.Context, e events.UpdatePassword) {
	resp := c.call(ctx, e, func(ctx context.Context) (*client.Response, error) {
		return c.api.UpdatePassword(ctx, client.PasswordChange{
			Current: e.Password,
			New:     e.NewPassword,
			Confirm: e.NewPasswordConfirm,
		})
	})
	if resp == nil {
		return
	}
	if resp.Failed() {
		c.formError(ctx, string(resp.Error))
		return
	}

	c.logger.Info(ctx, "password changed, restarting enrollment")
	// the old secret died with the old password
	c.requestNewEnrollment(ctx, events.NewQR{Force: true})
}

func (c *AuthController) disable2Factor(ctx context.Context, e events.Disable2Factor) {
	resp := c.call(ctx, e, func(ctx context.Context) (*client.Response, error) {
		return c.api.Disable2Factor(ctx)
	})
	if resp == nil {
		return
	}
	if resp.Failed() {
		c.formError(ctx, string(resp.Error))
		return
	}

	c.logger.Info(ctx, "2fa disabled")
	c.bus.Publish(ctx, events.FormMsg{Title: c.tr.T("box_title.twoFA"), Message: c.tr.T("message.twoFA_disable")})
}

func (c *AuthController) requestPasswordReset(ctx context.Context, e events.LostPassword) {
	challenge, err := c.opts.Challenge()
	if err != nil {
		c.logger.Error(ctx, "challenge generation failed", "error", err)
		c.formError(ctx, "")
		return
	}

	c.mu.Lock()
	c.creds.pendingEmail = strings.TrimSpace(e.Email)
	c.creds.resetChallenge = challenge
	c.mu.Unlock()

	c.bus.Publish(ctx, events.FormLostPasswordCaptcha{
		Captcha: challenge,
		Message: c.tr.ErrorText(common.CodeRequireCaptcha),
	})
}

// confirmPasswordResetCaptcha compares the answer with the issued challenge
// case-sensitively. The challenge is spent once the server has replied.
func (c *AuthController) confirmPasswordResetCaptcha(ctx context.Context, e events.LostPasswordCaptcha) {
	c.mu.Lock()
	expected := c.creds.resetChallenge
	email := c.creds.pendingEmail
	c.mu.Unlock()

	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(e.Code)) != 1 {
		c.formError(ctx, common.CodeRequireCaptcha)
		return
	}

	resp := c.call(ctx, e, func(ctx context.Context) (*client.Response, error) {
		return c.api.LostPassword(ctx, email)
	})
	if resp == nil {
		return
	}

	c.mu.Lock()
	c.creds.resetChallenge = ""
	c.creds.pendingEmail = ""
	c.mu.Unlock()

	title := c.tr.T("box_title.lost_password")
	if resp.Failed() {
		c.bus.Publish(ctx, events.FormMsg{Title: title, Message: c.tr.ErrorText(string(resp.Error))})
		return
	}
	c.bus.Publish(ctx, events.FormMsg{Title: title, Message: c.tr.T("message.new_password_sent")})
}

func (c *AuthController) completePasswordReset(ctx context.Context, e events.ResetPassword) {
	resp := c.call(ctx, e, func(ctx context.Context) (*client.Response, error) {
		return c.api.ResetPassword(ctx, e.Params)
	})
	if resp == nil {
		return
	}

	title := c.tr.T("box_title.lost_password")
	if resp.Failed() {
		c.bus.Publish(ctx, events.FormMsg{Title: title, Message: c.tr.ErrorText(string(resp.Error))})
		return
	}
	c.bus.Publish(ctx, events.FormMsg{Title: title, Message: c.tr.T("message.reset_password")})
}

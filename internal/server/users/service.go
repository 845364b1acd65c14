// Package users implements the accounts behind the dev API server: password
// login with a captcha after repeated failures, TOTP second factor,
// password changes and email based reset.
package users

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/authdialog/internal/common"
	"github.com/dmitrijs2005/authdialog/internal/cryptox"
	"github.com/dmitrijs2005/authdialog/internal/logging"
	"github.com/dmitrijs2005/authdialog/internal/server/auth"
	"github.com/dmitrijs2005/authdialog/internal/server/config"
	"github.com/dmitrijs2005/authdialog/internal/server/mail"
)

const (
	saltSize          = 16
	captchaLength     = 5
	historySize       = 5
	minPasswordLength = 6
	activationTTL     = 24 * time.Hour
	issuer            = "authdialog"
)

type LoginInput struct {
	Username   string
	Password   string
	TwoFactor  string
	Captcha    string
	Persistent bool
}

// Session is a successful login.
type Session struct {
	Token      string
	Expires    time.Time
	Persistent bool
	// Salt is fresh per session and unrelated to the stored verifier salt.
	Salt       string
	URL        string
}

// guard tracks failed logins for one username. Once the limiter has no
// tokens left every attempt must answer the current captcha.
type guard struct {
	limiter *rate.Limiter
	captcha string
}

type Service struct {
	repo            Repository
	mailer          mail.Sender
	logger          logging.Logger
	jwtSecret       []byte
	sessionValidity time.Duration
	publicURL       string
	failureBudget   int
	failureWindow   time.Duration
	now             func() time.Time

	mu     sync.Mutex
	guards map[string]*guard
	qr     map[string]string
}

func NewService(repo Repository, mailer mail.Sender, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:            repo,
		mailer:          mailer,
		logger:          logger.With("module", "users"),
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidity,
		publicURL:       strings.TrimRight(cfg.PublicURL, "/"),
		failureBudget:   cfg.FailuresBeforeCaptcha,
		failureWindow:   cfg.CaptchaWindow,
		now:             time.Now,
		guards:          make(map[string]*guard),
		qr:              make(map[string]string),
	}
}

func newCredential(password string) Credential {
	salt := common.GenerateRandByteArray(saltSize)
	return Credential{
		Salt:     salt,
		Verifier: cryptox.MakeVerifier(cryptox.DeriveMasterKey([]byte(password), salt)),
	}
}

func (c Credential) matches(password string) bool {
	return cryptox.CheckVerifier([]byte(password), c.Salt, c.Verifier)
}

// Seed creates the configured accounts. Existing usernames are skipped.
func (s *Service) Seed(ctx context.Context, seeds []config.SeedUser) error {
	for _, su := range seeds {
		user := &User{
			UserName:           su.Username,
			Email:              su.Email,
			Password:           newCredential(su.Password),
			MustChangePassword: su.MustChangePassword,
		}
		if _, err := s.repo.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				s.logger.Warn(ctx, "seed user already exists", "username", su.Username)
				continue
			}
			return fmt.Errorf("error creating user %s: %w", su.Username, err)
		}
		s.logger.Info(ctx, "seeded user", "username", su.Username)
	}
	return nil
}

// Authenticate returns the user id carried by a session token.
func (s *Service) Authenticate(token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthorized
	}
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return "", common.ErrorUnauthorized
	}
	return claims.UserID, nil
}

func (s *Service) guardFor(username string) *guard {
	key := strings.ToLower(username)
	g, ok := s.guards[key]
	if !ok {
		g = &guard{limiter: rate.NewLimiter(rate.Every(s.failureWindow), s.failureBudget)}
		s.guards[key] = g
	}
	return g
}

func (s *Service) newCaptcha(g *guard, code string) error {
	text, err := common.RandomString(captchaLength, common.AlphaNumeric)
	if err != nil {
		return err
	}
	g.captcha = text
	return &Failure{Code: code, Captcha: `<span class="captcha">` + text + `</span>`}
}

// checkGuard returns a captcha failure when the username has used up its
// failure budget and the attempt does not carry the right answer.
func (s *Service) checkGuard(username, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.guardFor(username)
	if g.limiter.TokensAt(s.now()) >= 1 {
		return nil
	}
	if g.captcha == "" || answer == "" {
		return s.newCaptcha(g, common.CodeRequireCaptcha)
	}
	if subtle.ConstantTimeCompare([]byte(g.captcha), []byte(answer)) != 1 {
		return s.newCaptcha(g, common.CodeIncorrectCaptcha)
	}
	return nil
}

func (s *Service) recordFailure(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.guardFor(username)
	g.limiter.AllowN(s.now(), 1)
	// a solved captcha is good for one wrong password only
	g.captcha = ""
}

func (s *Service) forgetFailures(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.guards, strings.ToLower(username))
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := s.checkGuard(in.Username, in.Captcha); err != nil {
		s.logger.Info(ctx, "login needs captcha", "username", in.Username, "code", err.Error())
		return nil, err
	}

	user, err := s.repo.GetUserByLogin(ctx, in.Username)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if user == nil || !user.Password.matches(in.Password) {
		s.recordFailure(in.Username)
		s.logger.Warn(ctx, "invalid credentials", "username", in.Username)
		return nil, errInvalidAuthentication
	}

	if user.TwoFactorEnabled() {
		if in.TwoFactor == "" {
			return nil, fail(common.CodeRequire2Factor)
		}
		if !s.validateCode(in.TwoFactor, user.TwoFactor.Secret) {
			s.recordFailure(in.Username)
			s.logger.Warn(ctx, "invalid 2fa code", "username", in.Username)
			return nil, fail(common.CodeIncorrect2Factor)
		}
	}

	s.forgetFailures(in.Username)

	token, expires, err := auth.GenerateToken(user.ID, in.Persistent, s.jwtSecret, s.sessionValidity)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "logged in", "username", user.UserName)

	return &Session{
		Token:      token,
		Expires:    expires,
		Persistent: in.Persistent,
		Salt:       hex.EncodeToString(common.GenerateRandByteArray(saltSize)),
		URL:        s.publicURL + "/",
	}, nil
}

func (s *Service) currentUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *Service) save(ctx context.Context, user *User) error {
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error(ctx, "user update failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

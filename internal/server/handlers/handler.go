// Package handlers exposes the users service over the legacy form-encoded
// login API: one endpoint dispatching on the "do" field, replying with a JSON
// object whose "error" member is false or an error code.
package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/authdialog/internal/common"
	"github.com/dmitrijs2005/authdialog/internal/logging"
	"github.com/dmitrijs2005/authdialog/internal/server/users"
)

// APIPath is where the login API is mounted.
const APIPath = "/login_api.php"

type UserService interface {
	Authenticate(token string) (string, error)
	Login(ctx context.Context, in users.LoginInput) (*users.Session, error)
	Change2Factor(ctx context.Context, userID string, force bool) (*users.Enrollment, error)
	Update2Factor(ctx context.Context, userID, secret, code string) error
	UpdatePassword(ctx context.Context, userID string, req users.PasswordChange) error
	Disable2Factor(ctx context.Context, userID string) error
	LostPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, userID, activationID string) error
	QRCode(ctx context.Context, id string) ([]byte, error)
}

type Handler struct {
	users  UserService
	logger logging.Logger
}

func NewHandler(us UserService, logger logging.Logger) *Handler {
	return &Handler{users: us, logger: logger.With("module", "api")}
}

// Register mounts the API and the QR image route on router.
func (h *Handler) Register(router fiber.Router) {
	router.All(APIPath, h.API)
	router.Get("/qr/:id", h.QRCode)
}

type action func(c *fiber.Ctx) error

func (h *Handler) API(c *fiber.Ctx) error {
	do := c.FormValue("do")

	actions := map[string]action{
		common.ActionLogin:          h.login,
		common.ActionLogout:         h.logout,
		common.ActionChange2Factor:  h.authenticated(h.change2Factor),
		common.ActionUpdate2Factor:  h.authenticated(h.update2Factor),
		common.ActionUpdatePassword: h.authenticated(h.updatePassword),
		common.ActionDisable2Factor: h.authenticated(h.disable2Factor),
		common.ActionLostPassword:   h.lostPassword,
		common.ActionResetPassword:  h.resetPassword,
	}

	h.logger.Debug(c.UserContext(), "api request", "do", do, "method", c.Method())

	fn, ok := actions[do]
	if !ok {
		return replyCode(c, common.CodeUnknownAction)
	}
	return fn(c)
}

type userIDKey struct{}

// authenticated resolves the session cookie before calling next. Requests
// without a valid session are answered with require_login.
func (h *Handler) authenticated(next action) action {
	return func(c *fiber.Ctx) error {
		userID, err := h.users.Authenticate(c.Cookies(common.SessionCookieName))
		if err != nil {
			return replyCode(c, common.CodeRequireLogin)
		}
		c.Locals(userIDKey{}, userID)
		return next(c)
	}
}

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey{}).(string)
	return id
}

func replyOK(c *fiber.Ctx, fields fiber.Map) error {
	body := fiber.Map{"error": false}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(body)
}

func replyCode(c *fiber.Ctx, code string) error {
	return c.JSON(fiber.Map{"error": code})
}

// replyError maps a service error onto the wire. Refusals become error codes;
// anything else is a 500 the client treats as a transport failure.
func (h *Handler) replyError(c *fiber.Ctx, err error) error {
	var f *users.Failure
	if errors.As(err, &f) {
		body := fiber.Map{"error": f.Code}
		if f.Captcha != "" {
			body["captcha"] = f.Captcha
		}
		return c.JSON(body)
	}
	if errors.Is(err, common.ErrorUnauthorized) {
		return replyCode(c, common.CodeRequireLogin)
	}

	h.logger.Error(c.UserContext(), "request failed", "do", c.FormValue("do"), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
}

func setSession(c *fiber.Ctx, s *users.Session) {
	cookie := &fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if s.Persistent {
		cookie.Expires = s.Expires
	} else {
		cookie.SessionOnly = true
	}
	c.Cookie(cookie)
}

func clearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// ErrorHandler answers errors that escape a route. API clients only look at
// the status, so the body stays minimal.
func (h *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		h.logger.Error(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	}
	return c.SendStatus(code)
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/authdialog/internal/common"
	"github.com/dmitrijs2005/authdialog/internal/cryptox"
	"github.com/dmitrijs2005/authdialog/internal/server/users"
)

// md5Consistent reports whether a submitted *_md5 digest, when present,
// belongs to the cleartext sent with it.
func md5Consistent(clear, digest string) bool {
	return digest == "" || digest == cryptox.PasswordHash(clear)
}

func (h *Handler) login(c *fiber.Ctx) error {
	password := c.FormValue("api_vb_login_password")
	if !md5Consistent(password, c.FormValue("api_vb_login_md5password")) {
		return replyCode(c, common.CodeInvalidAuthentication)
	}

	sess, err := h.users.Login(c.UserContext(), users.LoginInput{
		Username:   c.FormValue("api_vb_login_username"),
		Password:   password,
		TwoFactor:  c.FormValue("api_2factor"),
		Captcha:    c.FormValue("api_captcha"),
		Persistent: c.FormValue("api_cookieuser") == "1",
	})
	if err != nil {
		return h.replyError(c, err)
	}

	setSession(c, sess)
	return replyOK(c, fiber.Map{"salt": sess.Salt, "url": sess.URL})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	clearSession(c)
	return replyOK(c, nil)
}

func (h *Handler) change2Factor(c *fiber.Ctx) error {
	en, err := h.users.Change2Factor(c.UserContext(), currentUserID(c), c.FormValue("force") == "1")
	if err != nil {
		return h.replyError(c, err)
	}

	body := fiber.Map{"secret_code": en.Secret, "qr_url": en.QRURL}
	if en.AlreadyUsed {
		body["error"] = common.CodeAlreadyUsed
		return c.JSON(body)
	}
	return replyOK(c, body)
}

func (h *Handler) update2Factor(c *fiber.Ctx) error {
	err := h.users.Update2Factor(c.UserContext(), currentUserID(c),
		c.FormValue("api_new_2factor"), c.FormValue("api_new_code"))
	if err != nil {
		return h.replyError(c, err)
	}
	return replyOK(c, nil)
}

func (h *Handler) updatePassword(c *fiber.Ctx) error {
	req := users.PasswordChange{
		Current: c.FormValue("currentpassword"),
		New:     c.FormValue("newpassword"),
		Confirm: c.FormValue("newpasswordconfirm"),
	}
	if !md5Consistent(req.Current, c.FormValue("currentpassword_md5")) ||
		!md5Consistent(req.New, c.FormValue("newpassword_md5")) ||
		!md5Consistent(req.Confirm, c.FormValue("newpasswordconfirm_md5")) {
		return replyCode(c, common.CodeInvalidAuthentication)
	}

	if err := h.users.UpdatePassword(c.UserContext(), currentUserID(c), req); err != nil {
		return h.replyError(c, err)
	}
	return replyOK(c, nil)
}

func (h *Handler) disable2Factor(c *fiber.Ctx) error {
	if err := h.users.Disable2Factor(c.UserContext(), currentUserID(c)); err != nil {
		return h.replyError(c, err)
	}
	return replyOK(c, nil)
}

func (h *Handler) lostPassword(c *fiber.Ctx) error {
	if err := h.users.LostPassword(c.UserContext(), c.FormValue("email")); err != nil {
		return h.replyError(c, err)
	}
	return replyOK(c, nil)
}

func (h *Handler) resetPassword(c *fiber.Ctx) error {
	err := h.users.ResetPassword(c.UserContext(), c.FormValue("userid"), c.FormValue("activationid"))
	if err != nil {
		return h.replyError(c, err)
	}
	return replyOK(c, nil)
}

func (h *Handler) QRCode(c *fiber.Ctx) error {
	img, err := h.users.QRCode(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("png")
	return c.Send(img)
}

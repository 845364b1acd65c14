package dialog

import (
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/authdialog/internal/client/models"
	"github.com/dmitrijs2005/authdialog/internal/client/render"
)

// View is a snapshot of the dialog. Message, Alert and Captcha may carry
// markup; Instructions is Markdown.
type View struct {
	Open                bool
	State               State
	Title               string
	Alert               string
	Retryable           bool
	Message             string
	Captcha             string
	Phones              []models.PhoneProfile
	Phone               models.PhoneProfile
	Instructions        string
	Fields              []Field
	Values              map[Field]string
	RememberMe          bool
	PasswordVisible     bool
	UsernamePlaceholder string
	SubmitLabel         string
	PrevLabel           string
	Pending             bool
}

// Shows reports whether f is one of the visible inputs.
func (v View) Shows(f Field) bool {
	for _, x := range v.Fields {
		if x == f {
			return true
		}
	}
	return false
}

func (d *Dialog) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

func (d *Dialog) viewLocked() View {
	v := View{
		Open:            d.open,
		State:           d.state,
		Title:           d.title,
		Alert:           d.alert,
		Retryable:       d.retry != nil,
		Message:         d.message,
		Captcha:         d.captcha,
		Phone:           d.phone,
		Instructions:    d.instructions,
		Fields:          d.state.fields(),
		Values:          make(map[Field]string, len(d.values)),
		RememberMe:      d.rememberMe,
		PasswordVisible: d.passwordVisible,
		SubmitLabel:     d.tr.T(d.state.submitKey()),
		Pending:         d.pending,
	}
	for f, val := range d.values {
		v.Values[f] = val
	}
	if k := d.state.prevKey(); k != "" {
		v.PrevLabel = d.tr.T(k)
	}
	switch d.state {
	case StateChoosePhone:
		v.Phones = append([]models.PhoneProfile(nil), d.phones...)
	case StateLostPassword:
		v.UsernamePlaceholder = d.tr.T("button.email")
	case StateLogin:
		v.UsernamePlaceholder = d.tr.T("button.username")
	}
	return v
}

// HTML renders the dialog markup.
func (d *Dialog) HTML() (string, error) {
	v := d.View()
	if !v.Open {
		return "", ErrClosed
	}
	if d.renderer == nil {
		return "", fmt.Errorf("html: no renderer configured")
	}
	r := d.renderer

	var alert template.HTML
	if v.Alert != "" {
		data := fiber.Map{"msg": r.Sanitize(v.Alert)}
		if v.Retryable {
			data["retryLabel"] = d.tr.T("button.retry")
		}
		var err error
		if alert, err = r.Fragment(render.TemplateAlertError, data); err != nil {
			return "", err
		}
	}

	extra, err := d.extra(v)
	if err != nil {
		return "", err
	}

	passwordType := "password"
	if v.PasswordVisible {
		passwordType = "text"
	}

	return r.Render(render.TemplateDialog, fiber.Map{
		"state":               v.State.String(),
		"title":               v.Title,
		"alert":               alert,
		"extra":               extra,
		"showUsername":        v.Shows(FieldUsername),
		"usernamePlaceholder": v.UsernamePlaceholder,
		"username":            v.Values[FieldUsername],
		"showPassword":        v.Shows(FieldPassword),
		"passwordType":        passwordType,
		"showNewPassword":     v.Shows(FieldNewPassword),
		"showRemember":        v.Shows(FieldRememberMe),
		"rememberMe":          v.RememberMe,
		"showPasswordToggle":  v.Shows(FieldPassword),
		"passwordVisible":     v.PasswordVisible,
		"prevLabel":           v.PrevLabel,
		"showCode":            v.Shows(FieldCode),
		"code":                v.Values[FieldCode],
		"pending":             v.Pending,
		"submitLabel":         v.SubmitLabel,
		"labels": fiber.Map{
			"password":         d.tr.T("button.password"),
			"new_pass":         d.tr.T("button.new_pass"),
			"new_pass_confirm": d.tr.T("button.new_pass_confirm"),
			"remember_me":      d.tr.T("button.remember_me"),
			"show_password":    d.tr.T("button.show_password"),
			"code":             d.tr.T("button.code"),
		},
	})
}

// extra is the state-specific block above the inputs.
func (d *Dialog) extra(v View) (template.HTML, error) {
	r := d.renderer
	switch v.State {
	case StateCaptcha, StateLostPasswordCaptcha:
		return r.Fragment(render.TemplateCaptcha, fiber.Map{
			"msg":  r.Sanitize(v.Message),
			"code": r.Sanitize(v.Captcha),
		})
	case StateChoosePhone:
		return r.Fragment(render.TemplatePhones, fiber.Map{
			"msgTop":    r.Sanitize(d.tr.T("message.choose_phone_top")),
			"items":     v.Phones,
			"msgBottom": r.Sanitize(d.tr.T("message.choose_phone_bottom")),
			"selected":  v.Values[FieldPhone],
		})
	case StateEnable2Factor:
		return r.Markdown(v.Instructions)
	case StateTwoFactor, StateTwoFactorReady, StateChangePassword, StateMsg:
		if v.Message == "" {
			return "", nil
		}
		return r.Sanitize(v.Message), nil
	case StateLogin, StateLostPassword:
		return "", nil
	default:
		return "", nil
	}
}

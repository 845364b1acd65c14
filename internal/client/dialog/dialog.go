// Package dialog is the presentation state machine of the sign-in dialog.
// It turns user actions into request events and outcome events into states,
// and never talks to the API or to the metadata store.
package dialog

import (
	"context"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/authdialog/internal/client/bus"
	"github.com/dmitrijs2005/authdialog/internal/client/events"
	"github.com/dmitrijs2005/authdialog/internal/client/i18n"
	"github.com/dmitrijs2005/authdialog/internal/client/models"
	"github.com/dmitrijs2005/authdialog/internal/client/render"
	"github.com/dmitrijs2005/authdialog/internal/logging"
)

// Navigator leaves the dialog after a successful sign-in.
type Navigator interface {
	Navigate(ctx context.Context, url string)
	Reload(ctx context.Context)
}

// Dialog holds what the user sees. All methods are safe for concurrent use;
// the lock is never held while an event is published.
type Dialog struct {
	bus      bus.Mediator
	tr       i18n.Translator
	renderer *render.Renderer
	nav      Navigator
	logger   logging.Logger
	phones   []models.PhoneProfile

	mu              sync.Mutex
	open            bool
	state           State
	values          map[Field]string
	rememberMe      bool
	passwordVisible bool
	pending         bool
	alert           string
	retry           events.Event
	title           string
	message         string
	captcha         string
	phone           models.PhoneProfile
	instructions    string
}

func New(m bus.Mediator, tr i18n.Translator, r *render.Renderer, nav Navigator, logger logging.Logger, phones []models.PhoneProfile) *Dialog {
	if phones == nil {
		phones = models.DefaultPhones()
	}
	d := &Dialog{
		bus:      m,
		tr:       tr,
		renderer: r,
		nav:      nav,
		logger:   logger.With("component", "auth_dialog"),
		phones:   phones,
	}
	d.enterLocked(StateLogin)
	return d
}

// Attach subscribes the dialog to every outcome event and returns a
// function that undoes it.
func (d *Dialog) Attach() (detach func()) {
	offs := []func(){
		bus.On(d.bus, func(ctx context.Context, _ events.FormLogin) { d.transition(ctx, StateLogin, nil) }),
		bus.On(d.bus, func(ctx context.Context, _ events.FormLostPassword) { d.transition(ctx, StateLostPassword, nil) }),
		bus.On(d.bus, func(ctx context.Context, e events.FormLostPasswordCaptcha) {
			d.transition(ctx, StateLostPasswordCaptcha, func() { d.captcha, d.message = e.Captcha, e.Message })
		}),
		bus.On(d.bus, func(ctx context.Context, e events.FormCaptcha) {
			d.transition(ctx, StateCaptcha, func() { d.captcha, d.message = e.Captcha, e.Message })
		}),
		bus.On(d.bus, func(ctx context.Context, e events.Form2Step) {
			d.transition(ctx, StateTwoFactor, func() { d.message = e.Message })
		}),
		bus.On(d.bus, func(ctx context.Context, e events.Form2FactorReady) {
			d.transition(ctx, StateTwoFactorReady, func() { d.message = e.Message })
		}),
		bus.On(d.bus, func(ctx context.Context, _ events.FormChoosePhone) { d.transition(ctx, StateChoosePhone, nil) }),
		bus.On(d.bus, d.onChange2Factor),
		bus.On(d.bus, func(ctx context.Context, e events.FormChangePassword) {
			d.transition(ctx, StateChangePassword, func() { d.message = e.Message })
		}),
		bus.On(d.bus, func(ctx context.Context, e events.FormMsg) {
			d.transition(ctx, StateMsg, func() { d.title, d.message = e.Title, e.Message })
		}),
		bus.On(d.bus, d.onError),
		bus.On(d.bus, d.onTransportError),
		bus.On(d.bus, d.onSuccess),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// enterLocked resets every value and control, then switches to s.
func (d *Dialog) enterLocked(s State) {
	d.state = s
	d.values = make(map[Field]string)
	d.rememberMe = false
	d.passwordVisible = false
	d.pending = false
	d.alert = ""
	d.retry = nil
	d.title = d.tr.T(s.titleKey())
	d.message = ""
	d.captcha = ""
	d.phone = models.PhoneProfile{}
	d.instructions = ""
}

func (d *Dialog) transition(ctx context.Context, s State, reveal func()) {
	d.mu.Lock()
	from := d.state
	d.open = true
	d.enterLocked(s)
	if reveal != nil {
		reveal()
	}
	d.mu.Unlock()

	d.logger.Debug(ctx, "dialog state changed", "from", from.String(), "to", s.String())
}

func (d *Dialog) onChange2Factor(ctx context.Context, e events.FormChange2Factor) {
	tmpl, ok := d.tr.Lookup("markdown_2factor." + e.Phone.Slug)
	if !ok {
		d.logger.Warn(ctx, "no enrollment instructions for phone", "slug", e.Phone.Slug)
	}
	instructions := render.EnrollmentInstructions(tmpl, e.QRURL, e.SecretKey, e.Phone.AppURL)

	d.transition(ctx, StateEnable2Factor, func() {
		d.phone = e.Phone
		d.instructions = instructions
	})
}

// onError and onTransportError also open a closed dialog: a failure of a
// request sent while it was hidden, such as a boot-time reset link or a
// logout, must still reach the user.
func (d *Dialog) onError(_ context.Context, e events.FormError) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.alert = e.Message
	d.retry = nil
	d.pending = false
}

func (d *Dialog) onTransportError(_ context.Context, e events.FormTransportError) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.alert = e.Message
	d.retry = e.Request
	d.pending = false
}

func (d *Dialog) onSuccess(ctx context.Context, e events.FormSuccess) {
	d.mu.Lock()
	d.open = false
	d.pending = false
	d.mu.Unlock()

	if e.URL != "" {
		d.nav.Navigate(ctx, e.URL)
		return
	}
	d.nav.Reload(ctx)
}

// ShowLogin opens the dialog on the login form.
func (d *Dialog) ShowLogin(ctx context.Context) {
	d.mu.Lock()
	d.open = true
	d.mu.Unlock()
	d.bus.Publish(ctx, events.FormLogin{})
}

// ShowEnrollment opens the dialog and asks for a fresh 2FA secret.
func (d *Dialog) ShowEnrollment(ctx context.Context) error {
	d.mu.Lock()
	if d.pending {
		d.mu.Unlock()
		return ErrRequestPending
	}
	d.open = true
	d.pending = true
	d.mu.Unlock()

	d.bus.Publish(ctx, events.NewQR{Force: false})
	return nil
}

func (d *Dialog) Logout(ctx context.Context) {
	d.bus.Publish(ctx, events.Logout{})
}

// Close hides the dialog. A reply that arrives later opens it again.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.pending = false
}

// SetField stores user input. Remember-me takes a boolean string.
func (d *Dialog) SetField(f Field, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrClosed
	}
	if _, known := fieldNames[f]; !known {
		return ErrUnknownField
	}
	if !d.state.shows(f) {
		return ErrFieldHidden
	}
	if f == FieldRememberMe {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		d.rememberMe = b
		return nil
	}
	d.values[f] = value
	return nil
}

// TogglePasswordVisibility flips the password inputs between masked and
// clear text and returns the new visibility.
func (d *Dialog) TogglePasswordVisibility() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return false, ErrClosed
	}
	if !d.state.shows(FieldPassword) {
		return false, ErrFieldHidden
	}
	d.passwordVisible = !d.passwordVisible
	return d.passwordVisible, nil
}

// Submit performs the primary action of the current state.
func (d *Dialog) Submit(ctx context.Context) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.pending {
		d.mu.Unlock()
		return ErrRequestPending
	}

	if d.state == StateMsg {
		d.open = false
		d.mu.Unlock()
		return nil
	}

	if code := d.state.requiredCode(); code != "" && d.values[FieldCode] == "" {
		d.mu.Unlock()
		d.bus.Publish(ctx, events.FormError{Code: code, Message: d.tr.ErrorText(code)})
		return nil
	}

	req := d.requestLocked()
	d.pending = true
	d.alert = ""
	d.retry = nil
	d.mu.Unlock()

	d.bus.Publish(ctx, req)
	return nil
}

func (d *Dialog) requestLocked() events.Event {
	switch d.state {
	case StateLogin:
		return events.Login{
			Step:       events.StepCredentials,
			Username:   d.values[FieldUsername],
			Password:   d.values[FieldPassword],
			RememberMe: d.rememberMe,
		}
	case StateLostPassword:
		return events.LostPassword{Email: d.values[FieldUsername]}
	case StateLostPasswordCaptcha:
		return events.LostPasswordCaptcha{Code: d.values[FieldCode]}
	case StateCaptcha:
		return events.Login{Step: events.StepCaptcha, Code: d.values[FieldCode]}
	case StateTwoFactor:
		return events.Login{Step: events.StepTwoFactor, Code: d.values[FieldCode]}
	case StateChoosePhone:
		return events.ChoosePhone{Slug: d.values[FieldPhone]}
	case StateEnable2Factor:
		return events.UpdateQR{Code: d.values[FieldCode]}
	case StateTwoFactorReady:
		return events.NewQR{Force: true}
	case StateChangePassword:
		return events.UpdatePassword{
			Password:           d.values[FieldPassword],
			NewPassword:        d.values[FieldNewPassword],
			NewPasswordConfirm: d.values[FieldNewPasswordConfirm],
		}
	case StateMsg:
		return nil
	default:
		return nil
	}
}

// Prev performs the secondary action of the current state.
func (d *Dialog) Prev(ctx context.Context) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.pending {
		d.mu.Unlock()
		return ErrRequestPending
	}

	var e events.Event
	switch d.state {
	case StateEnable2Factor:
		e = events.FormChoosePhone{}
	case StateTwoFactorReady:
		e = events.Disable2Factor{}
		d.pending = true
	case StateLogin:
		e = events.FormLostPassword{}
	case StateLostPassword, StateLostPasswordCaptcha, StateCaptcha, StateTwoFactor,
		StateChoosePhone, StateChangePassword, StateMsg:
		d.mu.Unlock()
		return ErrNoPrevious
	default:
		d.mu.Unlock()
		return ErrNoPrevious
	}
	d.mu.Unlock()

	d.bus.Publish(ctx, e)
	return nil
}

// Retry publishes again the request that last failed in transport.
func (d *Dialog) Retry(ctx context.Context) error {
	d.mu.Lock()
	if d.pending {
		d.mu.Unlock()
		return ErrRequestPending
	}
	req := d.retry
	if req == nil {
		d.mu.Unlock()
		return ErrNothingToRetry
	}
	d.retry = nil
	d.alert = ""
	d.pending = true
	d.mu.Unlock()

	d.bus.Publish(ctx, req)
	return nil
}

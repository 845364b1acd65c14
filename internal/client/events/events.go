// Package events is the contract between the auth controller and the auth
// dialog. Every payload is a value type exposing the wire name it travels
// under; neither side holds a reference into the other's data.
package events

import "github.com/dmitrijs2005/authdialog/internal/client/models"

// Name identifies an event on the bus.
type Name string

// Request events, emitted by the dialog.
const (
	AuthLogin               Name = "authLogin"
	AuthLogout              Name = "authLogout"
	AuthNewQR               Name = "authNewQR"
	AuthUpdateQR            Name = "authUpdateQR"
	AuthUpdatePassword      Name = "authUpdatePassword"
	AuthChoosePhone         Name = "authChoosePhone"
	AuthDisable2Factor      Name = "authDisable2Factor"
	AuthLostPassword        Name = "authLostPassword"
	AuthLostPasswordCaptcha Name = "authLostPasswordCaptcha"
	AuthResetPassword       Name = "authResetPassword"
)

// Outcome events, emitted by the controller.
const (
	AuthFormError               Name = "authFormError"
	AuthFormSuccess             Name = "authFormSuccess"
	AuthFormLogin               Name = "authFormLogin"
	AuthFormCaptcha             Name = "authFormCaptcha"
	AuthForm2Step               Name = "authForm2Step"
	AuthForm2FactorReady        Name = "authForm2FactorReady"
	AuthFormChange2Factor       Name = "authFormChange2Factor"
	AuthFormChangePassword      Name = "authFormChangePassword"
	AuthFormChoosePhone         Name = "authFormChoosePhone"
	AuthFormMsg                 Name = "authFormMsg"
	AuthFormLostPassword        Name = "authFormLostPassword"
	AuthFormLostPasswordCaptcha Name = "authFormLostPasswordCaptcha"
	AuthFormTransportError      Name = "authFormTransportError"
)

// Event is implemented by every payload type in this package.
type Event interface {
	EventName() Name
}

// LoginStep says which part of the login flow a Login request belongs to.
// The controller only merges the fields that belong to the step.
type LoginStep int

const (
	StepCredentials LoginStep = iota
	StepCaptcha
	StepTwoFactor
)

func (s LoginStep) String() string {
	switch s {
	case StepCredentials:
		return "credentials"
	case StepCaptcha:
		return "captcha"
	case StepTwoFactor:
		return "2factor"
	default:
		return "unknown"
	}
}

type Login struct {
	Step       LoginStep
	Username   string
	Password   string
	RememberMe bool
	// Code is the captcha answer or the 2FA code, depending on Step.
	Code string
}

type Logout struct{}

type NewQR struct {
	Force bool
}

type UpdateQR struct {
	Code string
}

type UpdatePassword struct {
	Password           string
	NewPassword        string
	NewPasswordConfirm string
}

type ChoosePhone struct {
	Slug string
}

type Disable2Factor struct{}

type LostPassword struct {
	Email string
}

type LostPasswordCaptcha struct {
	Code string
}

// ResetPassword carries the key/value pairs of a reset link.
type ResetPassword struct {
	Params map[string]string
}

type FormError struct {
	Code    string
	Message string
}

type FormSuccess struct {
	URL string
}

type FormLogin struct{}

// FormCaptcha carries server captcha markup (or a challenge id) and a prompt.
type FormCaptcha struct {
	Captcha string
	Message string
}

type Form2Step struct {
	Message string
}

type Form2FactorReady struct {
	Message string
}

type FormChange2Factor struct {
	Phone     models.PhoneProfile
	QRURL     string
	SecretKey string
}

type FormChangePassword struct {
	Message string
}

type FormChoosePhone struct{}

type FormMsg struct {
	Title   string
	Message string
}

type FormLostPassword struct{}

type FormLostPasswordCaptcha struct {
	Captcha string
	Message string
}

// FormTransportError reports a request that never produced a usable reply.
// Request is the event to publish again on retry.
type FormTransportError struct {
	Message string
	Request Event
}

func (Login) EventName() Name               { return AuthLogin }
func (Logout) EventName() Name              { return AuthLogout }
func (NewQR) EventName() Name               { return AuthNewQR }
func (UpdateQR) EventName() Name            { return AuthUpdateQR }
func (UpdatePassword) EventName() Name      { return AuthUpdatePassword }
func (ChoosePhone) EventName() Name         { return AuthChoosePhone }
func (Disable2Factor) EventName() Name      { return AuthDisable2Factor }
func (LostPassword) EventName() Name        { return AuthLostPassword }
func (LostPasswordCaptcha) EventName() Name { return AuthLostPasswordCaptcha }
func (ResetPassword) EventName() Name       { return AuthResetPassword }

func (FormError) EventName() Name               { return AuthFormError }
func (FormSuccess) EventName() Name             { return AuthFormSuccess }
func (FormLogin) EventName() Name               { return AuthFormLogin }
func (FormCaptcha) EventName() Name             { return AuthFormCaptcha }
func (Form2Step) EventName() Name               { return AuthForm2Step }
func (Form2FactorReady) EventName() Name        { return AuthForm2FactorReady }
func (FormChange2Factor) EventName() Name       { return AuthFormChange2Factor }
func (FormChangePassword) EventName() Name      { return AuthFormChangePassword }
func (FormChoosePhone) EventName() Name         { return AuthFormChoosePhone }
func (FormMsg) EventName() Name                 { return AuthFormMsg }
func (FormLostPassword) EventName() Name        { return AuthFormLostPassword }
func (FormLostPasswordCaptcha) EventName() Name { return AuthFormLostPasswordCaptcha }
func (FormTransportError) EventName() Name      { return AuthFormTransportError }

package dialog

import (
	"fmt"

	"github.com/dmitrijs2005/authdialog/internal/common"
)

// State is the form the dialog currently shows.
type State int

const (
	StateLogin State = iota
	StateLostPassword
	StateLostPasswordCaptcha
	StateCaptcha
	StateTwoFactor
	StateChoosePhone
	StateEnable2Factor
	StateTwoFactorReady
	StateChangePassword
	StateMsg
)

// States lists every state in declaration order.
var States = []State{
	StateLogin, StateLostPassword, StateLostPasswordCaptcha, StateCaptcha, StateTwoFactor,
	StateChoosePhone, StateEnable2Factor, StateTwoFactorReady, StateChangePassword, StateMsg,
}

func (s State) String() string {
	switch s {
	case StateLogin:
		return "login"
	case StateLostPassword:
		return "lost_password"
	case StateLostPasswordCaptcha:
		return "lost_password_captcha"
	case StateCaptcha:
		return "captcha"
	case StateTwoFactor:
		return "2factor"
	case StateChoosePhone:
		return "choose_phone"
	case StateEnable2Factor:
		return "enable2factor"
	case StateTwoFactorReady:
		return "2factor_ready"
	case StateChangePassword:
		return "changePassword"
	case StateMsg:
		return "msg"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Field is a user-editable input.
type Field int

const (
	FieldUsername Field = iota
	FieldPassword
	FieldNewPassword
	FieldNewPasswordConfirm
	FieldRememberMe
	FieldCode
	FieldPhone
)

var fieldNames = map[Field]string{
	FieldUsername:           "username",
	FieldPassword:           "password",
	FieldNewPassword:        "new_password",
	FieldNewPasswordConfirm: "new_password_confirm",
	FieldRememberMe:         "remember_me",
	FieldCode:               "code",
	FieldPhone:              "phone",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField maps an input name back to its Field.
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// fields returns the inputs a state reveals, in display order.
func (s State) fields() []Field {
	switch s {
	case StateLogin:
		return []Field{FieldUsername, FieldPassword, FieldRememberMe}
	case StateLostPassword:
		return []Field{FieldUsername}
	case StateLostPasswordCaptcha, StateCaptcha, StateTwoFactor, StateEnable2Factor:
		return []Field{FieldCode}
	case StateChoosePhone:
		return []Field{FieldPhone}
	case StateChangePassword:
		return []Field{FieldPassword, FieldNewPassword, FieldNewPasswordConfirm}
	case StateTwoFactorReady, StateMsg:
		return nil
	default:
		return nil
	}
}

func (s State) shows(f Field) bool {
	for _, v := range s.fields() {
		if v == f {
			return true
		}
	}
	return false
}

func (s State) submitKey() string {
	switch s {
	case StateLogin:
		return "button.sign_in"
	case StateLostPassword:
		return "button.reset_password"
	case StateLostPasswordCaptcha, StateCaptcha, StateTwoFactor:
		return "button.verify"
	case StateTwoFactorReady:
		return "button.move_phone"
	case StateChoosePhone:
		return "button.continue"
	case StateEnable2Factor:
		return "button.verify_and_save"
	case StateChangePassword:
		return "button.change_pass"
	case StateMsg:
		return "button.ok"
	default:
		return ""
	}
}

// prevKey is empty when the state hides the previous button.
func (s State) prevKey() string {
	switch s {
	case StateLogin:
		return "button.lost_password"
	case StateTwoFactorReady:
		return "button.twoFA_disable"
	case StateEnable2Factor:
		return "button.prev"
	case StateLostPassword, StateLostPasswordCaptcha, StateCaptcha, StateTwoFactor,
		StateChoosePhone, StateChangePassword, StateMsg:
		return ""
	default:
		return ""
	}
}

func (s State) titleKey() string {
	switch s {
	case StateLogin, StateTwoFactor:
		return "box_title.login"
	case StateLostPassword:
		return "box_title.lost_password"
	case StateCaptcha, StateLostPasswordCaptcha:
		return "box_title.captcha"
	case StateChoosePhone, StateEnable2Factor, StateTwoFactorReady, StateChangePassword:
		return "box_title.twoFA"
	case StateMsg:
		return ""
	default:
		return ""
	}
}

// requiredCode is the error code reported when the state's code input is
// submitted empty, or "" when the state has no such check.
func (s State) requiredCode() string {
	switch s {
	case StateCaptcha, StateLostPasswordCaptcha:
		return common.CodeRequireCaptcha
	case StateTwoFactor, StateEnable2Factor:
		return common.CodeRequire2Factor
	default:
		return ""
	}
}

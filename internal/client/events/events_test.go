package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventNames_MatchWireContract(t *testing.T) {
	cases := []struct {
		ev   Event
		want string
	}{
		{Login{}, "authLogin"},
		{Logout{}, "authLogout"},
		{NewQR{}, "authNewQR"},
		{UpdateQR{}, "authUpdateQR"},
		{UpdatePassword{}, "authUpdatePassword"},
		{ChoosePhone{}, "authChoosePhone"},
		{Disable2Factor{}, "authDisable2Factor"},
		{LostPassword{}, "authLostPassword"},
		{LostPasswordCaptcha{}, "authLostPasswordCaptcha"},
		{ResetPassword{}, "authResetPassword"},
		{FormError{}, "authFormError"},
		{FormSuccess{}, "authFormSuccess"},
		{FormLogin{}, "authFormLogin"},
		{FormCaptcha{}, "authFormCaptcha"},
		{Form2Step{}, "authForm2Step"},
		{Form2FactorReady{}, "authForm2FactorReady"},
		{FormChange2Factor{}, "authFormChange2Factor"},
		{FormChangePassword{}, "authFormChangePassword"},
		{FormChoosePhone{}, "authFormChoosePhone"},
		{FormMsg{}, "authFormMsg"},
		{FormLostPassword{}, "authFormLostPassword"},
		{FormLostPasswordCaptcha{}, "authFormLostPasswordCaptcha"},
		{FormTransportError{}, "authFormTransportError"},
	}

	seen := map[Name]bool{}
	for _, c := range cases {
		assert.Equal(t, c.want, string(c.ev.EventName()))
		assert.False(t, seen[c.ev.EventName()], "duplicate name %s", c.want)
		seen[c.ev.EventName()] = true
	}
}

func TestLoginStep_String(t *testing.T) {
	assert.Equal(t, "credentials", StepCredentials.String())
	assert.Equal(t, "captcha", StepCaptcha.String())
	assert.Equal(t, "2factor", StepTwoFactor.String())
	assert.Equal(t, "unknown", LoginStep(42).String())
}

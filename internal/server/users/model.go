package users

import "time"

// Credential is a stored password: argon2 salt plus the verifier derived
// from it.
type Credential struct {
	Salt     []byte
	Verifier []byte
}

// OTPKey is a TOTP secret together with its otpauth:// URL.
type OTPKey struct {
	Secret string
	URL    string
}

type User struct {
	ID       string
	UserName string
	Email    string
	Password Credential
	// History holds previous passwords, newest first.
	History            []Credential
	TwoFactor          OTPKey
	PendingTwoFactor   OTPKey
	MustChangePassword bool
	ActivationID       string
	ActivationExpires  time.Time
	CreatedAt          time.Time
}

// TwoFactorEnabled reports whether logins need a TOTP code.
func (u *User) TwoFactorEnabled() bool {
	return u.TwoFactor.Secret != ""
}

func (u *User) clone() *User {
	c := *u
	c.History = append([]Credential(nil), u.History...)
	return &c
}

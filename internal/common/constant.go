// Package common contains constants, error codes and helpers shared by the
// dialog client and the development API server.
package common

// Action values carried in the "do" field of every API request.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionChange2Factor  = "change2factor"
	ActionUpdate2Factor  = "update2factor"
	ActionUpdatePassword = "updatePassword"
	ActionDisable2Factor = "disable2Factor"
	ActionLostPassword   = "lost_password"
	ActionResetPassword  = "reset_password"
)

// SessionCookieName is the cookie that carries the server session between
// API calls.
const SessionCookieName = "bb_session"

// GuestSecurityToken is sent as securitytoken on login, before any session exists.
const GuestSecurityToken = "guest"

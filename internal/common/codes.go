package common

// Error codes returned in the "error" field of API responses. The client maps
// each code to user-facing text through the string table; codes it does not
// know fall back to a generic message.
const (
	CodeRequireCaptcha        = "require_captcha"
	CodeRequirePhone          = "require_phone" // client-side only
	CodeInvalidAuthentication = "invalid_authentication"
	CodeIncorrectCaptcha      = "incorrect_captcha"
	CodeRequire2Factor        = "require_2factor"
	CodeIncorrect2Factor      = "incorrect_2factor"
	CodeBadPassword           = "badpassword"
	CodePasswordMismatch      = "passwordmismatch"
	CodePasswordHistory       = "passwordhistory"
	CodeAlreadyUsed           = "already_used"
	CodeRequireChangePass     = "require_changepass"

	// Codes emitted by the development server beyond the legacy set.
	CodeRequireLogin      = "require_login"
	CodeInvalidActivation = "invalid_activation"
	CodeUnknownAction     = "unknown_action"
)

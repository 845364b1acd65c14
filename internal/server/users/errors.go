package users

import "github.com/dmitrijs2005/authdialog/internal/common"

// Failure is a refusal the API reports as an error code. Captcha is set when
// the refusal comes with a fresh challenge.
type Failure struct {
	Code    string
	Captcha string
}

func (f *Failure) Error() string {
	return f.Code
}

func fail(code string) error {
	return &Failure{Code: code}
}

var errInvalidAuthentication = fail(common.CodeInvalidAuthentication)

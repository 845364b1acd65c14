package users

import (
	"bytes"
	"context"
	"crypto/subtle"
	"image/png"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/dmitrijs2005/authdialog/internal/common"
)

const qrSize = 200

// Enrollment is what an authenticator app needs to add the account.
// AlreadyUsed means the user already has a working second factor and the
// secret returned is that one.
type Enrollment struct {
	Secret      string
	QRURL       string
	AlreadyUsed bool
}

func (s *Service) validateCode(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, s.now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func (s *Service) publishQR(keyURL string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.qr[id] = keyURL
	s.mu.Unlock()
	return s.publicURL + "/qr/" + id
}

// Change2Factor starts a TOTP enrollment. Without force an account that
// already has a second factor gets its current one back.
func (s *Service) Change2Factor(ctx context.Context, userID string, force bool) (*Enrollment, error) {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.MustChangePassword {
		return nil, fail(common.CodeRequireChangePass)
	}

	if user.TwoFactorEnabled() && !force {
		return &Enrollment{
			Secret:      user.TwoFactor.Secret,
			QRURL:       s.publishQR(user.TwoFactor.URL),
			AlreadyUsed: true,
		}, nil
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: user.UserName,
	})
	if err != nil {
		s.logger.Error(ctx, "totp generation failed", "error", err)
		return nil, common.ErrorInternal
	}

	user.PendingTwoFactor = OTPKey{Secret: key.Secret(), URL: key.URL()}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "2fa enrollment started", "username", user.UserName, "force", force)

	return &Enrollment{Secret: key.Secret(), QRURL: s.publishQR(key.URL())}, nil
}

// Update2Factor activates the pending secret once code proves the app has it.
func (s *Service) Update2Factor(ctx context.Context, userID, secret, code string) error {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return err
	}

	pending := user.PendingTwoFactor
	if pending.Secret == "" || subtle.ConstantTimeCompare([]byte(pending.Secret), []byte(secret)) != 1 {
		return fail(common.CodeIncorrect2Factor)
	}
	if !s.validateCode(code, pending.Secret) {
		return fail(common.CodeIncorrect2Factor)
	}

	user.TwoFactor = pending
	user.PendingTwoFactor = OTPKey{}
	if err := s.save(ctx, user); err != nil {
		return err
	}

	s.logger.Info(ctx, "2fa enabled", "username", user.UserName)
	return nil
}

func (s *Service) Disable2Factor(ctx context.Context, userID string) error {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return err
	}

	user.TwoFactor = OTPKey{}
	user.PendingTwoFactor = OTPKey{}
	if err := s.save(ctx, user); err != nil {
		return err
	}

	s.logger.Info(ctx, "2fa disabled", "username", user.UserName)
	return nil
}

// QRCode renders the enrollment QR published under id as a PNG.
func (s *Service) QRCode(ctx context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	keyURL, ok := s.qr[id]
	s.mu.Unlock()
	if !ok {
		return nil, common.ErrorNotFound
	}

	key, err := otp.NewKeyFromURL(keyURL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, common.ErrorInternal
	}
	return buf.Bytes(), nil
}

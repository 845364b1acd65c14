package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authdialog/internal/common"
	"github.com/dmitrijs2005/authdialog/internal/server/mail"
)

const generatedPasswordLength = 10

type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

func (s *Service) UpdatePassword(ctx context.Context, userID string, req PasswordChange) error {
	user, err := s.currentUser(ctx, userID)
	if err != nil {
		return err
	}

	if !user.Password.matches(req.Current) {
		return errInvalidAuthentication
	}
	if req.New != req.Confirm {
		return fail(common.CodePasswordMismatch)
	}
	if len(req.New) < minPasswordLength || strings.EqualFold(req.New, user.UserName) {
		return fail(common.CodeBadPassword)
	}
	if user.Password.matches(req.New) {
		return fail(common.CodePasswordHistory)
	}
	for _, old := range user.History {
		if old.matches(req.New) {
			return fail(common.CodePasswordHistory)
		}
	}

	s.setPassword(user, req.New)
	if err := s.save(ctx, user); err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "username", user.UserName)
	return nil
}

func (s *Service) setPassword(user *User, password string) {
	history := append([]Credential{user.Password}, user.History...)
	if len(history) > historySize {
		history = history[:historySize]
	}
	user.History = history
	user.Password = newCredential(password)
	user.MustChangePassword = false
}

// LostPassword mails a reset link when email belongs to an account. Unknown
// addresses succeed silently.
func (s *Service) LostPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "password reset for unknown email")
			return nil
		}
		return common.ErrorInternal
	}

	user.ActivationID = uuid.NewString()
	user.ActivationExpires = s.now().Add(activationTTL)
	if err := s.save(ctx, user); err != nil {
		return err
	}

	q := url.Values{"userid": {user.ID}, "activationid": {user.ActivationID}}
	link := s.publicURL + "/#reset_password?" + q.Encode()
	if err := mail.SendResetLink(s.mailer, user.Email, link); err != nil {
		s.logger.Error(ctx, "reset link delivery failed", "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "password reset link sent", "username", user.UserName)
	return nil
}

// ResetPassword replaces the password of the account named by a reset link
// and mails the new one.
func (s *Service) ResetPassword(ctx context.Context, userID, activationID string) error {
	if userID == "" || activationID == "" {
		return fail(common.CodeInvalidActivation)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fail(common.CodeInvalidActivation)
		}
		return common.ErrorInternal
	}

	if user.ActivationID == "" ||
		subtle.ConstantTimeCompare([]byte(user.ActivationID), []byte(activationID)) != 1 ||
		s.now().After(user.ActivationExpires) {
		return fail(common.CodeInvalidActivation)
	}

	password, err := common.RandomString(generatedPasswordLength, common.AlphaNumeric)
	if err != nil {
		return common.ErrorInternal
	}

	s.setPassword(user, password)
	user.ActivationID = ""
	user.ActivationExpires = time.Time{}
	if err := s.save(ctx, user); err != nil {
		return err
	}

	if err := mail.SendNewPassword(s.mailer, user.Email, user.UserName, password); err != nil {
		s.logger.Error(ctx, "new password delivery failed", "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "password reset", "username", user.UserName)
	return nil
}

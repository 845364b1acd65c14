package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/authdialog/internal/client/dialog"
	"github.com/dmitrijs2005/authdialog/internal/common"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

var errUsage = errors.New("usage: set <field> <value>")

// Login opens the login form and submits it.
func (a *App) Login(ctx context.Context) error {
	a.dialog.ShowLogin(ctx)
	return a.Submit(ctx)
}

// Enroll starts two-step verification enrollment.
func (a *App) Enroll(ctx context.Context) error {
	if err := a.dialog.ShowEnrollment(ctx); err != nil {
		return err
	}
	a.printView()
	return nil
}

// Submit prompts for every visible input of the current form, then performs
// its primary action.
func (a *App) Submit(ctx context.Context) error {
	v := a.dialog.View()
	if !v.Open {
		return dialog.ErrClosed
	}
	a.printView()

	for _, f := range v.Fields {
		if err := a.fill(v, f); err != nil {
			return err
		}
	}

	if err := a.dialog.Submit(ctx); err != nil {
		return err
	}
	a.printView()
	return nil
}

func (a *App) fill(v dialog.View, f dialog.Field) error {
	switch f {
	case dialog.FieldPassword, dialog.FieldNewPassword, dialog.FieldNewPasswordConfirm:
		label := a.view.fieldLabel(v, f)
		if v.PasswordVisible {
			s, err := getSimpleText(a.reader, label, a.out)
			if err != nil {
				return err
			}
			return a.dialog.SetField(f, s)
		}
		pw, err := getPassword(label, a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(pw)
		return a.dialog.SetField(f, string(pw))

	case dialog.FieldRememberMe:
		yes, err := getYesNo(a.reader, a.view.fieldLabel(v, f), a.out)
		if err != nil {
			return err
		}
		return a.dialog.SetField(f, strconv.FormatBool(yes))

	case dialog.FieldPhone:
		s, err := getSimpleText(a.reader, "Phone (number or name)", a.out)
		if err != nil {
			return err
		}
		return a.dialog.SetField(f, phoneChoice(v, s))

	default:
		s, err := getSimpleText(a.reader, a.view.fieldLabel(v, f), a.out)
		if err != nil {
			return err
		}
		return a.dialog.SetField(f, s)
	}
}

// phoneChoice accepts a 1-based list index as well as a slug.
func phoneChoice(v dialog.View, s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(v.Phones) {
		return v.Phones[n-1].Slug
	}
	return strings.ToLower(s)
}

func (a *App) Prev(ctx context.Context) error {
	if err := a.dialog.Prev(ctx); err != nil {
		return err
	}
	a.printView()
	return nil
}

func (a *App) Retry(ctx context.Context) error {
	if err := a.dialog.Retry(ctx); err != nil {
		return err
	}
	a.printView()
	return nil
}

// Set stores one field without submitting.
func (a *App) Set(_ context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	f, err := dialog.ParseField(args[0])
	if err != nil {
		return err
	}
	return a.dialog.SetField(f, strings.Join(args[1:], " "))
}

// Toggle flips password visibility.
func (a *App) Toggle(_ context.Context) error {
	visible, err := a.dialog.TogglePasswordVisibility()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "password visible: %t\n", visible)
	return nil
}

func (a *App) Show(_ context.Context) error {
	if !a.dialog.View().Open {
		return dialog.ErrClosed
	}
	a.printView()
	return nil
}

// HTML prints the dialog markup.
func (a *App) HTML(_ context.Context) error {
	out, err := a.dialog.HTML()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, out)
	return nil
}

func (a *App) CloseDialog(_ context.Context) error {
	a.dialog.Close()
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.dialog.Logout(ctx)
	a.printView()
	return nil
}

func (a *App) printView() {
	v := a.dialog.View()
	if !v.Open {
		return
	}
	out, err := a.view.Render(v)
	if err != nil {
		a.logger.Error(context.Background(), "render dialog", "error", err)
		return
	}
	fmt.Fprintln(a.out, out)
}

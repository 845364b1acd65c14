package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/authdialog/internal/client/dialog"
	"github.com/dmitrijs2005/authdialog/internal/client/i18n"
	"github.com/dmitrijs2005/authdialog/internal/client/render"
)

var (
	brandPrimary = lipgloss.Color("#7C3AED")
	brandError   = lipgloss.Color("#EF4444")
	textMuted    = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(brandError).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandPrimary).
			Padding(1, 2)
)

// TerminalView draws a dialog.View as a boxed text form.
type TerminalView struct {
	renderer *render.Renderer
	tr       i18n.Translator
	md       *glamour.TermRenderer
}

// NewTerminalView builds a view. An empty style picks one from the terminal.
func NewTerminalView(r *render.Renderer, tr i18n.Translator, style string, width int) (*TerminalView, error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	md, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return &TerminalView{renderer: r, tr: tr, md: md}, nil
}

func (tv *TerminalView) Render(v dialog.View) (string, error) {
	var b strings.Builder

	if v.Title != "" {
		b.WriteString(titleStyle.Render(tv.renderer.PlainText(v.Title)))
		b.WriteString("\n")
	}
	if v.Alert != "" {
		alert := tv.renderer.PlainText(v.Alert)
		if v.Retryable {
			alert += " " + dimStyle.Render(fmt.Sprintf("(%s: type 'retry')", tv.tr.T("button.retry")))
		}
		b.WriteString(errorStyle.Render(alert))
		b.WriteString("\n\n")
	}
	if msg := tv.renderer.PlainText(v.Message); msg != "" {
		b.WriteString(msg)
		b.WriteString("\n\n")
	}

	switch v.State {
	case dialog.StateCaptcha, dialog.StateLostPasswordCaptcha:
		b.WriteString(highlightStyle.Render(tv.captcha(v.Captcha)))
		b.WriteString("\n\n")
	case dialog.StateChoosePhone:
		b.WriteString(tv.renderer.PlainText(tv.tr.T("message.choose_phone_top")))
		b.WriteString("\n")
		for i, p := range v.Phones {
			mark := " "
			if p.Slug == v.Values[dialog.FieldPhone] {
				mark = "*"
			}
			fmt.Fprintf(&b, " %s %d) %s [%s]\n", mark, i+1, p.Title, p.Slug)
		}
		b.WriteString(tv.renderer.PlainText(tv.tr.T("message.choose_phone_bottom")))
		b.WriteString("\n\n")
	case dialog.StateEnable2Factor:
		out, err := tv.md.Render(v.Instructions)
		if err != nil {
			return "", fmt.Errorf("render instructions: %w", err)
		}
		b.WriteString(strings.TrimRight(out, "\n"))
		b.WriteString("\n\n")
	}

	for _, f := range v.Fields {
		if f == dialog.FieldPhone {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", tv.fieldLabel(v, f), tv.fieldValue(v, f))
	}

	buttons := "[" + v.SubmitLabel + "]"
	if v.PrevLabel != "" {
		buttons += "  [" + v.PrevLabel + "]"
	}
	if v.Pending {
		buttons += "  ..."
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(buttons))

	return boxStyle.Render(b.String()), nil
}

// captcha shows the text of the challenge, or the image URL of server markup.
func (tv *TerminalView) captcha(markup string) string {
	if text := tv.renderer.PlainText(markup); text != "" {
		return text
	}
	if _, rest, ok := strings.Cut(markup, `src="`); ok {
		if src, _, ok := strings.Cut(rest, `"`); ok {
			return src
		}
	}
	return markup
}

func (tv *TerminalView) fieldLabel(v dialog.View, f dialog.Field) string {
	switch f {
	case dialog.FieldUsername:
		return v.UsernamePlaceholder
	case dialog.FieldPassword:
		return tv.tr.T("button.password")
	case dialog.FieldNewPassword:
		return tv.tr.T("button.new_pass")
	case dialog.FieldNewPasswordConfirm:
		return tv.tr.T("button.new_pass_confirm")
	case dialog.FieldRememberMe:
		return tv.tr.T("button.remember_me")
	case dialog.FieldCode:
		return tv.tr.T("button.code")
	case dialog.FieldPhone:
		return "phone"
	default:
		return f.String()
	}
}

func (tv *TerminalView) fieldValue(v dialog.View, f dialog.Field) string {
	switch f {
	case dialog.FieldRememberMe:
		if v.RememberMe {
			return "yes"
		}
		return "no"
	case dialog.FieldPassword, dialog.FieldNewPassword, dialog.FieldNewPasswordConfirm:
		if v.PasswordVisible {
			return v.Values[f]
		}
		return strings.Repeat("*", len(v.Values[f]))
	default:
		return v.Values[f]
	}
}

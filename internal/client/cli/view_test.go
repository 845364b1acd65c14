package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authdialog/internal/client/dialog"
	"github.com/dmitrijs2005/authdialog/internal/client/i18n"
	"github.com/dmitrijs2005/authdialog/internal/client/render"
)

func newTestView(t *testing.T) *TerminalView {
	t.Helper()
	r, err := render.New()
	require.NoError(t, err)
	tv, err := NewTerminalView(r, i18n.MustLoad("en"), "notty", 80)
	require.NoError(t, err)
	return tv
}

func TestTerminalView_MasksPasswords(t *testing.T) {
	tv := newTestView(t)

	out, err := tv.Render(dialog.View{
		Open:                true,
		State:               dialog.StateLogin,
		Title:               "Sign in",
		Fields:              []dialog.Field{dialog.FieldUsername, dialog.FieldPassword},
		Values:              map[dialog.Field]string{dialog.FieldUsername: "alice", dialog.FieldPassword: "secret"},
		UsernamePlaceholder: "Username",
		SubmitLabel:         "Sign in",
		PrevLabel:           "Lost password",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "******")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "[Lost password]")
}

func TestTerminalView_AlertAndRetry(t *testing.T) {
	tv := newTestView(t)

	out, err := tv.Render(dialog.View{
		Open:      true,
		State:     dialog.StateLogin,
		Alert:     "Wrong <strong>username</strong>",
		Retryable: true,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Wrong username")
	assert.Contains(t, out, "retry")
	assert.NotContains(t, out, "<strong>")
}

func TestTerminalView_Captcha(t *testing.T) {
	tv := newTestView(t)

	assert.Equal(t, "Ab3x9", tv.captcha("Ab3x9"))
	assert.Equal(t, "/captcha.php?id=1", tv.captcha(`<img src="/captcha.php?id=1">`))
}

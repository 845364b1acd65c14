package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authdialog/internal/client/client"
	"github.com/dmitrijs2005/authdialog/internal/client/config"
	"github.com/dmitrijs2005/authdialog/internal/client/dialog"
	"github.com/dmitrijs2005/authdialog/internal/client/i18n"
	"github.com/dmitrijs2005/authdialog/internal/client/models"
	"github.com/dmitrijs2005/authdialog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authdialog/internal/logging"
)

// stubAPI replies with queued responses regardless of the operation.
type stubAPI struct {
	replies []*client.Response
	logins  []client.LoginRequest
	resets  []map[string]string

	resetErr error
}

func (s *stubAPI) next() (*client.Response, error) {
	if len(s.replies) == 0 {
		return &client.Response{}, nil
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func (s *stubAPI) Login(_ context.Context, req client.LoginRequest) (*client.Response, error) {
	s.logins = append(s.logins, req)
	return s.next()
}
func (s *stubAPI) Logout(context.Context) (*client.Response, error) { return s.next() }
func (s *stubAPI) Change2Factor(context.Context, bool) (*client.Response, error) {
	return s.next()
}
func (s *stubAPI) Update2Factor(context.Context, string, string) (*client.Response, error) {
	return s.next()
}
func (s *stubAPI) UpdatePassword(context.Context, client.PasswordChange) (*client.Response, error) {
	return s.next()
}
func (s *stubAPI) Disable2Factor(context.Context) (*client.Response, error) { return s.next() }
func (s *stubAPI) LostPassword(context.Context, string) (*client.Response, error) {
	return s.next()
}
func (s *stubAPI) ResetPassword(_ context.Context, params map[string]string) (*client.Response, error) {
	s.resets = append(s.resets, params)
	if s.resetErr != nil {
		return nil, s.resetErr
	}
	return s.next()
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(string, io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func newTestApp(t *testing.T, api client.Client, input string, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
		cfg.LoadDefaults()
	}
	var out bytes.Buffer
	app, err := newApp(cfg, logging.Discard(), api, metadata.NewMemoryRepository(), i18n.MustLoad("en"), "notty", rdr(input), &out)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app, &out
}

func TestApp_LoginWithTwoFactor(t *testing.T) {
	silencePrintln(t)
	stubPassword(t, "secret")
	api := &stubAPI{replies: []*client.Response{
		{Error: "require_2factor"},
		{URL: "/home"},
	}}
	app, out := newTestApp(t, api, "login\nalice\ny\nsubmit\n123456\nexit\n", nil)

	app.Run(context.Background())

	require.Len(t, api.logins, 2)
	assert.Equal(t, client.LoginRequest{Username: "alice", Password: "secret", RememberMe: true}, api.logins[0])
	assert.Equal(t, "123456", api.logins[1].TwoFactor)
	assert.Contains(t, out.String(), "Signed in, continuing at /home")
	assert.Equal(t, "/home", app.nav.Location())
	assert.False(t, app.dialog.View().Open)
}

func TestApp_ResetFragmentAtBoot(t *testing.T) {
	silencePrintln(t)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ResetFragment = "#reset_password?userid=7&activationid=abc"
	api := &stubAPI{}
	app, out := newTestApp(t, api, "", cfg)

	app.Run(context.Background())

	assert.Equal(t, []map[string]string{{"userid": "7", "activationid": "abc"}}, api.resets)
	assert.Contains(t, out.String(), i18n.MustLoad("en").T("message.reset_password"))
}

func TestApp_UnreachableResetFragmentShowsRetry(t *testing.T) {
	silencePrintln(t)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ResetFragment = "#reset_password?userid=7&activationid=abc"
	api := &stubAPI{resetErr: fmt.Errorf("dial: %w", client.ErrUnavailable)}
	app, out := newTestApp(t, api, "", cfg)

	app.Run(context.Background())

	tr := i18n.MustLoad("en")
	v := app.dialog.View()
	assert.True(t, v.Open)
	assert.True(t, v.Retryable)
	assert.Contains(t, out.String(), tr.T("validation.transport_error"))
	assert.Contains(t, out.String(), "type 'retry'")
}

func TestApp_ChoosePhoneByNumber(t *testing.T) {
	silencePrintln(t)
	api := &stubAPI{replies: []*client.Response{{SecretCode: "JBSWY3DP", QRURL: "/qr/1"}}}
	app, out := newTestApp(t, api, "2fa\nsubmit\n2\n", nil)

	app.Run(context.Background())

	v := app.dialog.View()
	assert.Equal(t, dialog.StateEnable2Factor, v.State)
	android, _ := models.FindPhone(models.DefaultPhones(), "android")
	assert.Equal(t, android, v.Phone)
	assert.Contains(t, out.String(), "Google Play")
}

func TestApp_SetToggleAndHTML(t *testing.T) {
	silencePrintln(t)
	app, out := newTestApp(t, &stubAPI{}, "", nil)
	ctx := context.Background()
	app.dialog.ShowLogin(ctx)

	require.NoError(t, app.Set(ctx, []string{"username", "bob"}))
	require.NoError(t, app.Toggle(ctx))
	require.NoError(t, app.HTML(ctx))

	assert.Contains(t, out.String(), "password visible: true")
	assert.Contains(t, out.String(), `value="bob"`)
	assert.ErrorIs(t, app.Set(ctx, nil), errUsage)
	assert.ErrorIs(t, app.Set(ctx, []string{"nope"}), dialog.ErrUnknownField)

	require.NoError(t, app.CloseDialog(ctx))
	assert.ErrorIs(t, app.Show(ctx), dialog.ErrClosed)
	assert.ErrorIs(t, app.Submit(ctx), dialog.ErrClosed)
}

func TestApp_Status(t *testing.T) {
	app, _ := newTestApp(t, &stubAPI{}, "", nil)
	assert.Equal(t, "(closed)", app.getStatus())

	app.dialog.ShowLogin(context.Background())
	assert.Equal(t, "(login)", app.getStatus())
}

func TestPhoneChoice(t *testing.T) {
	v := dialog.View{Phones: models.DefaultPhones()}

	assert.Equal(t, "iphone", phoneChoice(v, "1"))
	assert.Equal(t, "blackberry", phoneChoice(v, " 3 "))
	assert.Equal(t, "android", phoneChoice(v, "Android"))
	assert.Equal(t, "9", phoneChoice(v, "9"))
}

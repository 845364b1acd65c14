package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls   []string
	setArgs []string
	failOn  string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	if name == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeExec) Login(context.Context) error { return f.record("login") }
func (f *fakeExec) Enroll(context.Context) error { return f.record("2fa") }
func (f *fakeExec) Submit(context.Context) error { return f.record("submit") }
func (f *fakeExec) Prev(context.Context) error { return f.record("prev") }
func (f *fakeExec) Retry(context.Context) error { return f.record("retry") }
func (f *fakeExec) Toggle(context.Context) error { return f.record("toggle") }
func (f *fakeExec) Show(context.Context) error { return f.record("show") }
func (f *fakeExec) HTML(context.Context) error { return f.record("html") }
func (f *fakeExec) Logout(context.Context) error { return f.record("logout") }
func (f *fakeExec) CloseDialog(context.Context) error {
	return f.record("close")
}
func (f *fakeExec) Set(_ context.Context, args []string) error {
	f.setArgs = args
	return f.record("set")
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		for _, v := range a {
			if s, ok := v.(string); ok {
				lines = append(lines, s)
			}
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	input := "help\nlogin\n\n2fa\nsubmit\ns\nprev\nretry\nset code 12 34\ntoggle\nshow\nhtml\nclose\nlogout\nexit\nlogin\n"

	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	assert.Equal(t, []string{
		"login", "2fa", "submit", "submit", "prev", "retry", "set", "toggle", "show", "html", "close", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"code", "12", "34"}, exec.setArgs)
}

func TestRunREPL_UnknownAndErrorsKeepLooping(t *testing.T) {
	lines := silencePrintln(t)

	exec := &fakeExec{failOn: "prev"}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("foobar\nprev\nshow"))

	assert.Equal(t, []string{"prev", "show"}, exec.calls)
	assert.Contains(t, *lines, "Unknown command:")
	assert.Contains(t, *lines, "Error:")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr(""))

	assert.Empty(t, exec.calls)
}

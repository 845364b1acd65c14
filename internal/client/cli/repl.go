package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Login(ctx context.Context) error
	Enroll(ctx context.Context) error
	Submit(ctx context.Context) error
	Prev(ctx context.Context) error
	Retry(ctx context.Context) error
	Set(ctx context.Context, args []string) error
	Toggle(ctx context.Context) error
	Show(ctx context.Context) error
	HTML(ctx context.Context) error
	CloseDialog(ctx context.Context) error
	Logout(ctx context.Context) error
}

const helpText = "Available commands: login, 2fa, submit, prev, retry, set <field> <value>, toggle, show, html, close, logout, exit"

// runREPL starts a simple read–eval–print loop for the dialog.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit". Field prompts read from the same reader, so commands and
// answers interleave on one input stream.
//
// Prompt & Commands
//
//	help           - show available commands
//	login          - open the login form and fill it in
//	2fa            - start two-step verification enrollment
//	submit         - fill in the current form and submit it
//	prev           - the secondary button of the current form
//	retry          - send again a request that could not reach the server
//	set f v        - set one field without submitting
//	toggle         - show or hide passwords
//	show           - print the dialog
//	html           - print the dialog markup
//	close          - hide the dialog
//	logout         - end the server session
//	exit | quit    - leave the program
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("auth %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "login":
			cmdErr = a.Login(ctx)
		case "2fa":
			cmdErr = a.Enroll(ctx)
		case "submit", "s":
			cmdErr = a.Submit(ctx)
		case "prev", "p":
			cmdErr = a.Prev(ctx)
		case "retry":
			cmdErr = a.Retry(ctx)
		case "set":
			cmdErr = a.Set(ctx, args)
		case "toggle":
			cmdErr = a.Toggle(ctx)
		case "show":
			cmdErr = a.Show(ctx)
		case "html":
			cmdErr = a.HTML(ctx)
		case "close":
			cmdErr = a.CloseDialog(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}

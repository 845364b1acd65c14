package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// terminalNavigator stands in for page navigation: it reports where the
// browser would go and remembers it for the prompt.
type terminalNavigator struct {
	mu       sync.Mutex
	w        io.Writer
	location string
	reloads  int
}

func newTerminalNavigator(w io.Writer) *terminalNavigator {
	return &terminalNavigator{w: w}
}

func (n *terminalNavigator) Navigate(_ context.Context, url string) {
	n.mu.Lock()
	n.location = url
	n.mu.Unlock()
	fmt.Fprintf(n.w, "Signed in, continuing at %s\n", url)
}

func (n *terminalNavigator) Reload(_ context.Context) {
	n.mu.Lock()
	n.reloads++
	n.mu.Unlock()
	fmt.Fprintln(n.w, "Page reloaded")
}

func (n *terminalNavigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

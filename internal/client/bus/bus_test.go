package bus

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authdialog/internal/client/events"
	"github.com/dmitrijs2005/authdialog/internal/logging"
)

func newTestBus(t *testing.T) (*Bus, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return New(l), &buf
}

func TestPublish_DeliversInSubscriptionOrder(t *testing.T) {
	b, _ := newTestBus(t)
	ctx := context.Background()

	var got []string
	b.Subscribe(events.AuthFormError, func(ctx context.Context, e events.Event) { got = append(got, "first") })
	b.Subscribe(events.AuthFormError, func(ctx context.Context, e events.Event) { got = append(got, "second") })
	b.Subscribe(events.AuthFormMsg, func(ctx context.Context, e events.Event) { got = append(got, "other") })

	b.Publish(ctx, events.FormError{Message: "x"})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestOn_TypedHandlerReceivesPayload(t *testing.T) {
	b, _ := newTestBus(t)

	var got events.ChoosePhone
	On(b, func(ctx context.Context, e events.ChoosePhone) { got = e })

	b.Publish(context.Background(), events.ChoosePhone{Slug: "android"})

	assert.Equal(t, "android", got.Slug)
}

func TestPublish_NestedEventsRunToCompletion(t *testing.T) {
	b, _ := newTestBus(t)
	ctx := context.Background()

	var order []events.Name
	On(b, func(ctx context.Context, e events.Login) {
		order = append(order, e.EventName())
		b.Publish(ctx, events.FormLogin{})
		b.Publish(ctx, events.FormError{})
	})
	On(b, func(ctx context.Context, e events.FormLogin) { order = append(order, e.EventName()) })
	On(b, func(ctx context.Context, e events.FormError) { order = append(order, e.EventName()) })

	b.Publish(ctx, events.Login{})

	assert.Equal(t, []events.Name{events.AuthLogin, events.AuthFormLogin, events.AuthFormError}, order)
}

func TestPublish_PanickingHandlerIsIsolated(t *testing.T) {
	b, buf := newTestBus(t)

	called := false
	b.Subscribe(events.AuthLogout, func(ctx context.Context, e events.Event) { panic("boom") })
	b.Subscribe(events.AuthLogout, func(ctx context.Context, e events.Event) { called = true })

	require.NotPanics(t, func() { b.Publish(context.Background(), events.Logout{}) })
	assert.True(t, called)
	assert.Contains(t, buf.String(), "event handler panicked")
	assert.Contains(t, buf.String(), "panic=boom")
}

func TestUnsubscribe_StopsDeliveryAndIsIdempotent(t *testing.T) {
	b, _ := newTestBus(t)

	n := 0
	off := On(b, func(ctx context.Context, e events.Logout) { n++ })

	b.Publish(context.Background(), events.Logout{})
	off()
	off()
	b.Publish(context.Background(), events.Logout{})

	assert.Equal(t, 1, n)
}

func TestUnsubscribe_DuringPublishKeepsCurrentDelivery(t *testing.T) {
	b, _ := newTestBus(t)

	var off func()
	second := 0
	off = b.Subscribe(events.AuthLogout, func(ctx context.Context, e events.Event) { off() })
	b.Subscribe(events.AuthLogout, func(ctx context.Context, e events.Event) { second++ })

	b.Publish(context.Background(), events.Logout{})
	b.Publish(context.Background(), events.Logout{})

	assert.Equal(t, 2, second)
}

func TestPublish_NoSubscribers(t *testing.T) {
	b, buf := newTestBus(t)
	b.Publish(context.Background(), events.FormSuccess{})
	assert.Contains(t, buf.String(), "event has no subscribers")
}

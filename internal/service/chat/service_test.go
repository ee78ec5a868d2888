package chat

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/service/interpreter"
	"github.com/hassan3301/dailycrm/pkg/ctxutil"
)

type assistantFunc func(ctx context.Context, message string) (string, error)

func (f assistantFunc) Reply(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

type interpreterFunc func(ctx context.Context, reply string) (*interpreter.Result, error)

func (f interpreterFunc) Interpret(ctx context.Context, reply string) (*interpreter.Result, error) {
	return f(ctx, reply)
}

func authCtx() context.Context {
	return ctxutil.WithUserID(context.Background(), uuid.New())
}

func TestSend_InterpretsReply(t *testing.T) {
	t.Parallel()

	var gotMessage, gotReply string
	svc := NewService(slog.Default(),
		assistantFunc(func(ctx context.Context, message string) (string, error) {
			gotMessage = message
			return `[{"action":"read_all_contacts"}]`, nil
		}),
		interpreterFunc(func(ctx context.Context, reply string) (*interpreter.Result, error) {
			gotReply = reply
			return &interpreter.Result{Transcript: "📭 Your contact list is currently empty.", Actions: 1}, nil
		}),
		time.Second,
	)

	res, err := svc.Send(authCtx(), "  who are my contacts?  ")
	require.NoError(t, err)
	assert.Equal(t, "who are my contacts?", gotMessage)
	assert.Equal(t, `[{"action":"read_all_contacts"}]`, gotReply)
	assert.Equal(t, "📭 Your contact list is currently empty.", res.Transcript)
}

func TestSend_AssistantFailure(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(),
		assistantFunc(func(ctx context.Context, message string) (string, error) {
			return "", errors.New("502 bad gateway")
		}),
		interpreterFunc(func(ctx context.Context, reply string) (*interpreter.Result, error) {
			t.Fatal("interpreter must not run")
			return nil, nil
		}),
		time.Second,
	)

	res, err := svc.Send(authCtx(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "❌ The assistant is unavailable right now. Please try again.", res.Transcript)
}

func TestSend_AssistantTimeout(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(),
		assistantFunc(func(ctx context.Context, message string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}),
		interpreterFunc(func(ctx context.Context, reply string) (*interpreter.Result, error) {
			return nil, errors.New("unreachable")
		}),
		10*time.Millisecond,
	)

	res, err := svc.Send(authCtx(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "❌ The assistant took too long to answer. Please try again.", res.Transcript)
}

func TestSend_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), nil, nil, 0)

	_, err := svc.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Send(authCtx(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

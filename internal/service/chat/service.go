// Package chat answers a user's message: it asks the assistant for a reply
// and runs the actions in it.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/observability/metrics"
	"github.com/hassan3301/dailycrm/internal/service/interpreter"
	"github.com/hassan3301/dailycrm/pkg/ctxutil"
)

type assistant interface {
	Reply(ctx context.Context, message string) (string, error)
}

type actionInterpreter interface {
	Interpret(ctx context.Context, reply string) (*interpreter.Result, error)
}

// Service handles chat messages.
type Service struct {
	assistant assistant
	interp    actionInterpreter
	timeout   time.Duration
	log       *slog.Logger
}

// NewService creates a chat service. A zero timeout leaves the assistant
// call bounded only by ctx.
func NewService(log *slog.Logger, a assistant, interp actionInterpreter, timeout time.Duration) *Service {
	return &Service{
		assistant: a,
		interp:    interp,
		timeout:   timeout,
		log:       log.With("service", "chat"),
	}
}

// Send answers message for the user in ctx.
func (s *Service) Send(ctx context.Context, message string) (*interpreter.Result, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.NewValidationError("message", "required")
	}

	reply, err := s.ask(ctx, message)
	if err != nil {
		s.log.ErrorContext(ctx, "assistant call failed", slog.String("error", err.Error()))
		text := "❌ The assistant is unavailable right now. Please try again."
		if errors.Is(err, context.DeadlineExceeded) {
			text = "❌ The assistant took too long to answer. Please try again."
		}
		return &interpreter.Result{Transcript: text, Lines: []string{text}}, nil
	}

	return s.interp.Interpret(ctx, reply)
}

func (s *Service) ask(ctx context.Context, message string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.assistant.Reply(ctx, message)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ObserveAssistant(result, time.Since(start))
	return reply, err
}

package interpreter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/observability/metrics"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
	"github.com/hassan3301/dailycrm/pkg/ctxutil"
)

// Action kinds.
const (
	KindCreateContact      = "create_contact"
	KindReadAllContacts    = "read_all_contacts"
	KindUpdateContact      = "update_contact"
	KindCreateInvoice      = "create_invoice"
	KindReadAllInvoices    = "read_all_invoices"
	KindMarkInvoicePaid    = "mark_invoice_paid"
	KindLogInteraction     = "log_interaction"
	KindDownloadInvoice    = "download_invoice"
	KindSendEmail          = "send_email"
	KindSendInvoiceEmail   = "send_invoice_email"
	KindCreateEvent        = "create_event"
	KindListUpcomingEvents = "list_upcoming_events"
	KindCreateExpense      = "create_expense"
	KindReadExpenses       = "read_expenses"
)

// kindAliases maps alternate names the assistant is told about.
var kindAliases = map[string]string{
	"list_all_events":   KindListUpcomingEvents,
	"read_all_expenses": KindReadExpenses,
}

func (s *Service) routes() map[string]handlerFunc {
	return map[string]handlerFunc{
		KindCreateContact:      s.createContact,
		KindReadAllContacts:    s.readAllContacts,
		KindUpdateContact:      s.updateContact,
		KindCreateInvoice:      s.createInvoice,
		KindReadAllInvoices:    s.readAllInvoices,
		KindMarkInvoicePaid:    s.markInvoicePaid,
		KindLogInteraction:     s.logInteraction,
		KindDownloadInvoice:    s.downloadInvoice,
		KindSendEmail:          s.sendEmail,
		KindSendInvoiceEmail:   s.sendInvoiceEmail,
		KindCreateEvent:        s.createEvent,
		KindListUpcomingEvents: s.listUpcomingEvents,
		KindCreateExpense:      s.createExpense,
		KindReadExpenses:       s.readExpenses,
	}
}

func (s *Service) handlerFor(kind string) (string, handlerFunc) {
	if canonical, ok := kindAliases[kind]; ok {
		kind = canonical
	}
	return kind, s.handlers[kind]
}

// dispatch runs one action. Nothing that happens inside a handler escapes
// it: every failure becomes a transcript line.
func (s *Service) dispatch(ctx context.Context, userID uuid.UUID, index int, a payload.Action, rep *report) {
	start := time.Now()
	rep.begin()

	kind := a.Kind
	var outcome string
	switch {
	case a.Invalid:
		kind = "(invalid)"
		rep.fail("Action #%d is not an object.", index)
		outcome = outcomeInvalid

	default:
		var h handlerFunc
		kind, h = s.handlerFor(kind)
		var err error
		if h == nil {
			err = fmt.Errorf("%w: %q", ErrUnknownAction, kind)
		} else {
			err = s.run(ctx, userID, a, rep, h)
		}
		outcome = s.report(ctx, kind, err, rep)
	}

	if kind == "" {
		kind = "(missing)"
	}
	metrics.ObserveAction(metricKind(kind, s.handlers), outcome, time.Since(start))

	level := slog.LevelInfo
	if outcome != outcomeOK {
		level = slog.LevelWarn
	}
	attrs := append(ctxutil.LogAttrs(ctx),
		slog.String("action", kind),
		slog.Int("index", index),
		slog.String("outcome", outcome),
	)
	s.log.LogAttrs(ctx, level, "action dispatched", attrs...)
}

// run calls h, turning a panic into an error.
func (s *Service) run(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report, h handlerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "action handler panicked",
				slog.String("action", a.Kind),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, userID, a, rep)
}

// report writes the line for err and returns the outcome label.
func (s *Service) report(ctx context.Context, kind string, err error, rep *report) string {
	if err == nil {
		if rep.warned {
			return outcomeWarning
		}
		return outcomeOK
	}

	var (
		notFound *notFoundError
		invalid  *domain.ValidationError
		dep      *DependencyError
	)
	switch {
	case errors.Is(err, ErrUnknownAction):
		name := kind
		if name == "" {
			name = "(missing)"
		}
		rep.warn("Unknown action: %s", name)
		return outcomeUnknown

	case errors.As(err, &notFound):
		rep.fail("%s", notFound.msg)
		return outcomeNotFound

	case errors.As(err, &invalid):
		rep.fail("Invalid %s: %s.", kind, invalid.Summary())
		return outcomeInvalid

	case errors.As(err, &dep):
		rep.fail("Failed to %s: %v", dep.Op, dep.Err)
		return outcomeDependency

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		rep.fail("%s timed out.", kind)
		return outcomeError

	default:
		s.log.ErrorContext(ctx, "action failed",
			slog.String("action", kind),
			slog.String("error", err.Error()),
		)
		rep.fail("%s failed due to an internal error.", kind)
		return outcomeError
	}
}

// metricKind bounds label cardinality: unknown kinds share one label.
func metricKind(kind string, known map[string]handlerFunc) string {
	if _, ok := known[kind]; ok {
		return kind
	}
	switch kind {
	case "(invalid)", "(missing)":
		return kind
	}
	return "(unknown)"
}

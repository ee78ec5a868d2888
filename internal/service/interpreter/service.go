// Package interpreter executes the actions recovered from an assistant reply
// against the CRM and reports what happened, one line per outcome.
package interpreter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/observability/metrics"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/dates"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
	"github.com/hassan3301/dailycrm/pkg/ctxutil"
)

type contactRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Contact, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Contact, error)
	FindByName(ctx context.Context, userID uuid.UUID, fragment string, limit int) ([]domain.Contact, error)
	FindByEmail(ctx context.Context, userID uuid.UUID, email string) (*domain.Contact, error)
	Create(ctx context.Context, userID uuid.UUID, c *domain.Contact) (*domain.Contact, error)
	Update(ctx context.Context, userID uuid.UUID, id int64, upd domain.ContactUpdate) (*domain.Contact, error)
}

type invoiceRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Invoice, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Invoice, error)
	ListByContact(ctx context.Context, userID uuid.UUID, contactID int64) ([]domain.Invoice, error)
	Create(ctx context.Context, userID uuid.UUID, inv *domain.Invoice) (*domain.Invoice, error)
	MarkPaid(ctx context.Context, userID uuid.UUID, id int64, paidAt time.Time) (*domain.Invoice, error)
	CreateRevenue(ctx context.Context, userID uuid.UUID, rev *domain.Revenue) (*domain.Revenue, error)
}

type interactionRepo interface {
	Create(ctx context.Context, userID uuid.UUID, in *domain.Interaction) (*domain.Interaction, error)
}

type eventRepo interface {
	Create(ctx context.Context, userID uuid.UUID, e *domain.Event) (*domain.Event, error)
	ListUpcoming(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]domain.Event, error)
}

type expenseRepo interface {
	EnsureCategory(ctx context.Context, userID uuid.UUID, name string) (*domain.ExpenseCategory, error)
	Create(ctx context.Context, userID uuid.UUID, e *domain.Expense) (*domain.Expense, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Expense, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type mailer interface {
	Send(ctx context.Context, msg domain.OutboundEmail) error
}

type documentRenderer interface {
	RenderInvoice(ctx context.Context, inv *domain.Invoice, contact *domain.Contact) ([]byte, error)
}

type linkBuilder interface {
	InvoicePDF(id int64) string
}

// Config tunes list sizes and wording.
type Config struct {
	// PageSize caps the upcoming events and recent expenses listings.
	PageSize int
	// CandidateLimit caps how many contacts a name lookup considers.
	CandidateLimit int
	// CompanyName signs invoice emails.
	CompanyName string
}

// Deps groups the collaborators of Service.
type Deps struct {
	Contacts     contactRepo
	Invoices     invoiceRepo
	Interactions interactionRepo
	Events       eventRepo
	Expenses     expenseRepo
	Tx           txManager
	Mailer       mailer
	Documents    documentRenderer
	Links        linkBuilder
}

type handlerFunc func(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error

// Service interprets assistant replies.
type Service struct {
	contacts     contactRepo
	invoices     invoiceRepo
	interactions interactionRepo
	events       eventRepo
	expenses     expenseRepo
	tx           txManager
	mail         mailer
	docs         documentRenderer
	links        linkBuilder
	dates        *dates.Resolver
	cfg          Config
	handlers     map[string]handlerFunc
	log          *slog.Logger
}

// NewService creates a new interpreter service.
func NewService(log *slog.Logger, cfg Config, resolver *dates.Resolver, deps Deps) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.CandidateLimit < 2 {
		cfg.CandidateLimit = 5
	}

	s := &Service{
		contacts:     deps.Contacts,
		invoices:     deps.Invoices,
		interactions: deps.Interactions,
		events:       deps.Events,
		expenses:     deps.Expenses,
		tx:           deps.Tx,
		mail:         deps.Mailer,
		docs:         deps.Documents,
		links:        deps.Links,
		dates:        resolver,
		cfg:          cfg,
		log:          log.With("service", "interpreter"),
	}
	s.handlers = s.routes()
	return s
}

// Result is the outcome of interpreting one reply.
type Result struct {
	// Transcript is what the user sees.
	Transcript string
	// Lines holds the transcript split per outcome. Empty on passthrough.
	Lines []string
	// Actions is the number of actions recovered.
	Actions int
	// Passthrough is set when the reply carried no usable payload and
	// Transcript is the reply itself.
	Passthrough bool
}

// Interpret recovers the actions in reply and executes them in order for
// the user in ctx. A reply without a usable payload is returned unchanged.
func (s *Service) Interpret(ctx context.Context, reply string) (*Result, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	actions, err := payload.Extract(reply)
	if err != nil {
		if errors.Is(err, payload.ErrMalformedPayload) {
			s.log.LogAttrs(ctx, slog.LevelWarn, "reply payload unreadable, passing through",
				append(ctxutil.LogAttrs(ctx), slog.String("error", err.Error()))...,
			)
			metrics.ObserveInterpret("malformed")
		} else {
			metrics.ObserveInterpret("passthrough")
		}
		return &Result{Transcript: reply, Passthrough: true}, nil
	}

	metrics.ObserveInterpret("dispatched")

	rep := &report{}
	for i, a := range actions {
		s.dispatch(ctx, userID, i+1, a, rep)
	}

	return &Result{
		Transcript: rep.transcript(),
		Lines:      rep.lines,
		Actions:    len(actions),
	}, nil
}

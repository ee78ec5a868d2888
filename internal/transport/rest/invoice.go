package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/pkg/ctxutil"
)

type invoiceReader interface {
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Invoice, error)
}

type contactReader interface {
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Contact, error)
}

type invoiceRenderer interface {
	RenderInvoice(ctx context.Context, inv *domain.Invoice, contact *domain.Contact) ([]byte, error)
}

// InvoiceHandler serves invoice documents behind the links the chat hands out.
type InvoiceHandler struct {
	invoices invoiceReader
	contacts contactReader
	docs     invoiceRenderer
	log      *slog.Logger
}

// NewInvoiceHandler creates an InvoiceHandler.
func NewInvoiceHandler(invoices invoiceReader, contacts contactReader, docs invoiceRenderer, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
		contacts: contacts,
		docs:     docs,
		log:      logger.With("handler", "invoice"),
	}
}

// PDF renders one invoice of the current user.
// GET /invoices/{id}/pdf
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r) {
		return
	}
	userID, _ := ctxutil.UserIDFromCtx(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	ctx := r.Context()
	inv, err := h.invoices.GetByID(ctx, userID, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	contact, err := h.contacts.GetByID(ctx, userID, inv.ContactID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	doc, err := h.docs.RenderInvoice(ctx, inv, contact)
	if err != nil {
		handleError(w, r, h.log, fmt.Errorf("render invoice %d: %w", id, err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"invoice_%d.pdf\"", id))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc) //nolint:errcheck
}

func requireUser(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

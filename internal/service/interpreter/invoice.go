package interpreter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/dates"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
)

const dateLayout = "2006-01-02"

func (s *Service) createInvoice(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	data := dataOf(a)

	total, err := amount(data, "amount")
	if err != nil {
		return err
	}

	name := str(data, "contact_name")
	contact, others, err := s.findContactByName(ctx, userID, name)
	if err != nil {
		return err
	}
	if contact == nil {
		return notFoundf("Could not find contact '%s'", name)
	}
	noteAmbiguity(rep, name, contact, others)

	raw := str(data, "due_date")
	due := s.dates.Resolve(raw, dates.DueDate)
	if due.Warn {
		rep.warn("Could not understand due date '%s'. Defaulted to today.", raw)
	}

	inv, err := s.invoices.Create(ctx, userID, &domain.Invoice{
		ContactID:   contact.ID,
		IssueDate:   s.dates.Today(),
		DueDate:     due.Time,
		TotalAmount: total,
		Status:      domain.InvoiceStatusUnpaid,
		Notes:       str(data, "notes"),
	})
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}

	rep.ok("Invoice #%d created for %s - %s due %s.", inv.ID, contact.Name, money(inv.TotalAmount), inv.DueDate.Format(dateLayout))
	rep.addf("📄 [Download Invoice PDF](%s)", s.links.InvoicePDF(inv.ID))
	return nil
}

func (s *Service) readAllInvoices(ctx context.Context, userID uuid.UUID, _ payload.Action, rep *report) error {
	invoices, err := s.invoices.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}

	if len(invoices) == 0 {
		rep.add("📭 You have no invoices on record.")
		return nil
	}

	var b strings.Builder
	b.WriteString("📄 Here are your invoices:\n")
	for _, inv := range invoices {
		fmt.Fprintf(&b, "\n- [#%d] %s: %s due %s (%s)",
			inv.ID, inv.ContactName, money(inv.TotalAmount), inv.DueDate.Format(dateLayout), inv.Status)
	}
	rep.add(b.String())
	return nil
}

func (s *Service) markInvoicePaid(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	raw := invoiceID(a)
	id, ok := toInt64(raw)
	if !ok {
		return notFoundf("Invoice #%s not found.", toString(raw))
	}

	var paid *domain.Invoice
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.MarkPaid(ctx, userID, id, s.dates.Now())
		if err != nil {
			return err
		}
		if _, err := s.invoices.CreateRevenue(ctx, userID, &domain.Revenue{
			InvoiceID: inv.ID,
			Amount:    inv.TotalAmount,
			Date:      s.dates.Today(),
		}); err != nil {
			return err
		}
		paid = inv
		return nil
	})

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return notFoundf("Invoice #%d not found.", id)
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		rep.warn("Invoice #%d is already marked as paid.", id)
		return nil
	case err != nil:
		return fmt.Errorf("mark invoice paid: %w", err)
	}

	rep.ok("Invoice #%d marked as paid and %s recorded as revenue.", paid.ID, money(paid.TotalAmount))
	return nil
}

func (s *Service) downloadInvoice(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	raw := invoiceID(a)
	id, ok := toInt64(raw)
	if !ok {
		return notFoundf("Invoice #%s not found.", toString(raw))
	}

	inv, err := s.invoices.GetByID(ctx, userID, id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFoundf("Invoice #%d not found.", id)
	}
	if err != nil {
		return fmt.Errorf("get invoice: %w", err)
	}

	rep.addf("📄 [Download invoice #%d](%s)", inv.ID, s.links.InvoicePDF(inv.ID))
	return nil
}

package interpreter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/observability/metrics"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
)

func (s *Service) sendEmail(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	to := str(a.Fields, "to")
	contact, others, err := s.findContactByName(ctx, userID, to)
	if err != nil {
		return err
	}
	if contact == nil {
		return notFoundf("Could not find contact '%s' to send email.", to)
	}
	if contact.Email == "" {
		return notFoundf("Contact '%s' does not have an email address.", contact.Name)
	}
	noteAmbiguity(rep, to, contact, others)

	msg := domain.OutboundEmail{
		To:      contact.Email,
		Subject: strOr(a.Fields, "subject", "(No subject)"),
		Body:    str(a.Fields, "body"),
	}
	if err := s.deliver(ctx, msg); err != nil {
		return &DependencyError{Op: "send email", Err: err}
	}

	rep.addf("📧 Email sent to %s at %s.", contact.Name, contact.Email)
	return nil
}

func (s *Service) sendInvoiceEmail(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	name := str(a.Fields, "contact_name")
	contact, others, err := s.findContactByName(ctx, userID, name)
	if err != nil {
		return err
	}
	if contact == nil {
		return notFoundf("Could not find contact '%s' to send email.", name)
	}
	if contact.Email == "" {
		return notFoundf("Contact '%s' does not have an email address.", contact.Name)
	}
	noteAmbiguity(rep, name, contact, others)

	invoices, err := s.invoices.ListByContact(ctx, userID, contact.ID)
	if err != nil {
		return fmt.Errorf("list invoices for contact: %w", err)
	}

	index := invoiceIndex(a.Fields["invoice_index"])
	if index < 1 || index > len(invoices) {
		return notFoundf("Invoice index %d out of range for %s.", index, contact.Name)
	}
	inv := invoices[index-1]

	pdf, err := s.docs.RenderInvoice(ctx, &inv, contact)
	if err != nil {
		return &DependencyError{Op: "render invoice", Err: err}
	}

	msg := domain.OutboundEmail{
		To:      contact.Email,
		Subject: fmt.Sprintf("Invoice #%d from %s", inv.ID, s.cfg.CompanyName),
		Body: fmt.Sprintf("Hi %s,\n\nPlease find attached your invoice for %s due %s.\n\nThank you!",
			contact.Name, money(inv.TotalAmount), inv.DueDate.Format(dateLayout)),
		Attachments: []domain.Attachment{{
			Filename:    fmt.Sprintf("invoice_%d.pdf", inv.ID),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	}
	if err := s.deliver(ctx, msg); err != nil {
		return &DependencyError{Op: "send invoice email", Err: err}
	}

	rep.addf("📧 Invoice #%d emailed to %s at %s.", inv.ID, contact.Name, contact.Email)
	return nil
}

func (s *Service) deliver(ctx context.Context, msg domain.OutboundEmail) error {
	if err := s.mail.Send(ctx, msg); err != nil {
		metrics.ObserveEmail("error")
		return err
	}
	metrics.ObserveEmail("sent")
	return nil
}

// invoiceIndex reads a 1-based position. "latest" and anything unreadable mean 1.
func invoiceIndex(v any) int {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "latest") {
		return 1
	}
	n, ok := toInt64(v)
	if !ok {
		return 1
	}
	return int(n)
}

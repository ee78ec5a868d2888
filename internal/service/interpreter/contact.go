package interpreter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
)

func (s *Service) createContact(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	data := dataOf(a)

	c := &domain.Contact{
		Name:    str(data, "name"),
		Email:   str(data, "email"),
		Phone:   str(data, "phone"),
		Company: str(data, "company"),
		Notes:   str(data, "notes"),
		Status:  domain.ContactStatusLead,
	}
	if st := domain.ContactStatus(strings.ToLower(str(data, "status"))); st.IsValid() {
		c.Status = st
	}

	created, err := s.contacts.Create(ctx, userID, c)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}

	rep.ok("New contact '%s' added to the CRM.", created.Name)
	return nil
}

func (s *Service) readAllContacts(ctx context.Context, userID uuid.UUID, _ payload.Action, rep *report) error {
	contacts, err := s.contacts.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}

	if len(contacts) == 0 {
		rep.add("📭 Your contact list is currently empty.")
		return nil
	}

	var b strings.Builder
	b.WriteString("📇 Here are your contacts:\n")
	for _, c := range contacts {
		b.WriteString("\n- ")
		b.WriteString(c.Name)
		if details := joinNonEmpty(c.Email, c.Phone, c.Company); details != "" {
			b.WriteString(" (" + details + ")")
		}
	}
	rep.add(b.String())
	return nil
}

// contactFields is the set of fields update_contact may change.
var contactFields = map[string]bool{
	"name": true, "email": true, "phone": true,
	"company": true, "status": true, "notes": true,
}

func (s *Service) updateContact(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	identifier := str(a.Fields, "identifier")
	updates, _ := a.Fields["updates"].(map[string]any)

	contact, others, err := s.findContactByIdentifier(ctx, userID, identifier)
	if err != nil {
		return err
	}
	if contact == nil {
		return notFoundf("No contact found with identifier '%s'.", identifier)
	}
	noteAmbiguity(rep, identifier, contact, others)

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		upd     domain.ContactUpdate
		applied []string
		skipped []string
	)
	for _, key := range keys {
		if !contactFields[key] {
			skipped = append(skipped, key)
			continue
		}
		value := toString(updates[key])
		switch key {
		case "name":
			if value == "" {
				skipped = append(skipped, key)
				continue
			}
			upd.Name = &value
		case "email":
			upd.Email = &value
		case "phone":
			upd.Phone = &value
		case "company":
			upd.Company = &value
		case "notes":
			upd.Notes = &value
		case "status":
			st := domain.ContactStatus(strings.ToLower(value))
			if !st.IsValid() {
				skipped = append(skipped, key)
				continue
			}
			upd.Status = &st
		}
		applied = append(applied, key)
	}

	if upd.IsEmpty() {
		if len(skipped) > 0 {
			rep.warn("Nothing updated for '%s'. Skipped: %s", contact.Name, strings.Join(skipped, ", "))
		} else {
			rep.warn("No changes given for contact '%s'.", contact.Name)
		}
		return nil
	}

	updated, err := s.contacts.Update(ctx, userID, contact.ID, upd)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}

	if len(skipped) > 0 {
		rep.warn("Updated: %s. Skipped: %s", strings.Join(applied, ", "), strings.Join(skipped, ", "))
		return nil
	}
	rep.ok("Updated contact '%s': %s.", updated.Name, strings.Join(applied, ", "))
	return nil
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

package interpreter

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/dates"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
)

func (s *Service) createEvent(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	data := dataOf(a)

	raw := strOr(data, "date", str(data, "datetime"))
	when := s.dates.Resolve(raw, dates.EventDateTime)
	if when.Warn {
		rep.warn("Could not understand event date '%s'. Defaulted to now.", raw)
	}

	e := &domain.Event{
		Title:       strOr(data, "title", "Untitled event"),
		StartsAt:    when.Time,
		Description: str(data, "description"),
		Location:    str(data, "location"),
	}

	var contact *domain.Contact
	if name := str(data, "contact_name"); name != "" {
		var others []domain.Contact
		var err error
		contact, others, err = s.findContactByName(ctx, userID, name)
		if err != nil {
			return err
		}
		if contact == nil {
			rep.warn("Could not find contact '%s'. The event is not linked to a contact.", name)
		} else {
			noteAmbiguity(rep, name, contact, others)
			e.ContactID = &contact.ID
		}
	}

	created, err := s.events.Create(ctx, userID, e)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	line := fmt.Sprintf("📅 Event created: '%s'", created.Title)
	if contact != nil {
		line += " with " + contact.Name
	}
	line += " on " + created.StartsAt.In(when.Time.Location()).Format("2006-01-02 15:04")
	if created.Location != "" {
		line += " at " + created.Location
	}
	rep.add(line)
	return nil
}

func (s *Service) listUpcomingEvents(ctx context.Context, userID uuid.UUID, _ payload.Action, rep *report) error {
	now := s.dates.Now()
	events, err := s.events.ListUpcoming(ctx, userID, now, s.cfg.PageSize)
	if err != nil {
		return fmt.Errorf("list upcoming events: %w", err)
	}

	if len(events) == 0 {
		rep.add("📭 No upcoming events.")
		return nil
	}

	rep.add("📅 Upcoming Events:")
	for _, e := range events {
		line := fmt.Sprintf("- %s — %s", e.StartsAt.In(now.Location()).Format("Jan 02 03:04 PM"), e.Title)
		if e.ContactName != "" {
			line += " with " + e.ContactName
		}
		rep.add(line)
	}
	return nil
}

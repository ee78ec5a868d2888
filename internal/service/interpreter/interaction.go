package interpreter

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/dates"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
)

func (s *Service) logInteraction(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	data := dataOf(a)

	name := str(data, "contact_name")
	contact, others, err := s.findContactByName(ctx, userID, name)
	if err != nil {
		return err
	}
	if contact == nil {
		return notFoundf("Could not find contact '%s'", name)
	}
	noteAmbiguity(rep, name, contact, others)

	on := s.dates.Resolve(str(data, "date"), dates.PlainDate)

	in, err := s.interactions.Create(ctx, userID, &domain.Interaction{
		ContactID: contact.ID,
		Type:      strOr(data, "type", "note"),
		Summary:   str(data, "summary"),
		Date:      on.Time,
	})
	if err != nil {
		return fmt.Errorf("create interaction: %w", err)
	}

	rep.ok("Logged a %s with %s on %s.", in.Type, contact.Name, in.Date.Format(dateLayout))
	return nil
}

package interpreter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
)

// findContactByName returns the lowest-id contact whose name contains
// fragment, case-insensitively, plus the other candidates that matched.
// A nil contact means nothing matched.
func (s *Service) findContactByName(ctx context.Context, userID uuid.UUID, fragment string) (*domain.Contact, []domain.Contact, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, nil, nil
	}

	found, err := s.contacts.FindByName(ctx, userID, fragment, s.cfg.CandidateLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("find contact by name: %w", err)
	}
	if len(found) == 0 {
		return nil, nil, nil
	}

	first := found[0]
	return &first, found[1:], nil
}

// findContactByIdentifier tries an exact email match before falling back to
// a name match.
func (s *Service) findContactByIdentifier(ctx context.Context, userID uuid.UUID, identifier string) (*domain.Contact, []domain.Contact, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil, nil
	}

	c, err := s.contacts.FindByEmail(ctx, userID, identifier)
	switch {
	case err == nil:
		return c, nil, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, nil, fmt.Errorf("find contact by email: %w", err)
	}

	return s.findContactByName(ctx, userID, identifier)
}

// noteAmbiguity tells the user which contact was picked when several matched.
func noteAmbiguity(rep *report, fragment string, picked *domain.Contact, others []domain.Contact) {
	if len(others) == 0 {
		return
	}
	names := make([]string, 0, len(others))
	for _, o := range others {
		names = append(names, o.Name)
	}
	rep.warn("'%s' also matches %s. Using '%s'.", fragment, strings.Join(names, ", "), picked.Name)
}

package interpreter

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hassan3301/dailycrm/internal/domain"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/dates"
	"github.com/hassan3301/dailycrm/internal/service/interpreter/payload"
)

func (s *Service) createExpense(ctx context.Context, userID uuid.UUID, a payload.Action, rep *report) error {
	data := dataOf(a)

	spent, err := amount(data, "amount")
	if err != nil {
		return err
	}

	on := s.dates.Resolve(str(data, "date"), dates.PlainDate)
	categoryName := strOr(data, "category", domain.DefaultExpenseCategory)

	var (
		created  *domain.Expense
		category *domain.ExpenseCategory
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		category, err = s.expenses.EnsureCategory(ctx, userID, categoryName)
		if err != nil {
			return fmt.Errorf("ensure category: %w", err)
		}
		created, err = s.expenses.Create(ctx, userID, &domain.Expense{
			CategoryID:  category.ID,
			Amount:      spent,
			Description: str(data, "description"),
			Date:        on.Time,
		})
		if err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	rep.addf("💸 Logged %s expense for '%s' on %s.", money(created.Amount), category.Name, created.Date.Format(dateLayout))
	return nil
}

func (s *Service) readExpenses(ctx context.Context, userID uuid.UUID, _ payload.Action, rep *report) error {
	expenses, err := s.expenses.ListRecent(ctx, userID, s.cfg.PageSize)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	if len(expenses) == 0 {
		rep.add("📭 No expenses recorded.")
		return nil
	}

	rep.add("💸 Recent Expenses:")
	for _, e := range expenses {
		rep.addf("- %s for %s on %s", money(e.Amount), e.CategoryName, e.Date.Format(dateLayout))
	}
	return nil
}

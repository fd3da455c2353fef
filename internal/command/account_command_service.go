package command

import (
	"context"
	"log"
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/events"
	"github.com/Aanshikesh/PennyPilot/internal/models"
	"github.com/Aanshikesh/PennyPilot/internal/repository"
	"github.com/Aanshikesh/PennyPilot/internal/utils"
)

// AccountCommandService creates accounts and keeps the read model in sync.
// Account balances are never mutated here — they change only through the
// transaction command service's atomic adjustments.
type AccountCommandService struct {
	writeRepo  *repository.AccountWriteRepository
	readRepo   *repository.AccountReadRepository
	dashboards DashboardInvalidator
	publisher  Publisher
}

func NewAccountCommandService(
	writeRepo *repository.AccountWriteRepository,
	readRepo *repository.AccountReadRepository,
	dashboards DashboardInvalidator,
	publisher Publisher,
) *AccountCommandService {
	return &AccountCommandService{
		writeRepo:  writeRepo,
		readRepo:   readRepo,
		dashboards: dashboards,
		publisher:  publisher,
	}
}

func (s *AccountCommandService) CreateAccount(cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	currency := cmd.Currency
	if currency == "" {
		currency = "USD"
	}
	account := &models.Account{
		AccountNumber: utils.GenerateAccountNumber(),
		UserID:        cmd.UserID,
		Name:          cmd.Name,
		AccountType:   cmd.AccountType,
		Balance:       0.00,
		Currency:      currency,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.writeRepo.Create(account); err != nil {
		return nil, err
	}
	ctx := context.Background()
	s.readRepo.CacheAccountView(ctx, accountToView(account))
	s.dashboards.InvalidateView(ctx, account.UserID)
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
		AccountNumber: account.AccountNumber,
		UserID:        account.UserID,
		Name:          account.Name,
		AccountType:   account.AccountType,
	}); err != nil {
		log.Printf("Failed to publish account.created event: %v", err)
	}
	return account, nil
}

// accountToView converts the PostgreSQL write model to the Redis read view model.
func accountToView(a *models.Account) *models.AccountView {
	return &models.AccountView{
		AccountNumber: a.AccountNumber,
		UserID:        a.UserID,
		Name:          a.Name,
		AccountType:   a.AccountType,
		Balance:       a.Balance,
		Currency:      a.Currency,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

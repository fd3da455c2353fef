package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/events"
	"github.com/Aanshikesh/PennyPilot/internal/models"
	"github.com/Aanshikesh/PennyPilot/internal/repository"
	"github.com/Aanshikesh/PennyPilot/internal/utils"
)

// UserCommandService registers users against the PostgreSQL write store.
type UserCommandService struct {
	writeRepo *repository.UserWriteRepository
	publisher Publisher
}

func NewUserCommandService(writeRepo *repository.UserWriteRepository, publisher Publisher) *UserCommandService {
	return &UserCommandService{writeRepo: writeRepo, publisher: publisher}
}

func (s *UserCommandService) CreateUser(cmd cqrs.CreateUserCommand) (*models.User, error) {
	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.writeRepo.Create(user); err != nil {
		return nil, err
	}
	ctx := context.Background()
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}); err != nil {
		log.Printf("Failed to publish user.created event: %v", err)
	}
	return user, nil
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Okpara007/buzz4less/internal/model"
)

type ContactStore interface {
	CreateContact(ctx context.Context, c *model.Contact) error
}

// ContactService stores contact-form submissions and relays them to the
// admin recipients.
type ContactService struct {
	store      ContactStore
	mailer     Mailer
	baseURL    string
	recipients []string
	logger     *zap.Logger
}

func NewContactService(store ContactStore, mailer Mailer, baseURL string, recipients []string, logger *zap.Logger) *ContactService {
	return &ContactService{
		store:      store,
		mailer:     mailer,
		baseURL:    baseURL,
		recipients: recipients,
		logger:     logger,
	}
}

type ContactInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Message *string `json:"message,omitempty"`
}

func (s *ContactService) Submit(ctx context.Context, userID *int64, in ContactInput) error {
	c := &model.Contact{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Message: in.Message,
		UserID:  userID,
	}
	if err := s.store.CreateContact(ctx, c); err != nil {
		return err
	}

	if len(s.recipients) > 0 {
		message := ""
		if c.Message != nil {
			message = *c.Message
		}
		body := fmt.Sprintf(
			"%s.\nThere has been a contact. Sign into the admin panel for more info.\nAdmin Panel: %s/admin/.\n%s",
			c.Name, s.baseURL, message)
		if err := s.mailer.Send("A contact has been made.", body, s.recipients...); err != nil {
			s.logger.Error("failed to relay contact message",
				zap.Int64("contact_id", c.ID), zap.Error(err))
			return fmt.Errorf("failed to relay contact message: %w", err)
		}
	}
	return nil
}

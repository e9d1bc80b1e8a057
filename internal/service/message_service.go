package service

import (
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"
)

// MessageService handles the public contact form and its admin inbox.
type MessageService struct {
	messageRepo repository.MessageRepository
	captcha     *CaptchaService
}

// NewMessageService creates the message service.
func NewMessageService(messageRepo repository.MessageRepository, captcha *CaptchaService) *MessageService {
	return &MessageService{messageRepo: messageRepo, captcha: captcha}
}

// SubmitMessageInput is one contact-form submission.
type SubmitMessageInput struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Body        string
	CaptchaID   string
	CaptchaCode string
}

// SubmitMessage validates the captcha and stores the message.
func (s *MessageService) SubmitMessage(input SubmitMessageInput) (*models.Message, error) {
	if s.captcha != nil {
		if err := s.captcha.Verify(input.CaptchaID, input.CaptchaCode); err != nil {
			return nil, err
		}
	}
	name := strings.TrimSpace(input.Name)
	body := strings.TrimSpace(input.Body)
	if name == "" || body == "" {
		return nil, ErrMessageInvalid
	}

	now := time.Now()
	message := &models.Message{
		Name:      name,
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Subject:   strings.TrimSpace(input.Subject),
		Body:      body,
		Status:    constants.MessageStatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, ErrMessageCreateFailed
	}
	return message, nil
}

// ListMessages lists messages for the admin inbox.
func (s *MessageService) ListMessages(filter repository.MessageListFilter) ([]models.Message, int64, error) {
	messages, total, err := s.messageRepo.List(filter)
	if err != nil {
		return nil, 0, ErrMessageInvalid
	}
	return messages, total, nil
}

// GetMessage fetches one message and marks it read.
func (s *MessageService) GetMessage(id uint) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(id)
	if err != nil {
		return nil, ErrMessageInvalid
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}
	if message.Status == constants.MessageStatusUnread {
		message.Status = constants.MessageStatusRead
		message.UpdatedAt = time.Now()
		if err := s.messageRepo.Update(message); err != nil {
			return nil, ErrMessageInvalid
		}
	}
	return message, nil
}

// DeleteMessage removes a message.
func (s *MessageService) DeleteMessage(id uint) error {
	message, err := s.messageRepo.GetByID(id)
	if err != nil {
		return ErrMessageInvalid
	}
	if message == nil {
		return ErrMessageNotFound
	}
	return s.messageRepo.Delete(id)
}

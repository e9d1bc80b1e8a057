package service

import (
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"
)

// SchoolApplicationService handles school group booking requests.
type SchoolApplicationService struct {
	applicationRepo repository.SchoolApplicationRepository
	eventRepo       repository.EventRepository
	captcha         *CaptchaService
}

// NewSchoolApplicationService creates the school application service.
func NewSchoolApplicationService(applicationRepo repository.SchoolApplicationRepository, eventRepo repository.EventRepository, captcha *CaptchaService) *SchoolApplicationService {
	return &SchoolApplicationService{applicationRepo: applicationRepo, eventRepo: eventRepo, captcha: captcha}
}

// SubmitApplicationInput is one public school application.
type SubmitApplicationInput struct {
	SchoolName   string
	ContactName  string
	ContactEmail string
	ContactPhone string
	EventID      string
	StudentCount int
	Note         string
	CaptchaID    string
	CaptchaCode  string
}

// SubmitApplication validates and stores an application.
func (s *SchoolApplicationService) SubmitApplication(input SubmitApplicationInput) (*models.SchoolApplication, error) {
	if s.captcha != nil {
		if err := s.captcha.Verify(input.CaptchaID, input.CaptchaCode); err != nil {
			return nil, err
		}
	}
	schoolName := strings.TrimSpace(input.SchoolName)
	contactName := strings.TrimSpace(input.ContactName)
	if schoolName == "" || contactName == "" || input.StudentCount <= 0 {
		return nil, ErrApplicationInvalid
	}

	now := time.Now()
	application := &models.SchoolApplication{
		SchoolName:   schoolName,
		ContactName:  contactName,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		StudentCount: input.StudentCount,
		Note:         strings.TrimSpace(input.Note),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if eventID := strings.TrimSpace(input.EventID); eventID != "" {
		event, err := s.eventRepo.GetByID(eventID)
		if err != nil {
			return nil, ErrEventFetchFailed
		}
		if event == nil {
			return nil, ErrEventNotFound
		}
		application.EventID = &event.ID
	}

	if err := s.applicationRepo.Create(application); err != nil {
		return nil, ErrApplicationCreateFailed
	}
	return application, nil
}

// ListApplications lists applications for the admin screen.
func (s *SchoolApplicationService) ListApplications(page, pageSize int) ([]models.SchoolApplication, int64, error) {
	applications, total, err := s.applicationRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, ErrApplicationInvalid
	}
	return applications, total, nil
}

// GetApplication fetches one application.
func (s *SchoolApplicationService) GetApplication(id uint) (*models.SchoolApplication, error) {
	application, err := s.applicationRepo.GetByID(id)
	if err != nil {
		return nil, ErrApplicationInvalid
	}
	if application == nil {
		return nil, ErrApplicationNotFound
	}
	return application, nil
}

// DeleteApplication removes an application.
func (s *SchoolApplicationService) DeleteApplication(id uint) error {
	application, err := s.applicationRepo.GetByID(id)
	if err != nil {
		return ErrApplicationInvalid
	}
	if application == nil {
		return ErrApplicationNotFound
	}
	return s.applicationRepo.Delete(id)
}

package services

import (
	"context"
	"fmt"

	"github.com/reefdive/apiserver/internal/metrics"
	"github.com/reefdive/apiserver/internal/notify"
	"github.com/reefdive/apiserver/types"
	"go.uber.org/zap"
)

// ContactRepository defines persistence operations for contact inquiries.
type ContactRepository interface {
	Create(ctx context.Context, inquiry types.ContactInquiry) (types.ContactInquiry, error)
	Count(ctx context.Context) (int, error)
}

// ContactService records contact-form messages and alerts the school.
type ContactService struct {
	repo       ContactRepository
	adminEmail string
	effects    bestEffort
}

// NewContactService creates a ContactService that notifies adminEmail of new inquiries.
func NewContactService(
	repo ContactRepository,
	adminEmail string,
	notifier notify.Notifier,
	logger *zap.Logger,
	m *metrics.Metrics,
) *ContactService {
	return &ContactService{
		repo:       repo,
		adminEmail: adminEmail,
		effects:    bestEffort{notifier: notifier, logger: logger, metrics: m},
	}
}

// Submit stores the inquiry, then notifies the admin address.
func (s *ContactService) Submit(ctx context.Context, inquiry types.ContactInquiry) (types.ContactInquiry, error) {
	if inquiry.Subject == "" {
		inquiry.Subject = types.DefaultContactSubject
	}
	created, err := s.repo.Create(ctx, inquiry)
	if err != nil {
		return types.ContactInquiry{}, fmt.Errorf("create inquiry: %w", err)
	}
	s.effects.notify(ctx, notify.ContactInquiryReceived(created, s.adminEmail))
	return created, nil
}

// MedicalFormRepository defines persistence operations for medical forms.
type MedicalFormRepository interface {
	Create(ctx context.Context, form types.MedicalForm) (types.MedicalForm, error)
}

// MedicalFormArchiver keeps an off-database copy of submitted forms.
type MedicalFormArchiver interface {
	ArchiveMedicalForm(ctx context.Context, form types.MedicalForm) (string, error)
}

// MedicalFormService records medical questionnaires.
type MedicalFormService struct {
	repo     MedicalFormRepository
	archiver MedicalFormArchiver
	effects  bestEffort
}

// NewMedicalFormService accepts a nil archiver when archiving is disabled.
func NewMedicalFormService(
	repo MedicalFormRepository,
	archiver MedicalFormArchiver,
	notifier notify.Notifier,
	logger *zap.Logger,
	m *metrics.Metrics,
) *MedicalFormService {
	return &MedicalFormService{
		repo:     repo,
		archiver: archiver,
		effects:  bestEffort{notifier: notifier, logger: logger, metrics: m},
	}
}

// Submit stores the form as completed. Archiving and the acknowledgement
// email run afterwards and cannot fail the call.
func (s *MedicalFormService) Submit(ctx context.Context, form types.MedicalForm) (types.MedicalForm, error) {
	form.Completed = true
	created, err := s.repo.Create(ctx, form)
	if err != nil {
		return types.MedicalForm{}, fmt.Errorf("create medical form: %w", err)
	}

	if s.archiver != nil {
		if key, err := s.archiver.ArchiveMedicalForm(ctx, created); err != nil {
			s.effects.failed("medical_form_archive", err)
		} else {
			s.effects.logger.Debug("medical form archived", zap.Int("medical_form_id", created.ID), zap.String("key", key))
		}
	}
	s.effects.notify(ctx, notify.MedicalFormReceived(created))
	return created, nil
}

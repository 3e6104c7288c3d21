package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
	"vitalog/internal/repository"
)

// BloodTestService manages lab-report records, entered manually or
// extracted from a photographed report.
type BloodTestService struct {
	tests *repository.BloodTestRepository
	ai    domain.AIService
}

func NewBloodTestService(tests *repository.BloodTestRepository, ai domain.AIService) *BloodTestService {
	return &BloodTestService{
		tests: tests,
		ai:    ai,
	}
}

func (s *BloodTestService) AddRecord(ctx context.Context, userID string, test *domain.BloodTest) (*domain.BloodTest, error) {
	if test == nil {
		return nil, apperrors.New(apperrors.ErrorTypeValidation, "EMPTY_BLOOD_TEST", "Blood test payload is required")
	}

	record := *test
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.TakenAt.IsZero() {
		record.TakenAt = time.Now().UTC()
	}
	if record.Values == nil {
		record.Values = domain.NutrientProfile{}
	}

	if err := s.tests.Save(ctx, userID, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// AddFromImage extracts analyte values from a photographed lab report
// and stores them as a new record. Nothing is written when extraction
// fails.
func (s *BloodTestService) AddFromImage(ctx context.Context, userID string, image []byte) (*domain.BloodTest, error) {
	if len(image) == 0 {
		return nil, apperrors.New(apperrors.ErrorTypeValidation, "EMPTY_IMAGE", "Image data is required")
	}

	values, err := s.ai.ExtractLabReport(ctx, image)
	if err != nil {
		return nil, err
	}
	return s.AddRecord(ctx, userID, &domain.BloodTest{Values: values})
}

func (s *BloodTestService) ListRecords(ctx context.Context, userID string) ([]domain.BloodTest, error) {
	return s.tests.List(ctx, userID)
}

func (s *BloodTestService) DeleteRecord(ctx context.Context, userID, testID string) error {
	return s.tests.Delete(ctx, userID, testID)
}

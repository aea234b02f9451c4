package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SoarAway/donki-wonki/models"
)

const topReportsLimit = 3

// ReportService stores rider-submitted incident sightings. Reports
// feed detection; they do not notify anyone by themselves.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

func (s *ReportService) SendReport(line, station, incidentType, description string) (string, error) {
	if line == "" || station == "" {
		return "", fmt.Errorf("%w: line and station are required", ErrInvalidInput)
	}
	report := &models.Report{
		ID:           uuid.NewString(),
		Line:         line,
		Station:      station,
		IncidentType: incidentType,
		Description:  description,
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(report).Error; err != nil {
		return "", err
	}
	return report.ID, nil
}

// TopReports returns the latest three reports, newest first.
func (s *ReportService) TopReports() ([]models.Report, error) {
	var reports []models.Report
	err := s.db.Order("created_at DESC").Limit(topReportsLimit).Find(&reports).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return reports, nil
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-crm-api/internal/models"
	appErrors "github.com/noah-isme/tutor-crm-api/pkg/errors"
	"github.com/noah-isme/tutor-crm-api/pkg/export"
)

type incomeRepository interface {
	SumForPeriod(ctx context.Context, userID string, from, to time.Time) (float64, int, error)
}

type clientRepository interface {
	CountActive(ctx context.Context, userID string) (int, error)
}

// PaymentService aggregates the current month's recorded incomes against
// the expected number of paying clients.
type PaymentService struct {
	incomes  incomeRepository
	clients  clientRepository
	cache    *CacheService
	logger   *zap.Logger
	location *time.Location

	now func() time.Time
}

// NewPaymentService constructs the service.
func NewPaymentService(incomes incomeRepository, clients clientRepository, cache *CacheService, logger *zap.Logger, location *time.Location) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &PaymentService{
		incomes:  incomes,
		clients:  clients,
		cache:    cache,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

// MonthlySummary returns the current month's income aggregate. The result
// is cached briefly; the summary only moves when payments are recorded.
func (s *PaymentService) MonthlySummary(ctx context.Context, userID string) (*models.MonthlyIncomeSummary, error) {
	now := s.now().In(s.location)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location)
	monthEnd := monthStart.AddDate(0, 1, 0)

	cacheKey := fmt.Sprintf("payments:summary:%s:%s", userID, monthStart.Format("2006-01"))
	if s.cache.Enabled() {
		var cached models.MonthlyIncomeSummary
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	amount, count, err := s.incomes.SumForPeriod(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate incomes")
	}
	expected, err := s.clients.CountActive(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count clients")
	}

	summary := &models.MonthlyIncomeSummary{
		Month:    int(now.Month()),
		Amount:   amount,
		Count:    count,
		Expected: expected,
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, summary, 0); err != nil {
			s.logger.Warn("failed to cache payments summary", zap.Error(err))
		}
	}
	return summary, nil
}

// ExportFormat names a supported summary export encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered report bytes.
type ExportResult struct {
	ContentType string
	Filename    string
	Payload     []byte
}

// ExportMonthlySummary renders the current summary as CSV or PDF.
func (s *PaymentService) ExportMonthlySummary(ctx context.Context, userID string, format ExportFormat) (*ExportResult, error) {
	summary, err := s.MonthlySummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   fmt.Sprintf("Income %s", time.Month(summary.Month)),
		Headers: []string{"Month", "Amount", "Payments", "Expected"},
		Rows: [][]string{{
			time.Month(summary.Month).String(),
			strconv.FormatFloat(summary.Amount, 'f', 2, 64),
			strconv.Itoa(summary.Count),
			strconv.Itoa(summary.Expected),
		}},
	}

	switch format {
	case ExportFormatCSV:
		payload, err := export.CSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{ContentType: "text/csv", Filename: "income-summary.csv", Payload: payload}, nil
	case ExportFormatPDF:
		payload, err := export.PDF(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{ContentType: "application/pdf", Filename: "income-summary.pdf", Payload: payload}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

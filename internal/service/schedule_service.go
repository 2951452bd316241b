package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-crm-api/internal/models"
	appErrors "github.com/noah-isme/tutor-crm-api/pkg/errors"
)

type scheduleRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.ScheduleRule, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleRule, error)
	Create(ctx context.Context, rule *models.ScheduleRule) error
	Update(ctx context.Context, rule *models.ScheduleRule) error
	Delete(ctx context.Context, id string) error
}

// ScheduleService manages the weekly schedule rules.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, validator: validate, logger: logger}
}

// ScheduleRuleRequest describes create/update payloads.
type ScheduleRuleRequest struct {
	Weekday         int     `json:"weekday" validate:"required,min=1,max=7"`
	Hour            int     `json:"hour" validate:"min=0,max=23"`
	Minute          int     `json:"minute" validate:"min=0,max=59"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,min=1"`
	GroupID         *string `json:"group_id"`
	ClientID        *string `json:"client_id"`
}

// List returns the user's rules ordered by weekday and time of day.
func (s *ScheduleService) List(ctx context.Context, userID string) ([]models.ScheduleRule, error) {
	rules, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule rules")
	}
	return rules, nil
}

// Create registers a new weekly rule.
func (s *ScheduleService) Create(ctx context.Context, userID string, req ScheduleRuleRequest) (*models.ScheduleRule, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	rule := &models.ScheduleRule{
		UserID:          userID,
		Weekday:         req.Weekday,
		Hour:            req.Hour,
		Minute:          req.Minute,
		DurationMinutes: req.DurationMinutes,
		GroupID:         req.GroupID,
		ClientID:        req.ClientID,
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule rule")
	}
	return rule, nil
}

// Update modifies an existing rule. Already-materialized overrides keep
// their stored identity; only future expansion follows the new rule.
func (s *ScheduleService) Update(ctx context.Context, userID, id string, req ScheduleRuleRequest) (*models.ScheduleRule, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule rule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule rule")
	}
	if rule.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "schedule rule belongs to another user")
	}
	rule.Weekday = req.Weekday
	rule.Hour = req.Hour
	rule.Minute = req.Minute
	rule.DurationMinutes = req.DurationMinutes
	rule.GroupID = req.GroupID
	rule.ClientID = req.ClientID
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule rule")
	}
	return rule, nil
}

// Delete removes a rule.
func (s *ScheduleService) Delete(ctx context.Context, userID, id string) error {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule rule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule rule")
	}
	if rule.UserID != userID {
		return appErrors.Clone(appErrors.ErrForbidden, "schedule rule belongs to another user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule rule")
	}
	return nil
}

func (s *ScheduleService) validateRequest(req ScheduleRuleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	hasGroup := req.GroupID != nil && *req.GroupID != ""
	hasClient := req.ClientID != nil && *req.ClientID != ""
	if hasGroup == hasClient {
		return appErrors.Clone(appErrors.ErrValidation, "exactly one of group_id or client_id must be set")
	}
	return nil
}

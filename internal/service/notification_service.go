package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/internal/models"
	"github.com/sodachi-biyori/sodachi-api/pkg/config"
	appErrors "github.com/sodachi-biyori/sodachi-api/pkg/errors"
	"github.com/sodachi-biyori/sodachi-api/pkg/jobs"
)

type deviceTokenRepository interface {
	Upsert(ctx context.Context, token *models.DeviceToken) error
	ListForSchool(ctx context.Context, schoolID string) ([]models.DeviceToken, error)
	Delete(ctx context.Context, token string) error
}

// RegisterTokenRequest binds a device push token to a guardian.
type RegisterTokenRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}

// pushMessage is the wire payload sent to the push gateway, one entry
// per device token.
type pushMessage struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type pushPayload struct {
	SchoolID string
	Title    string
	Body     string
}

// NotificationService manages device tokens and dispatches push
// notifications through a background queue. Dispatch is best-effort.
type NotificationService struct {
	tokens    deviceTokenRepository
	validator adValidator
	logger    *zap.Logger
	cfg       config.PushConfig
	client    *http.Client
	queue     *jobs.Queue
}

// NewNotificationService constructs the service and its dispatch queue.
// Call Start before enqueuing and Stop on shutdown.
func NewNotificationService(tokens deviceTokenRepository, validate adValidator, cfg config.PushConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	s := &NotificationService{
		tokens:    tokens,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
	s.queue = jobs.NewQueue("push-dispatch", s.dispatch, jobs.QueueConfig{
		Workers:    2,
		MaxRetries: 2,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the dispatch workers.
func (s *NotificationService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the dispatch workers.
func (s *NotificationService) Stop() { s.queue.Stop() }

// RegisterToken stores or refreshes a guardian's device token.
func (s *NotificationService) RegisterToken(ctx context.Context, guardianID string, req RegisterTokenRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid device token payload")
	}
	token := &models.DeviceToken{
		GuardianID: guardianID,
		Token:      req.Token,
		Platform:   req.Platform,
	}
	if err := s.tokens.Upsert(ctx, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register device token")
	}
	return nil
}

// UnregisterToken removes a device token.
func (s *NotificationService) UnregisterToken(ctx context.Context, token string) error {
	if err := s.tokens.Delete(ctx, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove device token")
	}
	return nil
}

// NotifySchool queues a push to every registered device of the school's
// guardians. Errors are logged, never returned: publishing a video must
// not fail because push delivery did.
func (s *NotificationService) NotifySchool(schoolID, title, body string) {
	if !s.cfg.Enabled {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "notify-school",
		Payload: pushPayload{SchoolID: schoolID, Title: title, Body: body},
	})
	if err != nil {
		s.logger.Warn("failed to queue push notification", zap.String("school_id", schoolID), zap.Error(err))
	}
}

func (s *NotificationService) dispatch(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(pushPayload)
	if !ok {
		s.logger.Error("unexpected push job payload", zap.String("job_id", job.ID))
		return nil
	}

	tokens, err := s.tokens.ListForSchool(ctx, payload.SchoolID)
	if err != nil {
		return fmt.Errorf("list device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	for start := 0; start < len(tokens); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := make([]pushMessage, 0, end-start)
		for _, t := range tokens[start:end] {
			batch = append(batch, pushMessage{To: t.Token, Title: payload.Title, Body: payload.Body})
		}
		if err := s.send(ctx, batch); err != nil {
			return err
		}
	}

	s.logger.Info("push notification dispatched",
		zap.String("school_id", payload.SchoolID),
		zap.Int("devices", len(tokens)))
	return nil
}

func (s *NotificationService) send(ctx context.Context, batch []pushMessage) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal push batch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push batch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}

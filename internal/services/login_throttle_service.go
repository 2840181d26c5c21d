package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/airplanned/booking-backend/internal/database"
	"github.com/sirupsen/logrus"
)

// Identifier types recorded in login_failures
const (
	throttleAccount = "account"
	throttleIP      = "ip"
)

// LoginThrottleService refuses logins after repeated failures for the same
// account or from the same client IP
type LoginThrottleService struct {
	db          database.DB
	maxFailures int
	window      time.Duration
	logger      *logrus.Logger
	now         func() time.Time
}

// NewLoginThrottleService creates a new throttle. maxFailures of zero disables it.
func NewLoginThrottleService(db database.DB, maxFailures int, window time.Duration, logger *logrus.Logger) *LoginThrottleService {
	return &LoginThrottleService{
		db:          db,
		maxFailures: maxFailures,
		window:      window,
		logger:      logger,
		now:         time.Now,
	}
}

// ThrottledError is returned while an account or IP is locked out
type ThrottledError struct {
	Message    string
	RetryAfter time.Time
}

func (e *ThrottledError) Error() string {
	return e.Message
}

// Check returns a ThrottledError when the account or the IP has reached the
// failure limit inside the window
func (s *LoginThrottleService) Check(ctx context.Context, account, ip string) error {
	if s.maxFailures == 0 {
		return nil
	}

	for _, id := range s.identifiers(account, ip) {
		count, err := s.failures(ctx, id.value, id.kind)
		if err != nil {
			return classify(err, "")
		}
		if count >= s.maxFailures {
			retryAfter, err := s.releaseAt(ctx, id.value, id.kind, count)
			if err != nil {
				return classify(err, "")
			}
			s.logger.WithFields(logrus.Fields{
				"identifier_type": id.kind,
				"failures":        count,
			}).Warn("Login throttled")
			return &ThrottledError{
				Message:    fmt.Sprintf("Too many failed login attempts. Please try again after %s", retryAfter.Format("15:04")),
				RetryAfter: retryAfter,
			}
		}
	}
	return nil
}

// RecordFailure counts one failed attempt against the account and the IP
func (s *LoginThrottleService) RecordFailure(ctx context.Context, account, ip string) error {
	if s.maxFailures == 0 {
		return nil
	}

	for _, id := range s.identifiers(account, ip) {
		query := `INSERT INTO login_failures (identifier, identifier_type, created_at) VALUES ($1, $2, $3)`
		if _, err := s.db.ExecContext(ctx, query, id.value, id.kind, s.now()); err != nil {
			return fmt.Errorf("failed to record login failure: %w", err)
		}
	}
	return nil
}

// Reset forgets the account's failures after a successful login
func (s *LoginThrottleService) Reset(ctx context.Context, account string) error {
	account = normalizeAccount(account)
	if s.maxFailures == 0 || account == "" {
		return nil
	}

	query := `DELETE FROM login_failures WHERE identifier = $1 AND identifier_type = $2`
	if _, err := s.db.ExecContext(ctx, query, account, throttleAccount); err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}

// Cleanup removes failures older than the window
func (s *LoginThrottleService) Cleanup(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM login_failures WHERE created_at < $1`, s.now().Add(-s.window))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup login failures: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

type throttleID struct {
	value string
	kind  string
}

func (s *LoginThrottleService) identifiers(account, ip string) []throttleID {
	var ids []throttleID
	if account = normalizeAccount(account); account != "" {
		ids = append(ids, throttleID{value: account, kind: throttleAccount})
	}
	if ip != "" {
		ids = append(ids, throttleID{value: ip, kind: throttleIP})
	}
	return ids
}

func (s *LoginThrottleService) failures(ctx context.Context, identifier, kind string) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM login_failures
		WHERE identifier = $1
		  AND identifier_type = $2
		  AND created_at > $3
	`
	if err := s.db.GetContext(ctx, &count, query, identifier, kind, s.now().Add(-s.window)); err != nil {
		return 0, fmt.Errorf("failed to count login failures: %w", err)
	}
	return count, nil
}

// releaseAt is when enough of the oldest counted failures have aged out of
// the window for count to drop below the limit
func (s *LoginThrottleService) releaseAt(ctx context.Context, identifier, kind string, count int) (time.Time, error) {
	var expiring time.Time
	query := `
		SELECT created_at
		FROM login_failures
		WHERE identifier = $1
		  AND identifier_type = $2
		  AND created_at > $3
		ORDER BY created_at ASC
		OFFSET $4 LIMIT 1
	`
	offset := count - s.maxFailures
	if err := s.db.GetContext(ctx, &expiring, query, identifier, kind, s.now().Add(-s.window), offset); err != nil {
		return time.Time{}, fmt.Errorf("failed to find oldest login failure: %w", err)
	}
	return expiring.Add(s.window), nil
}

func normalizeAccount(account string) string {
	return strings.ToLower(strings.TrimSpace(account))
}

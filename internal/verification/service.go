package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"time"

	"github.com/jonboulle/clockwork"

	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
	"communitychat/internal/ratelimit"
)

const codeTTL = 10 * time.Minute

var codeRegex = regexp.MustCompile(`^[0-9]{6}$`)

var errInvalidCode = common.Validation("invalid or expired code")

type Service struct {
	repo    Repository
	sender  common.CodeSender
	limiter *ratelimit.Limiter
	clock   clockwork.Clock
	logger  *slog.Logger

	newCode func() (string, error)
}

func NewService(repo Repository, sender common.CodeSender, limits *ratelimit.Registry, clock clockwork.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		sender:  sender,
		limiter: limits.PhoneVerification(),
		clock:   clock,
		logger:  logger,
		newCode: randomCode,
	}
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *Service) allow(remoteAddr string) error {
	if res := s.limiter.Allow(ratelimit.IPKey(remoteAddr)); !res.Allowed {
		return common.RateLimited(res.ResetIn)
	}
	return nil
}

// RequestCode sends a fresh code to phone. Requests are limited per client
// address.
func (s *Service) RequestCode(ctx context.Context, actor common.Actor, phone, remoteAddr string) error {
	if actor.UserID == 0 {
		return common.ErrUnauthenticated
	}
	phone = common.NormalizePhone(phone)
	if err := common.ValidatePhone(phone); err != nil {
		return err
	}
	if err := s.allow(remoteAddr); err != nil {
		return err
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	hash, err := common.HashCode(code)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	now := s.clock.Now().UTC()
	if err := s.repo.Create(ctx, &dbmysql.PhoneVerification{
		UserID:    actor.UserID,
		Phone:     phone,
		CodeHash:  hash,
		ExpiresAt: now.Add(codeTTL),
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if err := s.sender.SendCode(ctx, phone, code); err != nil {
		return fmt.Errorf("failed to send code: %w", err)
	}
	return nil
}

// ConfirmCode checks code against the newest one sent to phone. Attempts
// count against the same limit as requests; success clears it.
func (s *Service) ConfirmCode(ctx context.Context, actor common.Actor, phone, code, remoteAddr string) error {
	if actor.UserID == 0 {
		return common.ErrUnauthenticated
	}
	phone = common.NormalizePhone(phone)
	if err := common.ValidatePhone(phone); err != nil {
		return err
	}
	if !codeRegex.MatchString(code) {
		return errInvalidCode
	}
	if err := s.allow(remoteAddr); err != nil {
		return err
	}

	pending, err := s.repo.Latest(ctx, actor.UserID, phone)
	if err != nil {
		return err
	}
	now := s.clock.Now().UTC()
	if pending == nil || !pending.ExpiresAt.After(now) {
		return errInvalidCode
	}
	if err := common.CheckCode(code, pending.CodeHash); err != nil {
		return errInvalidCode
	}

	if err := s.repo.Confirm(ctx, actor.UserID, phone, now); err != nil {
		return err
	}
	s.limiter.Reset(ratelimit.IPKey(remoteAddr))
	s.logger.Info("[VERIFY] phone verified", "user_id", actor.UserID)
	return nil
}

// LogSender writes codes to the log instead of an SMS gateway.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendCode(_ context.Context, phone, code string) error {
	s.logger.Info("[SMS] verification code", "phone", maskPhone(phone), "code", code)
	return nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range phone {
		if i < len(phone)-4 {
			masked[i] = '*'
		} else {
			masked[i] = phone[i]
		}
	}
	return string(masked)
}

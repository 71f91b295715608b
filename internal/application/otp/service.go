package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/staff-tracker-api/internal/domain"
	"github.com/staff-tracker-api/internal/infrastructure/smtp"
	"github.com/staff-tracker-api/internal/pkg/validate"
)

type Service interface {
	// Issue generates and stores a fresh code for email, replacing any prior
	// one, then mails it. A failed send returns ErrDelivery but the stored
	// code stays valid.
	Issue(ctx context.Context, email string) error
	// Verify consumes the code for email. nil means consumed; otherwise the
	// error wraps ErrNotFound, ErrCodeMismatch or ErrCodeExpired; callers
	// surface all three identically.
	Verify(ctx context.Context, email, code string) error
}

type credentialStore interface {
	Put(ctx context.Context, rec *domain.OtpRecord) error
	ConsumeIfMatch(ctx context.Context, email, code string, now time.Time) error
}

type service struct {
	repo   credentialStore
	mailer smtp.Mailer
	ttl    time.Duration
	now    func() time.Time
}

func NewService(repo credentialStore, mailer smtp.Mailer, ttl time.Duration) Service {
	return &service{repo: repo, mailer: mailer, ttl: ttl, now: time.Now}
}

func (s *service) Issue(ctx context.Context, email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email: %w", domain.ErrBadRequest)
	}
	email = normalizeEmail(email)

	code, err := generateCode()
	if err != nil {
		return err
	}
	rec := &domain.OtpRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl).Unix(),
	}
	if err := s.repo.Put(ctx, rec); err != nil {
		return err
	}

	body := fmt.Sprintf("Your OTP is %s. It expires in %d minutes.", code, int(s.ttl.Minutes()))
	if err := s.mailer.SendEmail(email, "Your OTP Code", body); err != nil {
		// The code is already stored and usable; only delivery failed.
		slog.Warn("OTP mail delivery failed", "email", email, "err", err)
		return fmt.Errorf("send otp mail: %w", domain.ErrDelivery)
	}
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email: %w", domain.ErrBadRequest)
	}
	if err := validate.Var(code, "required,len=6,numeric"); err != nil {
		return fmt.Errorf("invalid otp: %w", domain.ErrBadRequest)
	}
	email = normalizeEmail(email)

	// The conditional delete in the store is the serialization point: two
	// concurrent calls with the same valid code yield exactly one nil here.
	if err := s.repo.ConsumeIfMatch(ctx, email, code, s.now()); err != nil {
		slog.Info("OTP verification rejected", "email", email, "err", err)
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateCode draws a uniform 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

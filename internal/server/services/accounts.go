// Package services contains server-side business logic. This file implements
// AccountService: bootstrap provisioning, login with a per-account lockout
// policy, and the session lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/techclub/recruitd/internal/common"
	"github.com/techclub/recruitd/internal/cryptox"
	"github.com/techclub/recruitd/internal/logging"
	"github.com/techclub/recruitd/internal/server/config"
	"github.com/techclub/recruitd/internal/server/models"
	"github.com/techclub/recruitd/internal/server/notifications"
	"github.com/techclub/recruitd/internal/server/repositories/repomanager"
)

// AccountService provides account authentication and lifecycle operations:
//   - Provision: idempotent creation of the first administrator
//   - Login: credential verification behind the lockout guard, session issue
//   - Validate / Revoke: session lifecycle for the web layer
//   - CreateAccount / ChangePassword / Deactivate: account management
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	notifier    notifications.Notifier

	maxFailedAttempts int
	lockoutDuration   time.Duration
	sessionTimeout    time.Duration

	// dummyDigest is verified against when the email is unknown, so unknown
	// emails cost the same as wrong passwords.
	dummyDigest string

	// now is a seam for the tests; production uses time.Now.
	now func() time.Time
}

// NewAccountService constructs an AccountService from repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, n notifications.Notifier, cfg *config.Config) *AccountService {
	dummy, _ := common.MakeRandHexString(16)
	return &AccountService{
		db:                db,
		repomanager:       m,
		logger:            l.With("module", "accounts"),
		notifier:          n,
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		sessionTimeout:    cfg.SessionTimeout,
		dummyDigest:       cryptox.HashPassword(dummy),
		now:               time.Now,
	}
}

// Provision creates the initial administrator account from bootstrap input.
// It is idempotent: when an account with the given email already exists the
// call is a no-op, so it is safe to run on every process start. The plaintext
// password is never logged.
func (s *AccountService) Provision(ctx context.Context, email, name, password string) error {
	if email == "" || name == "" || password == "" {
		return errors.New("provision: email, name and password are required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("provision: invalid email %q: %w", email, err)
	}
	email = strings.ToLower(addr.Address)

	repo := s.repomanager.Accounts(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		s.logger.Info(ctx, "admin account already exists", "email", email)
		return nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("provision: lookup: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: cryptox.HashPassword(password),
		Role:         models.RoleAdmin,
		IsActive:     true,
		FirstLogin:   false,
	}

	if _, err := repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			// lost a race with a concurrent provision; same outcome
			s.logger.Info(ctx, "admin account already exists", "email", email)
			return nil
		}
		return fmt.Errorf("provision: create: %w", err)
	}

	s.audit(ctx, &account.ID, "bootstrap.provision", "created admin "+email)
	s.logger.Info(ctx, "admin account created", "email", email)
	return nil
}

// Login authenticates the account and issues a session.
//
// The lockout window is evaluated strictly before password verification, so a
// locked account gets a uniform early rejection without any hashing work. An
// expired lockout is reset lazily here. Unknown emails and wrong passwords
// are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := s.now()
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = cryptox.VerifyPassword(password, s.dummyDigest)
			s.audit(ctx, nil, "login.failure", "unknown email "+email)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if account.LockedAt(now) {
		s.audit(ctx, &account.ID, "login.rejected", "account locked")
		return nil, &common.LockedError{Until: *account.LockedUntil}
	}
	if account.LockedUntil != nil {
		// the window has passed: the state is Clear again
		if err := repo.ClearFailures(ctx, account.ID); err != nil {
			s.logger.Error(ctx, "failure reset failed", "error", err.Error())
			return nil, common.ErrorInternal
		}
		account.FailedAttempts = 0
		account.LockedUntil = nil
	}

	ok, err := cryptox.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		// malformed stored digest; programmer-error class, surfaced as-is
		return nil, err
	}

	if !ok {
		attempts, lockedUntil, err := repo.RegisterFailure(ctx, account.ID, now, s.maxFailedAttempts, now.Add(s.lockoutDuration))
		if err != nil {
			s.logger.Error(ctx, "failure count update failed", "error", err.Error())
			return nil, common.ErrorInternal
		}
		if lockedUntil != nil {
			s.audit(ctx, &account.ID, "login.lockout", fmt.Sprintf("locked after %d failed attempts", attempts))
			s.logger.Info(ctx, "account locked", "email", email, "attempts", attempts)
			return nil, &common.LockedError{Until: *lockedUntil}
		}
		s.audit(ctx, &account.ID, "login.failure", "invalid password")
		return nil, common.ErrInvalidCredentials
	}

	if account.FailedAttempts > 0 {
		if err := repo.ClearFailures(ctx, account.ID); err != nil {
			s.logger.Error(ctx, "failure reset failed", "error", err.Error())
			return nil, common.ErrorInternal
		}
	}

	if !account.IsActive {
		s.audit(ctx, &account.ID, "login.rejected", "account inactive")
		return nil, common.ErrAccountInactive
	}

	session, err := s.issueSession(ctx, account.ID, now)
	if err != nil {
		s.logger.Error(ctx, "session issue failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	s.audit(ctx, &account.ID, "login.success", "")
	return session, nil
}

// Validate refreshes the session's sliding window and returns the owning
// account. An expired session is removed on the spot; an inactive owner has
// every remaining session revoked.
func (s *AccountService) Validate(ctx context.Context, sessionID string) (*models.Account, error) {
	now := s.now()
	sessionsRepo := s.repomanager.Sessions(s.db)

	session, err := sessionsRepo.Touch(ctx, sessionID, now, now.Add(s.sessionTimeout))
	if err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			_ = sessionsRepo.Delete(ctx, sessionID)
			return nil, common.ErrSessionExpired
		}
		s.logger.Error(ctx, "session touch failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, session.AccountID)
	if err != nil {
		s.logger.Error(ctx, "session owner lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !account.IsActive {
		_ = sessionsRepo.DeleteByAccount(ctx, account.ID)
		return nil, common.ErrAccountInactive
	}

	return account, nil
}

// Revoke deletes the session. Revoking an unknown session is not an error.
func (s *AccountService) Revoke(ctx context.Context, sessionID string) error {
	if err := s.repomanager.Sessions(s.db).Delete(ctx, sessionID); err != nil {
		s.logger.Error(ctx, "session delete failed", "error", err.Error())
		return common.ErrorInternal
	}
	s.audit(ctx, nil, "logout", "")
	return nil
}

func (s *AccountService) issueSession(ctx context.Context, accountID string, now time.Time) (*models.Session, error) {
	id, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:           id,
		AccountID:    accountID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.sessionTimeout),
	}

	if err := s.repomanager.Sessions(s.db).Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// audit appends an event best-effort; a failed write is logged and dropped.
func (s *AccountService) audit(ctx context.Context, accountID *string, action, details string) {
	event := &models.AuditEvent{
		AccountID: accountID,
		Action:    action,
		Details:   details,
		CreatedAt: s.now(),
	}
	if err := s.repomanager.Audit(s.db).Record(ctx, event); err != nil {
		s.logger.Warn(ctx, "audit write failed", "action", action, "error", err.Error())
	}
}

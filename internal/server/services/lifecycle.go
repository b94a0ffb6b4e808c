package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/techclub/recruitd/internal/common"
	"github.com/techclub/recruitd/internal/cryptox"
	"github.com/techclub/recruitd/internal/dbx"
	"github.com/techclub/recruitd/internal/server/models"
)

// CreateAccount registers a new member on behalf of actor, who must be an
// administrator. The initial password is generated, delivered through the
// configured notifier and never returned to the caller. The account starts
// with the first-login flag set, which forces a password change before the
// generated credential can be kept.
func (s *AccountService) CreateAccount(ctx context.Context, actor *models.Account, email, name, role string) (*models.Account, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrPermissionDenied
	}
	if name == "" {
		return nil, errors.New("name is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email %q: %w", email, err)
	}
	email = strings.ToLower(addr.Address)

	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleAdmin && role != models.RoleMember {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	password, err := GenerateRandomPassword(12)
	if err != nil {
		s.logger.Error(ctx, "password generation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: cryptox.HashPassword(password),
		Role:         role,
		IsActive:     true,
		FirstLogin:   true,
	}

	created, err := s.repomanager.Accounts(s.db).Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		s.logger.Error(ctx, "account create failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if err := s.notifier.CredentialsIssued(ctx, email, name, password); err != nil {
		// the account exists either way; the admin can reissue credentials
		s.logger.Warn(ctx, "credential delivery failed", "email", email, "error", err.Error())
	}

	s.audit(ctx, &actor.ID, "account.create", "created "+email+" as "+role)
	s.logger.Info(ctx, "account created", "email", email, "role", role)
	return created, nil
}

// ChangePassword replaces the account's password after verifying the current
// one. The new password must meet policy and differ from the current one.
// A successful change clears the first-login flag and revokes every session
// of the account except sessionID, the one performing the change.
func (s *AccountService) ChangePassword(ctx context.Context, account *models.Account, sessionID, currentPassword, newPassword string) error {
	ok, err := cryptox.VerifyPassword(currentPassword, account.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		s.audit(ctx, &account.ID, "password.change.rejected", "current password mismatch")
		return common.ErrInvalidCredentials
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if newPassword == currentPassword {
		return fmt.Errorf("%w: new password must differ from the current one", common.ErrWeakPassword)
	}

	account.PasswordHash = cryptox.HashPassword(newPassword)
	account.FirstLogin = false

	if err := s.repomanager.Accounts(s.db).Update(ctx, account); err != nil {
		s.logger.Error(ctx, "password update failed", "error", err.Error())
		return common.ErrorInternal
	}

	if err := s.repomanager.Sessions(s.db).DeleteByAccountExcept(ctx, account.ID, sessionID); err != nil {
		s.logger.Error(ctx, "session revocation failed", "error", err.Error())
		return common.ErrorInternal
	}

	s.audit(ctx, &account.ID, "password.change", "")
	s.logger.Info(ctx, "password changed", "email", account.Email)
	return nil
}

// Deactivate soft-deletes the target account on behalf of actor, who must be
// an administrator. Every live session of the target is revoked so the
// deactivation takes effect immediately. Administrators cannot deactivate
// themselves.
func (s *AccountService) Deactivate(ctx context.Context, actor *models.Account, targetID string) error {
	if !actor.IsAdmin() {
		return common.ErrPermissionDenied
	}
	if actor.ID == targetID {
		return errors.New("cannot deactivate own account")
	}

	repo := s.repomanager.Accounts(s.db)

	target, err := repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return common.ErrorInternal
	}
	if !target.IsActive {
		return nil
	}

	// the flag flip and the session purge land together or not at all
	target.IsActive = false
	err = s.repomanager.InTx(ctx, s.db, func(tx dbx.DBTX) error {
		if err := s.repomanager.Accounts(tx).Update(ctx, target); err != nil {
			return err
		}
		return s.repomanager.Sessions(tx).DeleteByAccount(ctx, targetID)
	})
	if err != nil {
		s.logger.Error(ctx, "account deactivation failed", "error", err.Error())
		return common.ErrorInternal
	}

	s.audit(ctx, &actor.ID, "account.deactivate", "deactivated "+target.Email)
	s.logger.Info(ctx, "account deactivated", "email", target.Email)
	return nil
}

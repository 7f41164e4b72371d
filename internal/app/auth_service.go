package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"jobdesk/internal/common"
	"jobdesk/internal/domain/user"
	"jobdesk/internal/security"
)

type Logger interface {
	Info(msg string)
	Error(msg string)
}

type AuthService struct {
	users       user.Repository
	jwtProvider *security.JWTProvider
	logger      Logger
	accessTTL   time.Duration
}

func NewAuthService(users user.Repository, jwtProvider *security.JWTProvider, logger Logger, accessTTL time.Duration) *AuthService {
	return &AuthService{users: users, jwtProvider: jwtProvider, logger: logger, accessTTL: accessTTL}
}

type AuthResult struct {
	User      *user.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, displayName, email, password, role string) (*AuthResult, error) {
	fields := map[string]string{}
	if strings.TrimSpace(displayName) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(email) == "" {
		fields["email"] = "email is required"
	}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	normalizedRole, roleErr := normalizeRole(role)
	if roleErr != nil {
		fields["role"] = "role must be seeker or employer"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid registration", fields)
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, normalizedEmail); err == nil {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	created, err := s.users.Create(ctx, user.User{
		DisplayName:  strings.TrimSpace(displayName),
		Email:        normalizedEmail,
		PasswordHash: string(hash),
		Role:         normalizedRole,
	})
	if err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("user registered user_id=%s role=%s", created.ID, created.Role))
	return s.issueToken(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
	}
	s.logInfo(fmt.Sprintf("user logged in user_id=%s", account.ID))
	return s.issueToken(account)
}

// EnsureAdmin reconciles the admin account before the server accepts
// traffic. Repeated startups are no-ops once the account exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, displayName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		s.logInfo("admin bootstrap skipped, credentials not configured")
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !common.Is(err, common.CodeNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to hash admin password", err)
	}
	created, err := s.users.Create(ctx, user.User{
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
	})
	if err != nil {
		return err
	}
	s.logInfo(fmt.Sprintf("admin account created user_id=%s", created.ID))
	return nil
}

func (s *AuthService) issueToken(account *user.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwtProvider.Generate(account.ID, string(account.Role), s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate token", err)
	}
	return &AuthResult{User: account, Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeRole(value string) (user.Role, error) {
	normalized := user.Role(strings.ToLower(strings.TrimSpace(value)))
	if normalized != user.RoleSeeker && normalized != user.RoleEmployer {
		return "", common.NewValidationError("invalid role", map[string]string{"role": "role must be seeker or employer"})
	}
	return normalized, nil
}

func (s *AuthService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"project-service/internal/domain"
	"project-service/internal/repository"
	"project-service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	TenantName   string
	TenantDomain string
}

// AuthService covers registration, login and token resolution
type AuthService struct {
	tenants repository.TenantRepository
	users   repository.UserRepository
	tx      repository.Transactor
	hasher  PasswordHasher
	tokens  TokenService
	log     *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	tenants repository.TenantRepository,
	users repository.UserRepository,
	tx repository.Transactor,
	hasher PasswordHasher,
	tokens TokenService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{tenants: tenants, users: users, tx: tx, hasher: hasher, tokens: tokens, log: log}
}

// RegisterUser creates the user, creating its tenant first when the domain is new.
// The first user of a tenant becomes its admin.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	log := logger.FromContext(ctx, s.log)

	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.TenantDomain = strings.TrimSpace(in.TenantDomain)
	if in.Email == "" || in.Username == "" || in.Password == "" || in.TenantDomain == "" {
		return nil, fmt.Errorf("%w: username, email, password and tenant_domain are required", domain.ErrValidation)
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Info("Registration rejected: credentials taken", zap.String("email", in.Email))
		return nil, domain.ErrDuplicateCredential
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		tenant, err := s.tenants.GetByDomain(ctx, in.TenantDomain)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			name := strings.TrimSpace(in.TenantName)
			if name == "" {
				name = in.TenantDomain
			}
			tenant = &domain.Tenant{Name: name, Domain: in.TenantDomain}
			if err := s.tenants.Create(ctx, tenant); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					return fmt.Errorf("%w: tenant %q was registered concurrently, retry", domain.ErrConflict, in.TenantDomain)
				}
				return err
			}
			user.Role = domain.RoleAdmin
		case err != nil:
			return err
		default:
			user.Role = domain.RoleUser
		}

		user.TenantID = tenant.ID
		if err := s.users.Create(ctx, user); err != nil {
			// lost a race on the unique email/username indexes
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrDuplicateCredential
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()),
		zap.String("role", user.Role))
	return user, nil
}

// AuthenticateUser checks email and password. Both failure paths return
// ErrUnauthenticated and cost one bcrypt comparison.
func (s *AuthService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContext(ctx, s.log)

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.Verify(password, s.dummy())
		log.Info("Login failed: unknown email", zap.String("email", email))
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		log.Info("Login failed: wrong password", zap.String("user_id", user.ID.String()))
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// IssueToken signs an access token for user
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	return s.tokens.GenerateToken(user.Email, user.TenantID.String())
}

// ResolveCurrentUser maps a bearer token to its user. The user must still exist
// and still belong to the tenant named in the token.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, token string) (*domain.User, error) {
	log := logger.FromContext(ctx, s.log)

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		log.Debug("Token rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed tenant_id", domain.ErrUnauthenticated)
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown subject", domain.ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}
	if user.TenantID != tenantID {
		log.Warn("Token tenant does not match user tenant", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("%w: tenant mismatch", domain.ErrUnauthenticated)
	}
	return user, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("dummy-password-for-timing")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type userRepository interface {
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindWorkerByEmail(ctx context.Context, email string) (*models.Worker, error)
	CustomerEmailExists(ctx context.Context, email string) (bool, error)
	WorkerEmailExists(ctx context.Context, email string) (bool, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	CreateWorker(ctx context.Context, worker *models.Worker) error
}

// AuthService authenticates users against their role's account table and
// issues access tokens.
type AuthService struct {
	repo       userRepository
	secret     []byte
	expiration time.Duration
	issuer     string
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo userRepository, secret string, expiration time.Duration, issuer string, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		repo:       repo,
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
		validator:  validate,
		logger:     logger,
	}
}

// Login verifies credentials against the account table selected by the role
// and returns a signed access token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	var user models.UserInfo
	var passwordHash string

	switch req.Role {
	case models.RoleAdmin:
		admin, err := s.repo.FindAdminByEmail(ctx, req.Email)
		if err != nil {
			return nil, loginLookupError(err)
		}
		user = models.UserInfo{ID: admin.ID, Email: admin.Email, FullName: admin.Name, Role: models.RoleAdmin}
		passwordHash = admin.PasswordHash
	case models.RoleCustomer:
		customer, err := s.repo.FindCustomerByEmail(ctx, req.Email)
		if err != nil {
			return nil, loginLookupError(err)
		}
		user = models.UserInfo{ID: customer.ID, Email: customer.Email, FullName: customer.Name, Role: models.RoleCustomer}
		passwordHash = customer.PasswordHash
	case models.RoleWorker:
		worker, err := s.repo.FindWorkerByEmail(ctx, req.Email)
		if err != nil {
			return nil, loginLookupError(err)
		}
		user = models.UserInfo{ID: worker.ID, Email: worker.Email, FullName: worker.Name, Role: models.RoleWorker}
		passwordHash = worker.PasswordHash
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, issuedAt, err := s.issueToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue token")
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.expiration.Seconds()),
		User:        user,
		IssuedAt:    issuedAt,
	}, nil
}

// RegisterCustomer creates a new customer account.
func (s *AuthService) RegisterCustomer(ctx context.Context, req models.RegisterCustomerRequest) (*models.Customer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	exists, err := s.repo.CustomerEmailExists(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	customer := &models.Customer{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Street:       optional(req.Street),
		City:         optional(req.City),
		Pincode:      optional(req.Pincode),
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create customer")
	}

	s.logger.Info("customer registered", zap.String("customer_id", customer.ID))
	return customer, nil
}

// RegisterWorker creates a new worker account.
func (s *AuthService) RegisterWorker(ctx context.Context, req models.RegisterWorkerRequest) (*models.Worker, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	exists, err := s.repo.WorkerEmailExists(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	worker := &models.Worker{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		PasswordHash:    string(hash),
		SkillType:       req.SkillType,
		ExperienceYears: req.ExperienceYears,
		CategoryID:      req.CategoryID,
		Street:          optional(req.Street),
		City:            optional(req.City),
		Pincode:         optional(req.Pincode),
	}
	if err := s.repo.CreateWorker(ctx, worker); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create worker")
	}

	s.logger.Info("worker registered", zap.String("worker_id", worker.ID))
	return worker, nil
}

// ValidateToken parses and verifies an access token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.ErrUnauthorized
	}
	if !claims.Role.Valid() {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) issueToken(user models.UserInfo) (string, time.Time, error) {
	now := time.Now().UTC()
	claims := models.JWTClaims{
		UserID:   user.ID,
		Role:     user.Role,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, now, nil
}

func loginLookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.ErrInvalidCredentials
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

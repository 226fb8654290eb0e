package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type userRepoStub struct {
	admins    map[string]*models.Admin
	customers map[string]*models.Customer
	workers   map[string]*models.Worker

	customerEmailTaken bool
	workerEmailTaken   bool
	createdCustomer    *models.Customer
	createdWorker      *models.Worker
}

func (s *userRepoStub) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if a, ok := s.admins[email]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if c, ok := s.customers[email]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindWorkerByEmail(ctx context.Context, email string) (*models.Worker, error) {
	if w, ok := s.workers[email]; ok {
		return w, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) CustomerEmailExists(ctx context.Context, email string) (bool, error) {
	return s.customerEmailTaken, nil
}

func (s *userRepoStub) WorkerEmailExists(ctx context.Context, email string) (bool, error) {
	return s.workerEmailTaken, nil
}

func (s *userRepoStub) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	customer.ID = "cust-new"
	s.createdCustomer = customer
	return nil
}

func (s *userRepoStub) CreateWorker(ctx context.Context, worker *models.Worker) error {
	worker.ID = "worker-new"
	s.createdWorker = worker
	return nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(repo *userRepoStub) *AuthService {
	return NewAuthService(repo, "test_secret", time.Hour, "service-booking-api", nil, zap.NewNop())
}

func TestLoginPerRoleTable(t *testing.T) {
	repo := &userRepoStub{
		admins: map[string]*models.Admin{
			"admin@example.com": {ID: "admin-1", Name: "Ada", Email: "admin@example.com", PasswordHash: hashFor(t, "secret1")},
		},
		customers: map[string]*models.Customer{
			"cust@example.com": {ID: "cust-1", Name: "Jordan", Email: "cust@example.com", PasswordHash: hashFor(t, "secret2")},
		},
		workers: map[string]*models.Worker{
			"worker@example.com": {ID: "worker-1", Name: "Sam", Email: "worker@example.com", PasswordHash: hashFor(t, "secret3")},
		},
	}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role: models.RoleAdmin, Email: "admin@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, res.User.Role)
	require.NotEmpty(t, res.AccessToken)

	// Same email would not be found in another role's table.
	_, err = svc.Login(context.Background(), models.LoginRequest{
		Role: models.RoleCustomer, Email: "admin@example.com", Password: "secret1",
	})
	requireAppError(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestLoginWrongPasswordIndistinguishableFromUnknownEmail(t *testing.T) {
	repo := &userRepoStub{
		customers: map[string]*models.Customer{
			"cust@example.com": {ID: "cust-1", Email: "cust@example.com", PasswordHash: hashFor(t, "right")},
		},
	}
	svc := newAuthService(repo)

	res1, err1 := svc.Login(context.Background(), models.LoginRequest{
		Role: models.RoleCustomer, Email: "cust@example.com", Password: "wrong",
	})
	res2, err2 := svc.Login(context.Background(), models.LoginRequest{
		Role: models.RoleCustomer, Email: "nobody@example.com", Password: "wrong",
	})
	require.Nil(t, res1)
	require.Nil(t, res2)
	require.Equal(t, appErrors.FromError(err1).Code, appErrors.FromError(err2).Code)
	require.Equal(t, appErrors.FromError(err1).Message, appErrors.FromError(err2).Message)
}

func TestLoginTokenRoundTrip(t *testing.T) {
	repo := &userRepoStub{
		workers: map[string]*models.Worker{
			"worker@example.com": {ID: "worker-1", Name: "Sam", Email: "worker@example.com", PasswordHash: hashFor(t, "secret")},
		},
	}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Role: models.RoleWorker, Email: "worker@example.com", Password: "secret",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "worker-1", claims.UserID)
	require.Equal(t, models.RoleWorker, claims.Role)

	identity := claims.Identity()
	require.Equal(t, "worker-1", identity.UserID)
	require.Equal(t, models.RoleWorker, identity.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&userRepoStub{})

	_, err := svc.ValidateToken("not-a-token")
	requireAppError(t, err, appErrors.ErrUnauthorized.Code)
}

func TestRegisterCustomerHashesPassword(t *testing.T) {
	repo := &userRepoStub{}
	svc := newAuthService(repo)

	customer, err := svc.RegisterCustomer(context.Background(), models.RegisterCustomerRequest{
		Name:     "Jordan",
		Email:    "new@example.com",
		Phone:    "5551234",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEqual(t, "secret123", customer.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte("secret123")))
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	repo := &userRepoStub{customerEmailTaken: true}
	svc := newAuthService(repo)

	_, err := svc.RegisterCustomer(context.Background(), models.RegisterCustomerRequest{
		Name:     "Jordan",
		Email:    "taken@example.com",
		Phone:    "5551234",
		Password: "secret123",
	})
	requireAppError(t, err, appErrors.ErrConflict.Code)
}

func TestRegisterWorkerDefaults(t *testing.T) {
	repo := &userRepoStub{}
	svc := newAuthService(repo)

	worker, err := svc.RegisterWorker(context.Background(), models.RegisterWorkerRequest{
		Name:      "Sam",
		Email:     "sam@example.com",
		Phone:     "5559876",
		Password:  "secret123",
		SkillType: "plumbing",
	})
	require.NoError(t, err)
	require.Equal(t, "worker-new", worker.ID)
	require.Zero(t, worker.Rating)
}

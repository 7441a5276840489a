package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/lastcall/sms-backend/internal/config"
	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
	"github.com/lastcall/sms-backend/internal/utils"
)

// ErrInvalidCredentials is returned for a bad email or password. The two
// cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles operator authentication for the dashboard
type AuthService struct {
	operatorRepo repositories.OperatorRepository
	cfg          *config.Config
}

// NewAuthService creates a new AuthService
func NewAuthService(operatorRepo repositories.OperatorRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		operatorRepo: operatorRepo,
		cfg:          cfg,
	}
}

// Login verifies an operator's credentials and returns a signed JWT plus
// the operator record.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Operator, error) {
	operator, err := s.operatorRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(operator.ID.Hex(), operator.Role, s.cfg)
	if err != nil {
		return "", nil, err
	}
	return token, operator, nil
}

// CreateOperator creates a dashboard login with a bcrypt-hashed password
func (s *AuthService) CreateOperator(ctx context.Context, name, email, password, role string) (*models.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}
	if role == "" {
		role = "viewer"
	}

	if _, err := s.operatorRepo.FindByEmail(ctx, email); err == nil {
		return nil, validationError("an operator with this email already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	operator := &models.Operator{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.operatorRepo.Create(ctx, operator); err != nil {
		return nil, err
	}
	return operator, nil
}

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
	"github.com/jhoicas/stock-billing-api/pkg/jwt"
	"github.com/jhoicas/stock-billing-api/pkg/validator"
)

// DefaultAdminUsername usuario administrador creado por EnsureDefaultAdmin.
const DefaultAdminUsername = "admin"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y usuario administrador inicial.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario USER: hashea password con bcrypt y persiste. Username repetido -> domain.ErrDuplicate.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	username := strings.TrimSpace(in.Username)
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el usuario %s ya existe", domain.ErrDuplicate, username)
	}
	fullName := in.FullName
	if fullName == "" {
		fullName = username
	}
	user, err := uc.create(ctx, username, in.Password, fullName, in.Email, entity.RoleUser)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica usuario/password, registra el último acceso y genera el JWT.
// Credenciales incorrectas -> domain.ErrUnauthorized; usuario inactivo -> domain.ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := uc.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		User:      *toUserResponse(user),
	}, nil
}

// EnsureDefaultAdmin crea el usuario admin si no existe. Es idempotente: created=false si ya estaba.
func (uc *AuthUseCase) EnsureDefaultAdmin(ctx context.Context, password string) (*dto.InitResponse, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password del administrador vacío", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByUsername(ctx, DefaultAdminUsername)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.InitResponse{Created: false, Username: DefaultAdminUsername}, nil
	}
	if _, err := uc.create(ctx, DefaultAdminUsername, password, "Administrator", "admin@localhost", entity.RoleAdmin); err != nil {
		return nil, err
	}
	return &dto.InitResponse{Created: true, Username: DefaultAdminUsername}, nil
}

func (uc *AuthUseCase) create(ctx context.Context, username, password, fullName, email, role string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Email:        email,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

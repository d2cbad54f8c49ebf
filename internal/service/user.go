package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/stockfeed/config"
	"github.com/d60-Lab/stockfeed/internal/model"
	"github.com/d60-Lab/stockfeed/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserService 注册登录
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	// Login 校验密码并签发 JWT
	Login(ctx context.Context, username, password string) (string, *model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
}

func NewUserService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) UserService {
	return &userService{userRepo: userRepo, jwtCfg: jwtCfg}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{ID: uuid.New().String(), Username: username, Email: email, Password: string(hash)}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.Expire)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

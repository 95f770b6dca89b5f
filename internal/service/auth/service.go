package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/bhagyaborus/socialsphere/internal/model"
)

const tokenLifetime = 24 * time.Hour

type Store interface {
	CreateUser(user *model.User) error
	GetUserByUsername(username string) (*model.User, error)
}

type service struct {
	store  Store
	secret []byte
}

func New(store Store, secret string) *service {
	return &service{store: store, secret: []byte(secret)}
}

func (s *service) Register(params *model.CreateUserParams) (*model.User, error) {
	if params.Username == "" || params.Password == "" {
		return nil, model.ErrorInvalidUsernameOrPassword
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(params.Password), 10)
	if err != nil {
		return nil, fmt.Errorf("generating encoded password: %w", err)
	}

	user := &model.User{
		ID:        model.UserID(model.CreateID()),
		Username:  params.Username,
		Password:  base64.StdEncoding.EncodeToString(passwordBytes),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and returns a signed session token.
func (s *service) Login(username, password string) (string, error) {
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, model.ErrorUserNotFound) {
			return "", model.ErrorInvalidUsernameOrPassword
		}
		return "", fmt.Errorf("fetching user: %w", err)
	}

	encoded, err := base64.StdEncoding.DecodeString(user.Password)
	if err != nil {
		return "", fmt.Errorf("decoding stored password: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(encoded, []byte(password)); err != nil {
		return "", model.ErrorInvalidUsernameOrPassword
	}

	claims := jwt.MapClaims{
		"sub": string(user.ID),
		"iat": time.Now().UTC().Unix(),
		"exp": time.Now().UTC().Add(tokenLifetime).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify parses a session token and returns the user id it was issued to.
func (s *service) Verify(tokenString string) (model.UserID, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", model.ErrorInvalidUsernameOrPassword
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", model.ErrorInvalidUsernameOrPassword
	}

	return model.UserID(sub), nil
}

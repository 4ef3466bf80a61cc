package service

import (
	"strings"

	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(email domain.Email, username domain.Username, password domain.Password) (domain.UserView, error)
	Login(email domain.Email, password domain.Password) (string, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email domain.Email) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) AuthService {
	return &Auth{storage, jwt}
}

func (a *Auth) Register(email domain.Email, username domain.Username, password domain.Password) (domain.UserView, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return domain.UserView{}, errors.New(errors.Validation, "email, username and password are required")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserView{}, err
	}

	user := domain.User{Email: email, Username: username, PassHash: string(passHash)}
	id, err := a.storage.SaveUser(user)
	if err != nil {
		return domain.UserView{}, err
	}
	user.Id = id
	return user.View(), nil
}

func (a *Auth) Login(email domain.Email, password domain.Password) (string, error) {
	user, err := a.storage.UserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.New(errors.Unauthorized, "wrong email or password")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return "", errors.New(errors.Unauthorized, "wrong email or password")
	}

	return a.jwt.NewToken(user)
}

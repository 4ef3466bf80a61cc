package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pinstack-dev/pinstack/internal/domain"
	"github.com/pinstack-dev/pinstack/internal/errors"
)

// Claims carried in an access token; enough to authenticate requests
// without a user lookup on every call.
type Claims struct {
	UserId   domain.UserId
	Username domain.Username
	Admin    bool
}

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*Claims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"uid":      user.Id,
		"username": user.Username,
		"admin":    user.Admin,
		"exp":      time.Now().Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", errors.Wrap(errors.Unknown, "can't create token", err)
	}
	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*Claims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Newf(errors.Unauthorized, "unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.Unauthorized, "invalid token signature", err)
	}
	if !token.Valid {
		return nil, errors.New(errors.Unauthorized, "invalid access token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New(errors.Unauthorized, "invalid token claims")
	}

	uid, ok := mapClaims["uid"].(float64)
	if !ok {
		return nil, errors.New(errors.Unauthorized, "token missing user id")
	}
	username, _ := mapClaims["username"].(string)
	admin, _ := mapClaims["admin"].(bool)

	return &Claims{UserId: domain.UserId(uid), Username: username, Admin: admin}, nil
}

package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/havenhouse/hms/internal/model"
)

// StaffClaims is what the staff session token carries.
type StaffClaims struct {
	StaffID   string
	Email     string
	Role      string
	FirstName string
	LastName  string
}

type TokenService interface {
	GenerateStaffToken(user *model.StaffUser) (string, error)
	ValidateStaffToken(tokenStr string) (*StaffClaims, error)
	GenerateResidentToken(res *model.Resident) (string, error)
	ValidateResidentToken(tokenStr string) (string, error)
}

type jwtService struct {
	secret     string
	expiryTime time.Duration
}

func NewJWTService(secret string, expiry time.Duration) TokenService {
	return &jwtService{secret: secret, expiryTime: expiry}
}

func (s *jwtService) GenerateStaffToken(user *model.StaffUser) (string, error) {
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"email":      user.Email,
		"role":       user.Role,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"kind":       "staff",
		"exp":        time.Now().Add(s.expiryTime).Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *jwtService) ValidateStaffToken(tokenStr string) (*StaffClaims, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if kind, _ := claims["kind"].(string); kind != "staff" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}
	sc := &StaffClaims{StaffID: sub}
	sc.Email, _ = claims["email"].(string)
	sc.Role, _ = claims["role"].(string)
	sc.FirstName, _ = claims["first_name"].(string)
	sc.LastName, _ = claims["last_name"].(string)
	return sc, nil
}

func (s *jwtService) GenerateResidentToken(res *model.Resident) (string, error) {
	claims := jwt.MapClaims{
		"sub":  res.ID,
		"kind": "resident",
		"exp":  time.Now().Add(s.expiryTime).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *jwtService) ValidateResidentToken(tokenStr string) (string, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return "", err
	}
	if kind, _ := claims["kind"].(string); kind != "resident" {
		return "", jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", jwt.ErrTokenMalformed
	}
	return sub, nil
}

func (s *jwtService) parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = jwt.ErrTokenMalformed
		}
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}
	return claims, nil
}

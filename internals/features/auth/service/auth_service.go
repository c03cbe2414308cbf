package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/features/auth/model"
	authHelper "schooladmin_backend/internals/helpers/auth"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("Invalid email or password")

var (
	ErrMissingToken = errors.New("Unauthorized - No token provided")
	ErrInvalidToken = errors.New("Unauthorized - Invalid token")
	ErrRevoked      = errors.New("Unauthorized - Token is blacklisted")
)

type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	LoginAt int64  `json:"ts"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Store     docstore.Store
	Blacklist authHelper.Blacklist
	Secret    string
	TTL       time.Duration
	now       func() time.Time
}

func NewAuthService(store docstore.Store, bl authHelper.Blacklist, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{Store: store, Blacklist: bl, Secret: secret, TTL: ttl, now: time.Now}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func passwordMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// Login checks email and password against the admin collection.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.Admin, error) {
	normalized := NormalizeEmail(email)
	docs, err := s.Store.Query(ctx, model.AdminCollection, "email", normalized)
	if err != nil {
		return model.Admin{}, pkgerrors.Wrap(err, "admin lookup")
	}
	if len(docs) == 0 {
		log.Printf("[INFO] login: no admin for %q", normalized)
		return model.Admin{}, ErrInvalidCredentials
	}

	for _, d := range docs {
		stored, _ := d.Data["password"].(string)
		if stored == "" || !passwordMatches(stored, password) {
			continue
		}
		name, _ := d.Data["name"].(string)
		if strings.TrimSpace(name) == "" {
			name = model.DefaultAdminName
		}
		return model.Admin{Email: normalized, Name: name, LoginAt: s.now().UTC()}, nil
	}
	return model.Admin{}, ErrInvalidCredentials
}

// Issue signs a session token for a.
func (s *AuthService) Issue(a model.Admin) (string, time.Time, error) {
	if s.Secret == "" {
		return "", time.Time{}, errors.New("JWT_SECRET is not configured")
	}
	now := s.now().UTC()
	exp := now.Add(s.TTL)
	claims := Claims{
		Email:   a.Email,
		Name:    a.Name,
		LoginAt: a.LoginAt.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, pkgerrors.Wrap(err, "sign session")
	}
	return token, exp, nil
}

func (s *AuthService) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify restores the session from raw, rejecting expired and logged-out
// tokens.
func (s *AuthService) Verify(ctx context.Context, raw string) (model.Admin, error) {
	if strings.TrimSpace(raw) == "" {
		return model.Admin{}, ErrMissingToken
	}
	claims, err := s.parse(raw)
	if err != nil {
		return model.Admin{}, err
	}
	if s.Blacklist != nil {
		revoked, err := s.Blacklist.IsBlacklisted(ctx, raw)
		if err != nil {
			return model.Admin{}, err
		}
		if revoked {
			return model.Admin{}, ErrRevoked
		}
	}
	return model.Admin{
		Email:   claims.Email,
		Name:    claims.Name,
		LoginAt: time.Unix(claims.LoginAt, 0).UTC(),
	}, nil
}

// Logout blacklists raw until it would have expired anyway. It returns the
// email the token belonged to, or "" when the token was unusable.
func (s *AuthService) Logout(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	claims, err := s.parse(raw)
	if err != nil {
		return "", nil
	}
	exp := s.now().Add(s.TTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time.Add(time.Minute)
	}
	if s.Blacklist != nil {
		if err := s.Blacklist.Add(ctx, raw, exp); err != nil {
			return claims.Email, err
		}
	}
	return claims.Email, nil
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", pkgerrors.Wrap(err, "hash password")
	}
	return string(h), nil
}

// UpsertAdmin creates the operator or resets the password and name of an
// existing one.
func (s *AuthService) UpsertAdmin(ctx context.Context, email, name, password string) (string, bool, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" || password == "" {
		return "", false, errors.New("email and password are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(name) == "" {
		name = model.DefaultAdminName
	}
	data := map[string]any{"email": normalized, "password": hash, "name": name}

	docs, err := s.Store.Query(ctx, model.AdminCollection, "email", normalized)
	if err != nil {
		return "", false, pkgerrors.Wrap(err, "admin lookup")
	}
	if len(docs) > 0 {
		if err := s.Store.Set(ctx, model.AdminCollection, docs[0].ID, data); err != nil {
			return "", false, err
		}
		return docs[0].ID, false, nil
	}
	id, err := s.Store.Add(ctx, model.AdminCollection, data)
	return id, true, err
}

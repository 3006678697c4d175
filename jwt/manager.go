package jwt

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod defines a public type used by grcAuth APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodHS256 is an exported constant or variable used by the authentication engine.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 is an exported constant or variable used by the authentication engine.
	MethodEd25519 SigningMethod = "ed25519"
)

var (
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is an exported constant or variable used by the authentication engine.
	ErrTokenExpired = errors.New("token expired")
)

// Config defines a public type used by grcAuth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

// Manager defines a public type used by grcAuth APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config Config

	edPrivate ed25519.PrivateKey
	edPublic  ed25519.PublicKey
}

// Token type discriminators. Carried in the typ claim so the two token
// kinds never validate as each other.
const (
	tokenTypeSession = "session"
	tokenTypeRefresh = "refresh"
)

// SessionClaims defines a public type used by grcAuth APIs.
//
// SessionClaims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionClaims struct {
	UID       string `json:"uid"`
	Name      string `json:"name,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// RefreshClaims defines a public type used by grcAuth APIs.
//
// RefreshClaims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshClaims struct {
	UID       string `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// NewManager describes the newmanager operation and its observable behavior.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}

	m := &Manager{config: cfg}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		priv, err := parseEdPrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		pub, err := parseEdPublicKey(cfg.PublicKey)
		if err != nil {
			return nil, err
		}
		m.edPrivate = priv
		m.edPublic = pub
	default:
		return nil, errors.New("unsupported signing method")
	}

	return m, nil
}

// CreateSession issues a short-lived access token carrying the subject id
// and display name.
func (j *Manager) CreateSession(uid, name string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UID:       uid,
		Name:      name,
		TokenType: tokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.config.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
		},
	}

	return j.sign(jwt.NewWithClaims(j.method(), claims))
}

// CreateRefresh issues a longer-lived refresh token carrying the subject id
// only.
func (j *Manager) CreateRefresh(uid string) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UID:       uid,
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.config.RefreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.config.Issuer,
		},
	}

	return j.sign(jwt.NewWithClaims(j.method(), claims))
}

// ParseSession describes the parsesession operation and its observable behavior.
//
// ParseSession may return an error when input validation, dependency calls, or security checks fail.
// ParseSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (j *Manager) ParseSession(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := j.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.UID == "" || claims.TokenType != tokenTypeSession {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseRefresh describes the parserefresh operation and its observable behavior.
//
// ParseRefresh may return an error when input validation, dependency calls, or security checks fail.
// ParseRefresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (j *Manager) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := j.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.UID == "" || claims.TokenType != tokenTypeRefresh {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (j *Manager) parse(tokenStr string, claims jwt.Claims) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{j.method().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if j.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(j.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, claims, j.verifyKey, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}

	return nil
}

func (j *Manager) method() jwt.SigningMethod {
	if j.config.SigningMethod == MethodEd25519 {
		return jwt.SigningMethodEdDSA
	}
	return jwt.SigningMethodHS256
}

func (j *Manager) sign(token *jwt.Token) (string, error) {
	if j.config.SigningMethod == MethodEd25519 {
		return token.SignedString(j.edPrivate)
	}
	return token.SignedString(j.config.PrivateKey)
}

func (j *Manager) verifyKey(token *jwt.Token) (interface{}, error) {
	if j.config.SigningMethod == MethodEd25519 {
		return j.edPublic, nil
	}
	return j.config.PrivateKey, nil
}

func parseEdPrivateKey(raw []byte) (ed25519.PrivateKey, error) {
	if len(raw) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(raw), nil
	}
	if block, _ := pem.Decode(raw); block != nil {
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		priv, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, errors.New("not an ed25519 private key")
		}
		return priv, nil
	}
	return nil, errors.New("invalid ed25519 private key")
}

func parseEdPublicKey(raw []byte) (ed25519.PublicKey, error) {
	if len(raw) == ed25519.PublicKeySize {
		return ed25519.PublicKey(raw), nil
	}
	if block, _ := pem.Decode(raw); block != nil {
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		pub, ok := key.(ed25519.PublicKey)
		if !ok {
			return nil, errors.New("not an ed25519 public key")
		}
		return pub, nil
	}
	return nil, errors.New("invalid ed25519 public key")
}

package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the token signature algorithm.
type SigningMethod string

const (
	// MethodEd25519 signs with Ed25519 (default).
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs with HMAC-SHA256.
	MethodHS256 SigningMethod = "hs256"
)

var (
	// ErrTokenInvalid is returned for any token that fails parsing,
	// signature, or claim validation.
	ErrTokenInvalid = errors.New("invalid attestation token")
)

// Config holds the signer configuration. PrivateKey is required; for
// Ed25519, PublicKey may be supplied separately for verify-only managers.
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// Manager signs and verifies attestation tokens. Safe for concurrent use.
type Manager struct {
	config Config

	edPrivate ed25519.PrivateKey
	edPublic  ed25519.PublicKey
}

// AttestClaims is the claim set of a permission attestation. Perm carries
// the raw bitmask as a decimal string, mirroring how the external protocol
// serializes permission integers.
type AttestClaims struct {
	UID  string `json:"uid"`
	GID  string `json:"gid"`
	CID  string `json:"cid,omitempty"`
	Perm string `json:"perm"`
	jwt.RegisteredClaims
}

// NewManager validates the configuration and builds a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	m := &Manager{config: cfg}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		private, err := parseEdPrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		m.edPrivate = private
		if len(cfg.PublicKey) > 0 {
			public, err := parseEdPublicKey(cfg.PublicKey)
			if err != nil {
				return nil, err
			}
			m.edPublic = public
		} else {
			m.edPublic = private.Public().(ed25519.PublicKey)
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return m, nil
}

// Create signs an attestation for the given subject and raw permission
// value. cid may be empty for guild-level attestations.
func (m *Manager) Create(uid, gid, cid, perm string) (string, error) {
	now := time.Now()

	claims := AttestClaims{
		UID:  uid,
		GID:  gid,
		CID:  cid,
		Perm: perm,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}

	switch m.config.SigningMethod {
	case MethodHS256:
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		return token.SignedString(m.config.PrivateKey)
	case MethodEd25519:
		token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
		return token.SignedString(m.edPrivate)
	default:
		return "", errors.New("unsupported signing method")
	}
}

// Parse verifies signature, algorithm, issuer, and lifetime, and returns the
// claims. Every failure collapses into [ErrTokenInvalid].
func (m *Manager) Parse(tokenString string) (*AttestClaims, error) {
	claims := &AttestClaims{}

	options := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.config.Leeway),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	switch m.config.SigningMethod {
	case MethodHS256:
		options = append(options, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	case MethodEd25519:
		options = append(options, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc, options...)
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.UID == "" || claims.GID == "" || claims.Perm == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (m *Manager) keyFunc(*jwt.Token) (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return []byte(m.config.PrivateKey), nil
	case MethodEd25519:
		return m.edPublic, nil
	default:
		return nil, errors.New("unsupported signing method")
	}
}

func parseEdPrivateKey(raw []byte) (ed25519.PrivateKey, error) {
	switch len(raw) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	default:
		return nil, fmt.Errorf("invalid ed25519 private key length %d", len(raw))
	}
}

func parseEdPublicKey(raw []byte) (ed25519.PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid ed25519 public key length %d", len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

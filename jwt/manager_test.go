package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"
)

func newEdManager(t *testing.T, cfg Config) *Manager {
	t.Helper()

	if len(cfg.PrivateKey) == 0 {
		_, private, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			t.Fatalf("ed25519.GenerateKey failed: %v", err)
		}
		cfg.PrivateKey = private
	}
	if cfg.TTL == 0 {
		cfg.TTL = time.Minute
	}
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodEd25519
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestCreateParseRoundTrip(t *testing.T) {
	m := newEdManager(t, Config{Issuer: "guildperm"})

	token, err := m.Create("u1", "g1", "c1", "1049600")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UID != "u1" || claims.GID != "g1" || claims.CID != "c1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Perm != "1049600" {
		t.Fatalf("Perm = %q", claims.Perm)
	}
	if claims.Subject != "u1" || claims.Issuer != "guildperm" {
		t.Fatalf("registered claims: sub=%q iss=%q", claims.Subject, claims.Issuer)
	}
}

func TestParseGuildLevelToken(t *testing.T) {
	m := newEdManager(t, Config{})

	token, err := m.Create("u1", "g1", "", "7")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.CID != "" {
		t.Fatalf("CID = %q, want empty", claims.CID)
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := newEdManager(t, Config{TTL: time.Nanosecond})

	token, err := m.Create("u1", "g1", "", "7")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := m.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseWrongKey(t *testing.T) {
	a := newEdManager(t, Config{})
	b := newEdManager(t, Config{})

	token, err := a.Create("u1", "g1", "", "7")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := b.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseWrongIssuer(t *testing.T) {
	_, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519.GenerateKey failed: %v", err)
	}

	issuer := newEdManager(t, Config{PrivateKey: private, Issuer: "svc-a"})
	verifier := newEdManager(t, Config{PrivateKey: private, Issuer: "svc-b"})

	token, err := issuer.Create("u1", "g1", "", "7")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for issuer mismatch, got %v", err)
	}
}

func TestHS256RoundTrip(t *testing.T) {
	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("shared-secret"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := m.Create("u1", "g1", "c1", "7")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UID != "u1" {
		t.Fatalf("UID = %q", claims.UID)
	}
}

func TestCrossAlgorithmRejected(t *testing.T) {
	hmac, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("shared-secret"),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	ed := newEdManager(t, Config{})

	token, err := hmac.Create("u1", "g1", "", "7")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := ed.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for algorithm mismatch, got %v", err)
	}
}

func TestSeedSizedPrivateKey(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}

	m := newEdManager(t, Config{PrivateKey: seed})
	token, err := m.Create("u1", "g1", "", "7")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Parse(token); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
}

func TestNewManagerValidation(t *testing.T) {
	_, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("ed25519.GenerateKey failed: %v", err)
	}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero TTL", Config{SigningMethod: MethodEd25519, PrivateKey: private}},
		{"negative leeway", Config{TTL: time.Minute, Leeway: -time.Second, SigningMethod: MethodEd25519, PrivateKey: private}},
		{"excessive leeway", Config{TTL: time.Minute, Leeway: time.Hour, SigningMethod: MethodEd25519, PrivateKey: private}},
		{"unknown method", Config{TTL: time.Minute, SigningMethod: "none", PrivateKey: private}},
		{"bad ed25519 key length", Config{TTL: time.Minute, SigningMethod: MethodEd25519, PrivateKey: []byte("short")}},
		{"hs256 without key", Config{TTL: time.Minute, SigningMethod: MethodHS256}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

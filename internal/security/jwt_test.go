package security

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"jobdesk/internal/common"
)

func TestGenerateAndParse(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	userID := common.NewUUID()

	token, expiresAt, err := provider.Generate(userID, "employer", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := provider.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Sub != userID.String() {
		t.Fatalf("expected sub %s, got %s", userID, claims.Sub)
	}
	if claims.Role != "employer" {
		t.Fatalf("expected role employer, got %s", claims.Role)
	}
	if claims.Exp != expiresAt.Unix() {
		t.Fatalf("expected exp %d, got %d", expiresAt.Unix(), claims.Exp)
	}
}

func TestParseExpired(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	token, _, err := provider.Generate(common.NewUUID(), "seeker", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := provider.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseMalformed(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"two segments", "aaaa.bbbb"},
		{"four segments", "a.b.c.d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := provider.Parse(tc.token); !errors.Is(err, ErrTokenMalformed) {
				t.Fatalf("expected ErrTokenMalformed, got %v", err)
			}
		})
	}
}

func TestParseMissingSubject(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payloadJSON, _ := json.Marshal(Claims{Exp: time.Now().Add(time.Hour).Unix()})
	payload := base64.RawURLEncoding.EncodeToString(payloadJSON)
	input := header + "." + payload
	token := input + "." + signHS256(input, []byte("test-secret"))

	if _, err := provider.Parse(token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for empty sub, got %v", err)
	}
}

func TestParseWrongSignature(t *testing.T) {
	issuer := NewJWTProvider("issuer-secret")
	verifier := NewJWTProvider("other-secret")

	token, _, err := issuer.Generate(common.NewUUID(), "seeker", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestParseTamperedPayload(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	token, _, err := provider.Generate(common.NewUUID(), "seeker", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	parts := strings.Split(token, ".")
	forged, _ := json.Marshal(Claims{Sub: common.NewUUID().String(), Role: "admin", Exp: time.Now().Add(time.Hour).Unix()})
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)
	if _, err := provider.Parse(strings.Join(parts, ".")); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

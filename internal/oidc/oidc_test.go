package oidc

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"testing"
	"time"

	"github.com/doclab/doclab/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://id.lab.example/realms/doclab"

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestStaticVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := NewStaticVerifier(testIssuer, "doclab-web", key.Public())
	ctx := context.Background()

	raw := signRS256(t, key, jwt.MapClaims{
		"iss":  testIssuer,
		"aud":  "doclab-web",
		"sub":  "u-1",
		"name": "Козлова Е.А.",
		"exp":  time.Now().Add(time.Minute).Unix(),
		"iat":  time.Now().Unix(),
	})
	tok, err := v.Verify(ctx, raw)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "Козлова Е.А.", middleware.DisplayName(claims))

	wrongAud := signRS256(t, key, jwt.MapClaims{"iss": testIssuer, "aud": "other", "sub": "u-1", "exp": time.Now().Add(time.Minute).Unix()})
	_, err = v.Verify(ctx, wrongAud)
	require.Error(t, err)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	forged := signRS256(t, other, jwt.MapClaims{"iss": testIssuer, "aud": "doclab-web", "sub": "u-1", "exp": time.Now().Add(time.Minute).Unix()})
	_, err = v.Verify(ctx, forged)
	require.Error(t, err)
}

func TestInsecureVerifier(t *testing.T) {
	v := NewInsecureVerifier()
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-2","preferred_username":"sidorov"}`))
	tok, err := v.Verify(context.Background(), "e30."+payload+".sig")
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "sidorov", middleware.DisplayName(claims))

	_, err = v.Verify(context.Background(), "garbage")
	require.Error(t, err)

	expired := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-2","exp":1000}`))
	_, err = v.Verify(context.Background(), "e30."+expired+".sig")
	require.ErrorContains(t, err, "expired")

	anonymous := base64.RawURLEncoding.EncodeToString([]byte(`{"name":"x"}`))
	_, err = v.Verify(context.Background(), "e30."+anonymous+".sig")
	require.ErrorContains(t, err, "subject")

	v.now = func() time.Time { return time.Unix(500, 0) }
	early := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-2","nbf":600,"exp":1000}`))
	_, err = v.Verify(context.Background(), "e30."+early+".sig")
	require.ErrorContains(t, err, "not valid yet")
}

package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_IssueAndValidate(t *testing.T) {
	signer, err := NewSigner(GenerateSecureSecret())
	require.NoError(t, err)

	token, err := signer.Issue("operator", true, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."), "JWT состоит из трёх частей")

	claims, err := signer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.True(t, claims.IsAdmin, "флаг администратора должен сохраниться")
}

func TestSigner_RejectsForeignToken(t *testing.T) {
	a, err := NewSigner("")
	require.NoError(t, err)
	b, err := NewSigner("")
	require.NoError(t, err)

	token, err := a.Issue("operator", false, time.Hour)
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "чужая подпись не должна проходить")
}

func TestSigner_RejectsExpiredToken(t *testing.T) {
	signer, err := NewSigner("")
	require.NoError(t, err)

	token, err := signer.Issue("operator", true, -time.Minute)
	require.NoError(t, err)

	_, err = signer.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "просроченный токен недействителен")
}

func TestSigner_RejectsGarbage(t *testing.T) {
	signer, err := NewSigner("")
	require.NoError(t, err)

	_, err = signer.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSigner_SecretValidation(t *testing.T) {
	_, err := NewSigner("@@@не-base64@@@")
	assert.Error(t, err, "строка не в base64 должна отклоняться")

	short := base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = NewSigner(short)
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestGenerateSecureSecret(t *testing.T) {
	s1 := GenerateSecureSecret()
	s2 := GenerateSecureSecret()
	assert.NotEqual(t, s1, s2, "секреты должны различаться")

	decoded, err := base64.StdEncoding.DecodeString(s1)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)
}

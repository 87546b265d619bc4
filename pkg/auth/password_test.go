package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, password := range []string{"pw123", "", "correct horse battery staple", "пароль", strings.Repeat("x", 200)} {
		hash, err := HashPassword(password)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(hash, "$pbkdf2-sha256$29000$"), hash)
		assert.True(t, CheckPassword(password, hash), password)
		assert.False(t, CheckPassword(password+"!", hash), password)
	}
}

func TestHashPassword_UsesRandomSalt(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("pw123")
	require.NoError(t, err)
	second, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("pw123", first))
	assert.True(t, CheckPassword("pw123", second))
}

func TestCheckPassword_KnownHash(t *testing.T) {
	t.Parallel()

	// salt 0x00..0x0f, 29000 rounds, as written by passlib's pbkdf2_sha256
	hash := "$pbkdf2-sha256$29000$AAECAwQFBgcICQoLDA0ODw$JWyJKM1fMz/nLXeOOcU17Xd90mgeYFyl5YES52lgG9E"

	assert.True(t, CheckPassword("pw123", hash))
	assert.False(t, CheckPassword("pw124", hash))
}

func TestCheckPassword_DifferentIterationCount(t *testing.T) {
	t.Parallel()

	hash := encodeHash("pw123", []byte("0123456789abcdef"), 1000)
	assert.True(t, strings.HasPrefix(hash, "$pbkdf2-sha256$1000$"))
	assert.True(t, CheckPassword("pw123", hash))
}

func TestCheckPassword_MalformedHashes(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not-a-hash",
		"$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW",
		"$pbkdf2-sha256$29000$AAECAwQFBgcICQoLDA0ODw",
		"$pbkdf2-sha256$abc$AAECAwQFBgcICQoLDA0ODw$JWyJKM1fMz/nLXeOOcU17Xd90mgeYFyl5YES52lgG9E",
		"$pbkdf2-sha256$0$AAECAwQFBgcICQoLDA0ODw$JWyJKM1fMz/nLXeOOcU17Xd90mgeYFyl5YES52lgG9E",
		"$pbkdf2-sha256$999999999$AAECAwQFBgcICQoLDA0ODw$JWyJKM1fMz/nLXeOOcU17Xd90mgeYFyl5YES52lgG9E",
		"$pbkdf2-sha256$29000$!!!$JWyJKM1fMz/nLXeOOcU17Xd90mgeYFyl5YES52lgG9E",
		"$pbkdf2-sha256$29000$AAECAwQFBgcICQoLDA0ODw$",
		"$pbkdf2-sha512$29000$AAECAwQFBgcICQoLDA0ODw$JWyJKM1fMz/nLXeOOcU17Xd90mgeYFyl5YES52lgG9E",
		"x$pbkdf2-sha256$29000$AAECAwQFBgcICQoLDA0ODw$JWyJKM1fMz/nLXeOOcU17Xd90mgeYFyl5YES52lgG9E",
	}

	for _, hash := range cases {
		assert.NotPanics(t, func() {
			assert.False(t, CheckPassword("pw123", hash), hash)
		})
	}
}

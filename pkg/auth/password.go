package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// PasswordIterations is the PBKDF2 round count for new hashes. Existing
	// hashes carry their own count, so raising this doesn't break them.
	PasswordIterations = 29000

	passwordScheme  = "pbkdf2-sha256"
	saltLength      = 16
	checksumLength  = sha256.Size
	maxIterations   = 10_000_000
	hashFieldsCount = 5
)

// Same alphabet as standard base64 with "." in place of "+", unpadded. This is
// the format other PBKDF2 implementations (passlib) write, so their hashes
// verify here as-is.
var hashEncoding = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789./").WithPadding(base64.NoPadding)

// HashPassword hashes a password with PBKDF2-HMAC-SHA256 and a random salt.
// The result looks like $pbkdf2-sha256$<iterations>$<salt>$<checksum>.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.WithStack(err)
	}
	return encodeHash(password, salt, PasswordIterations), nil
}

// CheckPassword reports whether password matches hash. A malformed hash is
// simply a mismatch.
func CheckPassword(password, hash string) bool {
	iterations, salt, checksum, ok := decodeHash(hash)
	if !ok {
		return false
	}
	candidate := pbkdf2.Key([]byte(password), salt, iterations, len(checksum), sha256.New)
	return subtle.ConstantTimeCompare(candidate, checksum) == 1
}

func encodeHash(password string, salt []byte, iterations int) string {
	checksum := pbkdf2.Key([]byte(password), salt, iterations, checksumLength, sha256.New)
	return "$" + passwordScheme +
		"$" + strconv.Itoa(iterations) +
		"$" + hashEncoding.EncodeToString(salt) +
		"$" + hashEncoding.EncodeToString(checksum)
}

func decodeHash(hash string) (iterations int, salt, checksum []byte, ok bool) {
	parts := strings.Split(hash, "$")
	if len(parts) != hashFieldsCount || parts[0] != "" || parts[1] != passwordScheme {
		return 0, nil, nil, false
	}

	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations < 1 || iterations > maxIterations {
		return 0, nil, nil, false
	}
	salt, err = hashEncoding.DecodeString(parts[3])
	if err != nil || len(salt) == 0 {
		return 0, nil, nil, false
	}
	checksum, err = hashEncoding.DecodeString(parts[4])
	if err != nil || len(checksum) == 0 {
		return 0, nil, nil, false
	}

	return iterations, salt, checksum, true
}

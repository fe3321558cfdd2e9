package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"os"
	"regexp"
	"strings"
)

const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var nonAlnum = regexp.MustCompile(`[^A-Z0-9]`)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

// GenerateSecureToken returns a hex token of length bytes.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateReferenceCode builds a staff-facing booking reference like "RSV-7KQ2-M9XD".
// crypto/rand + rand.Int keeps the charset free of modulo bias.
func GenerateReferenceCode() (string, error) {
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < 8; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[num.Int64()])
	}
	raw := sb.String()
	return "RSV-" + raw[:4] + "-" + raw[4:], nil
}

// NormalizeReferenceCode uppercases and strips separators so "rsv 7kq2m9xd"
// and "RSV-7KQ2-M9XD" compare equal.
func NormalizeReferenceCode(code string) string {
	s := strings.ToUpper(strings.TrimSpace(code))
	return nonAlnum.ReplaceAllString(s, "")
}

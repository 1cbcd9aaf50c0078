package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// License key layout: LicenseKeyGroups groups of LicenseKeyGroupSize
// characters drawn from LicenseKeyAlphabet, joined by '-'. 12 symbols over a
// 36 character alphabet gives ~62 bits of entropy.
const (
	LicenseKeyAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	LicenseKeyGroups    = 3
	LicenseKeyGroupSize = 4
	licenseKeySeparator = '-'
)

var alphabetSize = big.NewInt(int64(len(LicenseKeyAlphabet)))

// GenerateLicenseKey returns a fresh key such as "7QK2-M9XA-PL3D" using
// crypto/rand. Uniqueness is the store's job; callers retry on collision.
func GenerateLicenseKey() (string, error) {
	var b strings.Builder
	b.Grow(LicenseKeyGroups*LicenseKeyGroupSize + LicenseKeyGroups - 1)

	for g := range LicenseKeyGroups {
		if g > 0 {
			b.WriteByte(licenseKeySeparator)
		}
		for range LicenseKeyGroupSize {
			n, err := rand.Int(rand.Reader, alphabetSize)
			if err != nil {
				return "", fmt.Errorf("failed to generate license key: %w", err)
			}
			b.WriteByte(LicenseKeyAlphabet[n.Int64()])
		}
	}

	return b.String(), nil
}

// NormalizeLicenseKey trims whitespace and upper-cases a user supplied key so
// "  abcd-efgh-ijkl " matches the stored "ABCD-EFGH-IJKL".
func NormalizeLicenseKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// IsLicenseKeyFormat reports whether key has the canonical group layout.
func IsLicenseKeyFormat(key string) bool {
	groups := strings.Split(key, string(licenseKeySeparator))
	if len(groups) != LicenseKeyGroups {
		return false
	}
	for _, g := range groups {
		if len(g) != LicenseKeyGroupSize {
			return false
		}
		for i := range len(g) {
			if !strings.ContainsRune(LicenseKeyAlphabet, rune(g[i])) {
				return false
			}
		}
	}
	return true
}

package utils

import (
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor, resolved once. BCRYPT_COST overrides
// the library default; values outside bcrypt's supported range fall back.
var hashCost = func() int {
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			return n
		}
	}
	return bcrypt.DefaultCost
}()

func HashPassword(s string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(s), hashCost)
}

func ComparePassword(hashed string, normal string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(normal))
}

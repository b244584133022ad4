package utils

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(string(hashed), "s3cret"); err != nil {
		t.Errorf("expected matching password to verify: %v", err)
	}
	if err := ComparePassword(string(hashed), "wrong"); err == nil {
		t.Error("expected mismatched password to fail")
	}
}

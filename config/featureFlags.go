package config

import (
	"os"
	"strings"
)

// StrictBatchImmutability enables integrity guardrails:
// completed production batches cannot be edited; they must be cancelled and recreated.
//
// Set via env:
// - STRICT_BATCH_IMMUTABLE=true
func StrictBatchImmutability() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_BATCH_IMMUTABLE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// PriceLookupCacheEnabled enables Redis caching of supplier-item price maps
// used by recipe and batch costing. Safe to disable; costing falls back to
// direct DB reads.
//
// Set via env:
// - PRICE_LOOKUP_CACHE=true
func PriceLookupCacheEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("PRICE_LOOKUP_CACHE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

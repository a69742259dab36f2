package ports

import "context"

// PostalCodeChecker verifies that a postal code belongs to a city.
type PostalCodeChecker interface {
	// Check reports whether codePostal and ville match. An error means the
	// answer is unknown; callers decide how to degrade.
	Check(ctx context.Context, codePostal, ville string) (bool, error)
}

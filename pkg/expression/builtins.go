package expression

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// helperUUID generates a UUID string, v4 by default.
// Usage in expressions: uuid() or uuid("v7")
func helperUUID(args ...string) (string, error) {
	version := "v4"
	if len(args) > 0 {
		version = args[0]
	}
	switch version {
	case "v4":
		return uuid.New().String(), nil
	case "v7":
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("uuid: failed to generate v7: %w", err)
		}
		return id.String(), nil
	default:
		return "", fmt.Errorf("uuid: unsupported version %q, use \"v4\" or \"v7\"", version)
	}
}

// helperULID generates a ULID string.
// Usage in expressions: ulid()
func helperULID() string {
	return ulid.Make().String()
}

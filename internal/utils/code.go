package utils

import (
    "strings"

    "github.com/google/uuid"
)

// NewRedemptionCode mints the opaque code shown to a user as proof of a
// reward redemption. Codes look like "ECO-5F3A2B1C9D" and are unique per
// redemption.
func NewRedemptionCode() string {
    id := uuid.New()
    hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
    return "ECO-" + hex[:10]
}

package utils

import (
    "errors"
    "strings"

    "github.com/ecocollect/platform/internal/model"
)

// ErrAdminRestricted is returned when a signup requests the admin role.
// Admin accounts are provisioned out-of-band, never through self-service
// registration.
var ErrAdminRestricted = errors.New("Admin registration is restricted. Please contact system owner.")

// NormalizeRole applies the signup role policy: requesting "admin" is a hard
// error, any role outside the whitelist {citizen, collector} silently
// becomes citizen, and an empty role defaults to citizen.
func NormalizeRole(requested string) (string, error) {
    role := strings.ToLower(strings.TrimSpace(requested))
    if role == "" {
        return model.RoleCitizen, nil
    }
    if role == model.RoleAdmin {
        return "", ErrAdminRestricted
    }
    if role != model.RoleCitizen && role != model.RoleCollector {
        role = model.RoleCitizen
    }
    return role, nil
}

package model

import "time"

// Role names stored in users.role and embedded in session tokens. Roles are
// assigned once at registration; there is no self-service way to change them
// afterwards, and "admin" can never be requested at signup.
const (
    RoleCitizen   = "citizen"
    RoleCollector = "collector"
    RoleAdmin     = "admin"
)

// User represents an account record as stored in the `users` table. The
// password is kept only as a bcrypt hash and must never leave the repository
// layer in API responses. Points are a non-negative balance mutated only
// through atomic SQL increments/decrements.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name shown in dashboards and notifications.
//  Email          – unique, lower-cased email address.
//  PasswordHash   – bcrypt hash of the password.
//  Role           – one of citizen, collector, admin.
//  Points         – reward points balance (>= 0).
//  VehicleType    – collector metadata (nullable for other roles).
//  Specialization – collector metadata (nullable for other roles).
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type User struct {
    ID             uint64     // users.id
    Name           string     // users.name
    Email          string     // users.email
    PasswordHash   string     // users.password_hash
    Role           string     // users.role
    Points         int64      // users.points
    VehicleType    *string    // users.vehicle_type (nullable)
    Specialization *string    // users.specialization (nullable)
    CreatedAt      time.Time  // users.created_at
    UpdatedAt      time.Time  // users.updated_at
}

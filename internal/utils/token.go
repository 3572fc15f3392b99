package utils // package utils provides helper functions for session tokens, hashing and codes

import (
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionClaims is the decoded payload of a session token: the identity,
// role and display name snapshotted at login time, plus expiry. The role is
// treated as authoritative for the token's lifetime; changing a user's role
// takes effect at the next login.
type SessionClaims struct {
    UserID uint64
    Role   string
    Name   string
    Expiry time.Time
}

// SessionToken is a signed HS256 credential together with its expiry, ready
// to be placed in the session cookie or returned to API clients.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a user. It takes the
// signing secret, the user ID, role, display name and a TTL in days. The
// JWT carries the subject (sub), role, name, expiration (exp) and issued at
// (iat) claims.
func NewSessionToken(secret string, userID uint64, role, name string, ttlDays int) (SessionToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "name": name,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// VerifySessionToken parses and validates a session token. It fails closed:
// any problem (bad signature, wrong algorithm, expired, malformed claims)
// yields nil rather than an error so callers uniformly treat the request as
// unauthenticated.
func VerifySessionToken(secret, raw string) *SessionClaims {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, jwt.ErrSignatureInvalid
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return nil
    }
    sub, ok := claims["sub"].(float64) // numeric claims decode as float64
    if !ok || sub <= 0 {
        return nil
    }
    role, ok := claims["role"].(string)
    if !ok || role == "" {
        return nil
    }
    name, _ := claims["name"].(string)
    out := &SessionClaims{UserID: uint64(sub), Role: role, Name: name}
    if exp, ok := claims["exp"].(float64); ok {
        out.Expiry = time.Unix(int64(exp), 0).UTC()
    }
    return out
}

package model

import "time"

// Notification severities.
const (
    NotifInfo    = "info"
    NotifSuccess = "success"
    NotifWarning = "warning"
    NotifError   = "error"
)

// Notification is an entry in a user's append-only notification log. Read
// state is monotonic: once true it never reverses.
type Notification struct {
    ID        uint64    // notifications.id
    UserID    uint64    // notifications.user_id
    Title     string    // notifications.title
    Message   string    // notifications.message
    Type      string    // notifications.type
    Read      bool      // notifications.is_read
    CreatedAt time.Time // notifications.created_at
}

package model

import "time"

// Report lifecycle states. A report starts pending and is moved by an admin
// to one of the two terminal states. There are no transitions out of a
// terminal state.
const (
    ReportPending   = "pending"
    ReportResolved  = "resolved"
    ReportDismissed = "dismissed"
)

// CollectorIssuePrefix marks reports filed by collectors about operational
// problems with a task. Issue reports skip the points reward and the
// submission notification that citizen reports receive.
const CollectorIssuePrefix = "COLLECTOR_ISSUE: "

// Report is a citizen-submitted field incident (or a collector issue when
// the type carries CollectorIssuePrefix).
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – submitting user.
//  Type        – free-text category, truncated to 50 characters at intake.
//  Description – incident description (<= 1000 characters).
//  Location    – free-text location (<= 200 characters).
//  ImageURL    – optional reference to an uploaded photo.
//  Status      – pending, resolved or dismissed.
//  CreatedAt   – timestamp of creation.
type Report struct {
    ID          uint64    // reports.id
    UserID      uint64    // reports.user_id
    Type        string    // reports.type
    Description string    // reports.description
    Location    string    // reports.location
    ImageURL    *string   // reports.image_url (nullable)
    Status      string    // reports.status
    CreatedAt   time.Time // reports.created_at
}

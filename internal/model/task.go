package model

import "time"

// Task lifecycle states.
const (
    TaskPending    = "pending"
    TaskInProgress = "in-progress"
    TaskCompleted  = "completed"
)

// DefaultTimeWindow is used when an admin creates a task without a time
// window.
const DefaultTimeWindow = "08:00 - 10:00"

// Task is a dispatch/collection unit created by an admin. An unclaimed task
// (CollectorID == nil) is visible to every collector; the first status
// update claims it by writing the acting collector's ID, and the write is
// guarded by a conditional update so two collectors cannot both claim it.
//
// Fields:
//  ID          – primary key identifier.
//  Address     – pickup address.
//  Type        – task category (Residential, Commercial, Recycling, ...).
//  Status      – pending, in-progress or completed.
//  Bins        – number of bins at the address (defaults to 1).
//  TimeWindow  – human-readable collection window.
//  CollectorID – claiming collector, nil while unclaimed.
//  CreatedAt   – timestamp of creation.
type Task struct {
    ID          uint64    // tasks.id
    Address     string    // tasks.address
    Type        string    // tasks.type
    Status      string    // tasks.status
    Bins        int       // tasks.bins
    TimeWindow  string    // tasks.time_window
    CollectorID *uint64   // tasks.collector_id (nullable)
    CreatedAt   time.Time // tasks.created_at
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// ReportResolvedEvent is published when an administrator moves a report
// into a terminal status. It carries enough detail for downstream
// consumers to log or trigger follow-up work without querying the
// primary database.
type ReportResolvedEvent struct {
	ReportID   uint64 `json:"report_id"`
	UserID     uint64 `json:"user_id"`
	Type       string `json:"type"`
	Location   string `json:"location"`
	Status     string `json:"status"`
	ResolvedAt string `json:"resolved_at"`
}

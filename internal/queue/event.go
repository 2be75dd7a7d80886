// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// PlanGeneratedEvent is published every time a route plan is derived.  It
// carries enough information for downstream consumers to log or feed
// analytics without re-running the legacy report query.
type PlanGeneratedEvent struct {
	PlanID          string `json:"plan_id"`
	AdvisorID       string `json:"advisor_id"`
	RouteCode       string `json:"route_code"`
	Date            string `json:"date"`
	ClientCount     int    `json:"client_count"`
	Recommendations int    `json:"recommendation_count"`
	GeneratedAt     string `json:"generated_at"`
}

package route

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/webpv/webpv-backend/internal/model"
)

// VisitSource is the slice of the visit repository the planner needs.
type VisitSource interface {
	FetchVisitRows(ctx context.Context, routeCode string, day time.Time) ([]model.VisitRow, error)
}

// Planner builds route plans from the legacy visit sheet.
type Planner struct {
	Visits VisitSource
}

func NewPlanner(visits VisitSource) *Planner { return &Planner{Visits: visits} }

// BuildPlan fetches the visit sheet for (routeCode, day) and derives the
// plan: one Client per row in row order, and all recommendations
// concatenated across clients preserving per-client rule order.  A query
// failure aborts the whole plan; an empty result set yields a plan with
// empty lists.  Plans are derived fresh on every call and never persisted.
func (p *Planner) BuildPlan(ctx context.Context, advisorID, routeCode string, day time.Time) (model.RoutePlan, error) {
	rows, err := p.Visits.FetchVisitRows(ctx, routeCode, day)
	if err != nil {
		return model.RoutePlan{}, err
	}

	clients := make([]model.Client, 0, len(rows))
	recs := make([]model.Recommendation, 0, len(rows))
	for _, row := range rows {
		c := DeriveClient(row)
		clients = append(clients, c)
		recs = append(recs, DeriveRecommendations(c, row)...)
	}

	plan := model.RoutePlan{
		ID:              uuid.NewString(),
		Date:            day.Format("2006-01-02"),
		AdvisorID:       advisorID,
		Clients:         clients,
		Recommendations: recs,
	}
	log.Printf("route: plan %s built for advisor %s route %s: %d clients, %d recommendations",
		plan.ID, advisorID, routeCode, len(clients), len(recs))
	return plan, nil
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/webpv/webpv-backend/internal/queue"
	"github.com/webpv/webpv-backend/internal/route"
	queue_publisher "github.com/webpv/webpv-backend/internal/service"
)

// RouteHandler serves the daily route plan for the authenticated advisor.
type RouteHandler struct {
	Planner *route.Planner
}

func NewRouteHandler(p *route.Planner) *RouteHandler {
	return &RouteHandler{Planner: p}
}

// GetPlan builds the route plan for the caller's route and the requested
// date (?date=YYYY-MM-DD, defaulting to today).  The advisor id and route
// code come from the verified token claims, never from request parameters,
// so an advisor can only ever fetch their own route.  The legacy report
// query is a single blocking round trip; its failure aborts the request,
// no partial plan is returned.
func (h *RouteHandler) GetPlan(c echo.Context) error {
	advisorID, _ := c.Get("user_id").(string)
	routeCode, _ := c.Get("route").(string)
	if advisorID == "" || routeCode == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "INVALID_CREDENTIALS", "message": "invalid token claims"})
	}

	day := time.Now().UTC()
	if q := c.QueryParam("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "VALIDATION_ERROR",
				"message": "invalid date",
				"fields":  echo.Map{"date": "expected YYYY-MM-DD"},
			})
		}
		day = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	plan, err := h.Planner.BuildPlan(ctx, advisorID, routeCode, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "INTERNAL_ERROR", "message": "route plan query failed"})
	}

	// Best effort: a broker outage must not fail the request.
	_ = queue_publisher.PublishPlanGenerated(ctx, queue.PlanGeneratedEvent{
		PlanID:          plan.ID,
		AdvisorID:       advisorID,
		RouteCode:       routeCode,
		Date:            plan.Date,
		ClientCount:     len(plan.Clients),
		Recommendations: len(plan.Recommendations),
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, plan)
}

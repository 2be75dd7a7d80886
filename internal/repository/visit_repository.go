package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/webpv/webpv-backend/internal/model"
)

// visitSheetQuery is the daily visit sheet report against the legacy
// database.  The legacy schema is denormalized into VS (per-client sales and
// program columns refreshed nightly); the query is read-only and ordered by
// the route's visit sequence so plan output is stable across requests.
const visitSheetQuery = `
SELECT
    VS.CLIENT_ID,
    VS.CLIENT_NAME,
    COALESCE(VS.SEGMENT, ''),
    COALESCE(VS.TARGET_MET, 0),
    COALESCE(VS.VOL_PREV, 0),
    COALESCE(VS.VOL_CURR, 0),
    VS.SHOP_PROGRAM_ID,
    VS.COOLERS,
    VS.PROMO_BANNER,
    VS.PREMIUM,
    VS.AMBER,
    VS.LAGER,
    VS.STOUT
FROM VISIT_SHEET VS
WHERE VS.ROUTE_CODE = ?
  AND VS.VISIT_DATE = ?
ORDER BY VS.VISIT_SEQ`

// VisitRepo runs report queries against the legacy reporting database.
type VisitRepo struct{ DB *sql.DB }

func NewVisitRepo(db *sql.DB) *VisitRepo { return &VisitRepo{DB: db} }

// FetchVisitRows executes the visit sheet query for one route and one day
// and scans the result into VisitRow structs.  An empty result set is a
// valid outcome (a route with no scheduled visits) and yields an empty
// slice, not an error.
func (r *VisitRepo) FetchVisitRows(ctx context.Context, routeCode string, day time.Time) ([]model.VisitRow, error) {
	rows, err := r.DB.QueryContext(ctx, visitSheetQuery, routeCode, day.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.VisitRow, 0, 64)
	for rows.Next() {
		var vr model.VisitRow
		if err := rows.Scan(
			&vr.ClientID,
			&vr.ClientName,
			&vr.Segment,
			&vr.TargetMet,
			&vr.PrevVolume,
			&vr.CurrVolume,
			&vr.ShopProgramID,
			&vr.Coolers,
			&vr.PromoBanner,
			&vr.Premium,
			&vr.Amber,
			&vr.Lager,
			&vr.Stout,
		); err != nil {
			return nil, err
		}
		out = append(out, vr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package model

import "database/sql"

// Segment tiers used to classify clients, ascending in value.  The legacy
// source sometimes leaves the column empty; BRONZE is the assumed floor.
const (
	SegmentBronze   = "BRONZE"
	SegmentSilver   = "SILVER"
	SegmentGold     = "GOLD"
	SegmentPlatinum = "PLATINUM"
	SegmentTitanium = "TITANIUM"
)

// Visit and recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation types.
const (
	RecTypeSales         = "sales"
	RecTypeCollections   = "collections"
	RecTypeMerchandising = "merchandising"
	RecTypeInformation   = "information"
)

// VisitRow is one row of the daily visit sheet report as returned by the
// legacy reporting database.  Optional columns use sql.Null* types because
// the legacy schema is sparsely populated.
type VisitRow struct {
	ClientID      string          // VS.CLIENT_ID
	ClientName    string          // VS.CLIENT_NAME
	Segment       string          // VS.SEGMENT (may be empty)
	TargetMet     bool            // VS.TARGET_MET (1 when the client meets its volume target)
	PrevVolume    float64         // VS.VOL_PREV, prior period volume in cases
	CurrVolume    float64         // VS.VOL_CURR, current period volume in cases
	ShopProgramID sql.NullString  // VS.SHOP_PROGRAM_ID, set when enrolled or eligible
	Coolers       sql.NullInt64   // VS.COOLERS, number of coolers on site
	PromoBanner   sql.NullString  // VS.PROMO_BANNER, active banner promotion code
	Premium       sql.NullFloat64 // VS.PREMIUM, per-product current volume
	Amber         sql.NullFloat64 // VS.AMBER
	Lager         sql.NullFloat64 // VS.LAGER
	Stout         sql.NullFloat64 // VS.STOUT
}

// HasShopProgram reports whether the row carries a shop program identifier.
func (r VisitRow) HasShopProgram() bool {
	return r.ShopProgramID.Valid && r.ShopProgramID.String != ""
}

// HasCoolers reports whether the client has coolers on site.
func (r VisitRow) HasCoolers() bool {
	return r.Coolers.Valid && r.Coolers.Int64 > 0
}

// HasPromoBanner reports whether a banner promotion is active for the client.
func (r VisitRow) HasPromoBanner() bool {
	return r.PromoBanner.Valid && r.PromoBanner.String != ""
}

// Coordinates is a geographic point.  Real geocoding is not wired yet, so
// clients without geo data get a configured default.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Client is the per-client slice of a route plan: identity plus the derived
// visit reason and priority.
type Client struct {
	ID          string      `json:"id"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Address     *string     `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Segment     string      `json:"segment"`
	VisitReason string      `json:"visitReason"`
	Priority    string      `json:"priority"`
}

// Recommendation is a single suggested action for a visit.  Recommendations
// are derived fresh on every request and never persisted.
type Recommendation struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"clientId"`
	Type        string  `json:"type"`
	Priority    string  `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Reason      string  `json:"reason"`
	SKU         *string `json:"sku"`
}

// RoutePlan is the full visit plan for one advisor, one route and one day.
type RoutePlan struct {
	ID              string           `json:"id"`
	Date            string           `json:"date"` // ISO date (YYYY-MM-DD)
	AdvisorID       string           `json:"advisorId"`
	Clients         []Client         `json:"clients"`
	Recommendations []Recommendation `json:"recommendations"`
}

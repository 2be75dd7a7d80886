package route

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/webpv/webpv-backend/internal/model"
)

func nullStr(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
func nullInt(n int64) sql.NullInt64   { return sql.NullInt64{Int64: n, Valid: true} }
func nullF(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }

func baseRow() model.VisitRow {
	return model.VisitRow{
		ClientID:   "C001",
		ClientName: "Corner Store",
		Segment:    model.SegmentGold,
	}
}

// ----- DeriveClient -----

func TestDeriveClientSegmentDefaultsToBronze(t *testing.T) {
	row := baseRow()
	row.Segment = ""
	c := DeriveClient(row)
	if c.Segment != model.SegmentBronze {
		t.Fatalf("segment = %s, want BRONZE", c.Segment)
	}
}

func TestDeriveClientPriorityOrder(t *testing.T) {
	// Target met wins over everything, even a top tier with a shop program.
	row := baseRow()
	row.TargetMet = true
	row.Segment = model.SegmentTitanium
	row.ShopProgramID = nullStr("SH-1")
	if c := DeriveClient(row); c.Priority != model.PriorityLow {
		t.Fatalf("target met must be low priority, got %s", c.Priority)
	}

	// Top tiers are high priority.
	row = baseRow()
	row.Segment = model.SegmentPlatinum
	if c := DeriveClient(row); c.Priority != model.PriorityHigh {
		t.Fatalf("platinum must be high priority, got %s", c.Priority)
	}

	// Shop program lifts lower tiers to high.
	row = baseRow()
	row.Segment = model.SegmentSilver
	row.ShopProgramID = nullStr("SH-1")
	if c := DeriveClient(row); c.Priority != model.PriorityHigh {
		t.Fatalf("shop program must be high priority, got %s", c.Priority)
	}

	// Nothing special: medium.
	row = baseRow()
	if c := DeriveClient(row); c.Priority != model.PriorityMedium {
		t.Fatalf("default priority = %s, want medium", c.Priority)
	}
}

func TestDeriveClientVisitReasonOrder(t *testing.T) {
	// Shop program beats sales recovery.
	row := baseRow()
	row.ShopProgramID = nullStr("SH-1")
	if c := DeriveClient(row); c.VisitReason != "Shop program enrollment" {
		t.Fatalf("reason = %q", c.VisitReason)
	}

	// Missed target: sales recovery.
	row = baseRow()
	if c := DeriveClient(row); c.VisitReason != "Sales recovery" {
		t.Fatalf("reason = %q", c.VisitReason)
	}

	// Target met with coolers.
	row = baseRow()
	row.TargetMet = true
	row.Coolers = nullInt(2)
	if c := DeriveClient(row); c.VisitReason != "Cooler follow-up" {
		t.Fatalf("reason = %q", c.VisitReason)
	}

	// Target met with a banner promotion only.
	row = baseRow()
	row.TargetMet = true
	row.PromoBanner = nullStr("BANNER-7")
	if c := DeriveClient(row); c.VisitReason != "Active promotion - banner" {
		t.Fatalf("reason = %q", c.VisitReason)
	}

	// Fallback names the segment.
	row = baseRow()
	row.TargetMet = true
	if c := DeriveClient(row); c.VisitReason != "Scheduled visit - GOLD client" {
		t.Fatalf("reason = %q", c.VisitReason)
	}
}

// ----- DeriveRecommendations -----

func TestProgramAndSalesDropFireIndependentlyInOrder(t *testing.T) {
	row := baseRow()
	row.ShopProgramID = nullStr("SH-1")
	row.PrevVolume = 100
	row.CurrVolume = 50
	c := DeriveClient(row)

	recs := DeriveRecommendations(c, row)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Type != model.RecTypeInformation {
		t.Fatalf("first recommendation must be the program one, got %s", recs[0].Type)
	}
	if recs[1].Type != model.RecTypeSales || recs[1].Priority != model.PriorityHigh {
		t.Fatalf("second recommendation must be the sales drop, got %+v", recs[1])
	}
}

func TestSalesDropPercentage(t *testing.T) {
	row := baseRow()
	row.PrevVolume = 100
	row.CurrVolume = 50
	c := DeriveClient(row)

	recs := DeriveRecommendations(c, row)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if !strings.Contains(recs[0].Title, "50%") {
		t.Fatalf("title %q must embed the 50%% drop", recs[0].Title)
	}
}

func TestSalesDropBoundary(t *testing.T) {
	// Exactly 80% of prior volume is NOT a drop.
	row := baseRow()
	row.PrevVolume = 100
	row.CurrVolume = 80
	c := DeriveClient(row)
	if recs := DeriveRecommendations(c, row); len(recs) != 0 {
		t.Fatalf("80%% of prior volume must not fire, got %d recs", len(recs))
	}

	row.CurrVolume = 79.9
	if recs := DeriveRecommendations(c, row); len(recs) != 1 {
		t.Fatalf("below 80%% must fire, got %d recs", len(recs))
	}
}

func TestMaintainVolumeExcludedBySalesDrop(t *testing.T) {
	// Target met and no drop: exactly one maintain-volume suggestion.
	row := baseRow()
	row.TargetMet = true
	row.PrevVolume = 100
	row.CurrVolume = 95
	c := DeriveClient(row)
	recs := DeriveRecommendations(c, row)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Title != "Maintain current volume" {
		t.Fatalf("title = %q", recs[0].Title)
	}

	// Target met AND a qualifying drop: the drop wins, maintain is
	// suppressed.
	row.CurrVolume = 50
	recs = DeriveRecommendations(c, row)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Priority != model.PriorityHigh {
		t.Fatalf("expected the sales drop recommendation, got %+v", recs[0])
	}
}

func TestCrossSellPerProduct(t *testing.T) {
	row := baseRow()
	row.Premium = nullF(12)
	row.Lager = nullF(3)
	row.Amber = nullF(0) // zero volume must not fire
	c := DeriveClient(row)

	recs := DeriveRecommendations(c, row)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	// Fixed product order: PREMIUM before LAGER.
	if recs[0].SKU == nil || *recs[0].SKU != "PREMIUM" {
		t.Fatalf("first sku = %v", recs[0].SKU)
	}
	if recs[1].SKU == nil || *recs[1].SKU != "LAGER" {
		t.Fatalf("second sku = %v", recs[1].SKU)
	}
}

func TestPromoAndCoolerRules(t *testing.T) {
	row := baseRow()
	row.PromoBanner = nullStr("BANNER-7")
	row.Coolers = nullInt(1)
	c := DeriveClient(row)

	recs := DeriveRecommendations(c, row)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Type != model.RecTypeMerchandising || recs[0].Priority != model.PriorityHigh {
		t.Fatalf("promo rec = %+v", recs[0])
	}
	if recs[1].Type != model.RecTypeMerchandising || recs[1].Priority != model.PriorityMedium {
		t.Fatalf("cooler rec = %+v", recs[1])
	}
}

func TestRecommendationIDsAreUniqueAndReferenceClient(t *testing.T) {
	row := baseRow()
	row.ShopProgramID = nullStr("SH-1")
	row.PromoBanner = nullStr("BANNER-7")
	row.Coolers = nullInt(1)
	c := DeriveClient(row)

	recs := DeriveRecommendations(c, row)
	seen := map[string]bool{}
	for _, r := range recs {
		if r.ClientID != c.ID {
			t.Fatalf("recommendation %s references %s, want %s", r.ID, r.ClientID, c.ID)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate recommendation id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

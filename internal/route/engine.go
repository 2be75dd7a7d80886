// Package route derives daily visit plans from the legacy visit sheet.  The
// recommendation engine is a fixed, ordered rule set: each rule inspects one
// report row independently and emits zero or more recommendations.  Order is
// part of the contract; clients render the list as-is, there is no scoring
// or dedup pass afterwards.
package route

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/webpv/webpv-backend/internal/model"
)

// Default coordinates for clients without geo data until real geocoding is
// wired in.
const (
	defaultLat = 19.4326
	defaultLng = -99.1332
)

// salesDropRatio is the current/prior volume ratio below which a client
// counts as a sales drop.
const salesDropRatio = 0.8

// productCodes are the four per-product report columns that feed cross-sell
// recommendations, in emission order.
var productCodes = []string{"PREMIUM", "AMBER", "LAGER", "STOUT"}

func productVolume(row model.VisitRow, code string) float64 {
	var v struct {
		f  float64
		ok bool
	}
	switch code {
	case "PREMIUM":
		v.f, v.ok = row.Premium.Float64, row.Premium.Valid
	case "AMBER":
		v.f, v.ok = row.Amber.Float64, row.Amber.Valid
	case "LAGER":
		v.f, v.ok = row.Lager.Float64, row.Lager.Valid
	case "STOUT":
		v.f, v.ok = row.Stout.Float64, row.Stout.Valid
	}
	if !v.ok {
		return 0
	}
	return v.f
}

// DeriveClient maps one visit sheet row to a Client with its computed visit
// priority and reason.  Both rule chains are first match wins.
func DeriveClient(row model.VisitRow) model.Client {
	segment := row.Segment
	if segment == "" {
		segment = model.SegmentBronze
	}

	// Priority: clients already meeting target drop to the bottom, then
	// high-value tiers and shop program opportunities float to the top.
	priority := model.PriorityMedium
	switch {
	case row.TargetMet:
		priority = model.PriorityLow
	case segment == model.SegmentPlatinum || segment == model.SegmentTitanium:
		priority = model.PriorityHigh
	case row.HasShopProgram():
		priority = model.PriorityHigh
	}

	return model.Client{
		ID:          row.ClientID,
		Code:        row.ClientID,
		Name:        row.ClientName,
		Address:     nil, // not in the current report query
		Coordinates: model.Coordinates{Lat: defaultLat, Lng: defaultLng},
		Segment:     segment,
		VisitReason: visitReason(row, segment),
		Priority:    priority,
	}
}

// visitReason picks the headline reason for the visit, first match wins.
func visitReason(row model.VisitRow, segment string) string {
	switch {
	case row.HasShopProgram():
		return "Shop program enrollment"
	case !row.TargetMet:
		return "Sales recovery"
	case row.HasCoolers():
		return "Cooler follow-up"
	case row.HasPromoBanner():
		return "Active promotion - banner"
	default:
		return fmt.Sprintf("Scheduled visit - %s client", segment)
	}
}

// recRule emits the recommendations one rule produces for a row.  Rules are
// independent unless documented otherwise; they run in the order listed in
// recRules and results are appended in that order.
type recRule func(c model.Client, row model.VisitRow) []model.Recommendation

// recRules is the fixed evaluation order:
//
//	1. shop program opportunity        (information / high)
//	2. sales drop, ELSE target met     (sales / high, sales / medium)
//	3. per-product cross-sell, 4 rules (sales / medium, fixed product order)
//	4. active banner promotion         (merchandising / high)
//	5. cooler follow-up                (merchandising / medium)
//
// Only rule 2's two halves are mutually exclusive.
var recRules = []recRule{
	shopProgramRule,
	volumeRule,
	crossSellRule,
	promoRule,
	coolerRule,
}

// DeriveRecommendations evaluates every rule against the row and returns
// the recommendations in rule order.  Each recommendation gets a fresh
// unique id and references the client.
func DeriveRecommendations(c model.Client, row model.VisitRow) []model.Recommendation {
	var recs []model.Recommendation
	for _, rule := range recRules {
		recs = append(recs, rule(c, row)...)
	}
	return recs
}

func newRecommendation(clientID, recType, priority, title, description, reason string, sku *string) model.Recommendation {
	return model.Recommendation{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Type:        recType,
		Priority:    priority,
		Title:       title,
		Description: description,
		Reason:      reason,
		SKU:         sku,
	}
}

func shopProgramRule(c model.Client, row model.VisitRow) []model.Recommendation {
	if !row.HasShopProgram() {
		return nil
	}
	return []model.Recommendation{newRecommendation(
		c.ID,
		model.RecTypeInformation,
		model.PriorityHigh,
		"Shop program available",
		"Client is eligible for the shop program. Explain benefits and the enrollment process.",
		"Growth opportunity through the shop program",
		nil,
	)}
}

// volumeRule holds the only else branch in the rule set: a qualifying sales
// drop suppresses the maintain-volume suggestion, never the other way
// around.
func volumeRule(c model.Client, row model.VisitRow) []model.Recommendation {
	prev, curr := row.PrevVolume, row.CurrVolume
	if prev > 0 && curr < prev*salesDropRatio {
		drop := int(math.Round((prev - curr) / prev * 100))
		return []model.Recommendation{newRecommendation(
			c.ID,
			model.RecTypeSales,
			model.PriorityHigh,
			fmt.Sprintf("Recover sales (%d%% drop)", drop),
			fmt.Sprintf("Sales fell from %.0f to %.0f cases. Investigate causes and offer solutions.", prev, curr),
			"Sales volume recovery",
			nil,
		)}
	}
	if row.TargetMet {
		return []model.Recommendation{newRecommendation(
			c.ID,
			model.RecTypeSales,
			model.PriorityMedium,
			"Maintain current volume",
			fmt.Sprintf("Client is meeting its target (%s). Reinforce the relationship and secure continuity.", c.Segment),
			"Follow-up on a client meeting target",
			nil,
		)}
	}
	return nil
}

// crossSellRule emits one cross-sell recommendation per product with
// positive current volume, tagged with the product code, in fixed product
// order.
func crossSellRule(c model.Client, row model.VisitRow) []model.Recommendation {
	var recs []model.Recommendation
	for _, code := range productCodes {
		if productVolume(row, code) <= 0 {
			continue
		}
		sku := code
		recs = append(recs, newRecommendation(
			c.ID,
			model.RecTypeSales,
			model.PriorityMedium,
			fmt.Sprintf("Grow the %s line", code),
			fmt.Sprintf("Client already buys %s. Propose additional volume or adjacent presentations.", code),
			"Cross-selling opportunity",
			&sku,
		))
	}
	return recs
}

func promoRule(c model.Client, row model.VisitRow) []model.Recommendation {
	if !row.HasPromoBanner() {
		return nil
	}
	return []model.Recommendation{newRecommendation(
		c.ID,
		model.RecTypeMerchandising,
		model.PriorityHigh,
		"Banner promotion active",
		"Client has an active banner promotion. Verify compliance and POP material.",
		"Promotion follow-up",
		nil,
	)}
}

func coolerRule(c model.Client, row model.VisitRow) []model.Recommendation {
	if !row.HasCoolers() {
		return nil
	}
	return []model.Recommendation{newRecommendation(
		c.ID,
		model.RecTypeMerchandising,
		model.PriorityMedium,
		"Cooler follow-up",
		"Client has coolers on site. Check operation and cleanliness.",
		"Asset maintenance",
		nil,
	)}
}

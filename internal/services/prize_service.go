package services

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/cardroid/ruleta/internal/models"
)

// HighlightedPrize is rendered with emphasis in the prize list
const HighlightedPrize = "RADIO 100% GRATIS"

// nonWinningMarkers are matched as substrings of the normalized prize text.
// Both the Spanish copy the campaign ships with and its English equivalents count.
var nonWinningMarkers = []string{
	"sigue intentando",
	"giro adicional",
	"keep trying",
	"bonus spin",
}

// NormalizePrizeText trims and lower-cases a prize label
func NormalizePrizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsNonWinning reports whether a prize text denotes a try-again or bonus-spin outcome
func IsNonWinning(text string) bool {
	normalized := NormalizePrizeText(text)
	for _, marker := range nonWinningMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// UniquePrizes keeps the first prize for each normalized text
func UniquePrizes(prizes []models.Prize) []models.Prize {
	seen := make(map[string]bool, len(prizes))
	out := make([]models.Prize, 0, len(prizes))
	for _, p := range prizes {
		key := NormalizePrizeText(p.Text)
		if seen[key] {
			log.Printf("[UniquePrizes] Duplicate prize skipped: %s", p.Text)
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// PrizeAction is what the prize list offers for an entry
type PrizeAction int

const (
	// PrizeActionNone offers nothing (unclaimed non-winning prize)
	PrizeActionNone PrizeAction = iota
	// PrizeActionRedeem offers the redemption deep link
	PrizeActionRedeem
	// PrizeActionRedeemed shows the entry as already redeemed or expired
	PrizeActionRedeemed
)

// PrizeEntry is one rendered line of the prize list
type PrizeEntry struct {
	Prize       models.Prize
	Action      PrizeAction
	Highlighted bool
}

// BuildPrizeEntries de-duplicates prizes and decides the action of each entry at now
func BuildPrizeEntries(prizes []models.Prize, now time.Time) []PrizeEntry {
	unique := UniquePrizes(prizes)
	entries := make([]PrizeEntry, 0, len(unique))
	for _, p := range unique {
		entry := PrizeEntry{Prize: p, Highlighted: p.Text == HighlightedPrize}
		switch {
		case p.Claimed || p.Expired(now):
			entry.Action = PrizeActionRedeemed
		case !IsNonWinning(p.Text):
			entry.Action = PrizeActionRedeem
		default:
			entry.Action = PrizeActionNone
		}
		entries = append(entries, entry)
	}
	return entries
}

// LinkBuilder composes the outbound share and redemption deep links
type LinkBuilder struct {
	LandingURL     string
	ShareQuote     string
	WhatsAppNumber string
}

// ShareURL returns the prefilled Facebook share dialog URL
func (b LinkBuilder) ShareURL() string {
	return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(b.LandingURL) +
		"&quote=" + url.QueryEscape(b.ShareQuote)
}

// RedeemURL returns the prefilled WhatsApp URL for redeeming prizeText
func (b LinkBuilder) RedeemURL(plate, prizeText string) string {
	if plate == "" {
		plate = "XXXXXX"
	}
	msg := "SOY EL DUEÑO DEL VEHICULO " + plate + " Y DESEO CANJEAR EL PREMIO " + prizeText
	return "https://wa.me/" + b.WhatsAppNumber + "?text=" + url.QueryEscape(msg)
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Prize represents a server-issued prize held by a player
type Prize struct {
	ID      string    `json:"_id" bson:"_id"`
	Text    string    `json:"text" bson:"text"`
	Expiry  time.Time `json:"expiry" bson:"expiry"`
	Claimed bool      `json:"claimed" bson:"claimed"`
}

// Expired reports whether the prize expiry is not after now
func (p Prize) Expired(now time.Time) bool {
	return !p.Expiry.After(now)
}

// expiryLayouts are the string forms accepted besides epoch milliseconds.
// Layouts without a zone are read as UTC.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON decodes a prize, accepting the expiry as a timestamp string or
// as epoch milliseconds
func (p *Prize) UnmarshalJSON(data []byte) error {
	type plain Prize
	var aux struct {
		plain
		Expiry json.RawMessage `json:"expiry"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	expiry, err := parseExpiry(aux.Expiry)
	if err != nil {
		return err
	}
	*p = Prize(aux.plain)
	p.Expiry = expiry
	return nil
}

func parseExpiry(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	if raw[0] != '"' {
		ms, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return time.Time{}, fmt.Errorf("invalid prize expiry %s", raw)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid prize expiry %q", s)
}

package models

import (
	"encoding/json"
)

// Segment is one wedge of the prize wheel
type Segment struct {
	Text          string `json:"text"`
	FillStyle     string `json:"fillStyle,omitempty"`
	TextFillStyle string `json:"textFillStyle,omitempty"`
	StrokeStyle   string `json:"strokeStyle,omitempty"`
	// Style keeps any styling keys not modelled above.
	Style map[string]json.RawMessage `json:"-"`
}

var segmentKnownKeys = map[string]bool{
	"text":          true,
	"fillStyle":     true,
	"textFillStyle": true,
	"strokeStyle":   true,
}

// UnmarshalJSON decodes a segment, keeping unknown styling keys in Style
func (s *Segment) UnmarshalJSON(data []byte) error {
	type plain Segment
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if segmentKnownKeys[key] {
			continue
		}
		if p.Style == nil {
			p.Style = make(map[string]json.RawMessage)
		}
		p.Style[key] = value
	}
	*s = Segment(p)
	return nil
}

// MarshalJSON encodes a segment including its extra styling keys
func (s Segment) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Style)+4)
	for key, value := range s.Style {
		out[key] = value
	}
	out["text"] = s.Text
	if s.FillStyle != "" {
		out["fillStyle"] = s.FillStyle
	}
	if s.TextFillStyle != "" {
		out["textFillStyle"] = s.TextFillStyle
	}
	if s.StrokeStyle != "" {
		out["strokeStyle"] = s.StrokeStyle
	}
	return json.Marshal(out)
}

// WheelConfig is the ordered segment layout of the wheel
type WheelConfig struct {
	Segments []Segment `json:"segments"`
}

// SpinOutcome is the server result of one spin
type SpinOutcome struct {
	PrizeText      string
	StopAngle      float64
	SpinsAvailable int
	Prizes         []Prize
}

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InventionProfile is the upstream description of the invention: bilingual
// keyword lists plus ranked feature descriptions.
type InventionProfile struct {
	Keywords    ProfileKeywords    `json:"keywords"`
	KeyFeatures []InventionFeature `json:"key_features"`
}

// ProfileKeywords holds the CN/EN keyword lists.
type ProfileKeywords struct {
	CN []string `json:"cn"`
	EN []string `json:"en"`
}

// InventionFeature is one claimed feature of the invention. Profiles may
// supply features either as bare strings or as {id, text} objects.
type InventionFeature struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// UnmarshalJSON accepts both the object and the bare-string form.
func (f *InventionFeature) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.ID = ""
		f.Text = strings.TrimSpace(s)
		return nil
	}
	type alias InventionFeature
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("feature must be string or {id,text}: %w", err)
	}
	f.ID = strings.TrimSpace(a.ID)
	f.Text = strings.TrimSpace(a.Text)
	return nil
}

// NormalizedFeatures returns non-empty features with synthesized F<n> ids
// where missing, capped at max.
func (p *InventionProfile) NormalizedFeatures(max int) []InventionFeature {
	var out []InventionFeature
	for _, f := range p.KeyFeatures {
		if max > 0 && len(out) >= max {
			break
		}
		text := strings.TrimSpace(f.Text)
		if text == "" {
			continue
		}
		id := strings.TrimSpace(f.ID)
		if id == "" {
			id = fmt.Sprintf("F%d", len(out)+1)
		}
		out = append(out, InventionFeature{ID: id, Text: text})
	}
	return out
}

package claims

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// manualClaim accepts both {num,text} objects and bare strings.
type manualClaim struct {
	Num  string
	Text string
}

func (c *manualClaim) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = strings.TrimSpace(s)
		return nil
	}
	var obj struct {
		Num  any    `json:"num"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("claim must be string or {num,text}: %w", err)
	}
	switch v := obj.Num.(type) {
	case string:
		c.Num = strings.TrimSpace(v)
	case float64:
		c.Num = strconv.Itoa(int(v))
	}
	c.Text = strings.TrimSpace(obj.Text)
	return nil
}

// ManualRecord is one entry of a claims_manual.json file: hand-collected
// claims for a patent the automatic fetch could not resolve.
type ManualRecord struct {
	PatentNumber     string        `json:"patent_number"`
	ClaimsText       string        `json:"claims_text"`
	Claims           []manualClaim `json:"claims"`
	ClaimsSourceURL  string        `json:"claims_source_url"`
	ClaimsSourceType string        `json:"claims_source_type"`
}

// LoadManual reads a manual claims file (bare list or {items:[...]}).
func LoadManual(path string) ([]ManualRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manual claims file: %w", err)
	}
	var records []ManualRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var obj struct {
			Items []ManualRecord `json:"items"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("parse manual claims file %s: %w", path, err)
		}
		records = obj.Items
	}
	return records, nil
}

// hasContent reports whether a manual record carries any claims to apply.
func (m *ManualRecord) hasContent() bool {
	if strings.TrimSpace(m.ClaimsText) != "" {
		return true
	}
	for _, c := range m.Claims {
		if c.Text != "" {
			return true
		}
	}
	return false
}

// verifyManual enforces the strict provenance rules: every applicable manual
// record needs a claims_source_url and an allow-listed claims_source_type.
func verifyManual(records []ManualRecord) error {
	var offending []string
	for _, m := range records {
		pn := textutil.NormalizePatentNumber(m.PatentNumber)
		if pn == "" || !m.hasContent() {
			continue
		}
		if strings.TrimSpace(m.ClaimsSourceURL) == "" {
			offending = append(offending, fmt.Sprintf("%s: missing claims_source_url", pn))
		}
		srcType := strings.TrimSpace(m.ClaimsSourceType)
		if !model.ManualSourceTypes[srcType] {
			offending = append(offending, fmt.Sprintf("%s: claims_source_type %q not allowed", pn, srcType))
		}
	}
	if len(offending) == 0 {
		return nil
	}
	return fmt.Errorf("manual claims failed provenance check:\n  %s", strings.Join(offending, "\n  "))
}

// MergeManual applies manual claims onto fetched records, matching by
// normalized patent number. In strict mode every applicable manual record
// must pass the provenance check first.
func MergeManual(records []model.ClaimRecord, manual []ManualRecord, path string, strict bool, maxClaims, maxTextLen int) ([]model.ClaimRecord, error) {
	if strict {
		if err := verifyManual(manual); err != nil {
			return nil, err
		}
	}

	byPN := make(map[string]ManualRecord, len(manual))
	for _, m := range manual {
		if pn := textutil.NormalizePatentNumber(m.PatentNumber); pn != "" {
			byPN[pn] = m
		}
	}
	if len(byPN) == 0 {
		return records, nil
	}

	for i := range records {
		m, ok := byPN[textutil.NormalizePatentNumber(records[i].PatentNumber)]
		if !ok {
			continue
		}

		var text string
		var entries []model.ClaimEntry
		if claimsText := strings.TrimSpace(m.ClaimsText); claimsText != "" {
			entries = SplitClaims(claimsText, maxClaims)
			text = truncate(claimsText, maxTextLen)
		} else {
			for idx, c := range m.Claims {
				if c.Text == "" {
					continue
				}
				num := c.Num
				if num == "" {
					num = strconv.Itoa(idx + 1)
				}
				entries = append(entries, model.ClaimEntry{Num: num, Text: c.Text})
				if len(entries) >= maxClaims {
					break
				}
			}
			text = truncate(JoinClaims(entries), maxTextLen)
		}
		if len(entries) == 0 {
			continue
		}

		records[i].ClaimsText = text
		records[i].Claims = entries
		records[i].ClaimsStatus = model.ClaimsStatusManualOK
		records[i].ClaimsError = ""
		records[i].ClaimsSourceURL = strings.TrimSpace(m.ClaimsSourceURL)
		records[i].ClaimsSourceType = strings.TrimSpace(m.ClaimsSourceType)
		records[i].ManualClaimsSource = path
	}
	return records, nil
}

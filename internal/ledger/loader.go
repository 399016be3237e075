package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// sourceEvent is the wire format of one entry in the events file.
type sourceEvent struct {
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// LoadFile reads change events from a JSON file. Malformed entries fail the
// whole load: the ledger is startup configuration, and a silently dropped
// event would weaken every verdict afterwards.
func LoadFile(path string) ([]ChangeEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of change events.
func Parse(data []byte) ([]ChangeEvent, error) {
	var raw []sourceEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]ChangeEvent, 0, len(raw))
	for i, r := range raw {
		if r.Date == "" {
			return nil, fmt.Errorf("event %d: missing date", i)
		}
		date, err := time.ParseInLocation(DateLayout, r.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("event %d: parse date %q: %w", i, r.Date, err)
		}
		if r.Category == "" {
			return nil, fmt.Errorf("event %d: missing category", i)
		}
		events = append(events, ChangeEvent{
			Category:    ParseCategory(r.Category),
			Date:        date,
			Description: r.Description,
		})
	}
	return events, nil
}

package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrParseFailed = errors.New("parse_failed")

// IntakeFields is the structured form of a guest's free-text space query.
type IntakeFields struct {
	SpaceType string `json:"spaceType"`
	Purpose   string `json:"purpose"`
	Capacity  int    `json:"capacity"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	TimeSlot  string `json:"timeSlot"`
}

// ParseIntake extracts the JSON object from a model response. It first tries
// the raw text, then falls back to the first {...} block (the model sometimes
// wraps the object in prose or a code fence).
func ParseIntake(text string) (*IntakeFields, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var f IntakeFields
	if err := json.Unmarshal([]byte(trimmed), &f); err == nil {
		return &f, nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no json object found", ErrParseFailed)
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return &f, nil
}

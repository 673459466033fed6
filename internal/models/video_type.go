package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// VideoType enumerates the content categories a creator can deliver.
type VideoType string

const (
	VideoTypeOOTD        VideoType = "OOTD"
	VideoTypeTraining    VideoType = "TRAINING"
	VideoTypeBeforeAfter VideoType = "BEFORE_AFTER"
	VideoTypeSports80s   VideoType = "SPORTS_80S"
	VideoTypeCinematic   VideoType = "CINEMATIC"
)

// VideoTypes is the canonical enumeration order. Allocation tie-breaks and
// payout line items rely on this order being stable.
var VideoTypes = []VideoType{
	VideoTypeOOTD,
	VideoTypeTraining,
	VideoTypeBeforeAfter,
	VideoTypeSports80s,
	VideoTypeCinematic,
}

var videoTypeLabels = map[VideoType]string{
	VideoTypeOOTD:        "OOTD",
	VideoTypeTraining:    "Training",
	VideoTypeBeforeAfter: "Before/After",
	VideoTypeSports80s:   "80s Sports",
	VideoTypeCinematic:   "Cinematic",
}

// Valid reports whether the value is one of the known categories.
func (t VideoType) Valid() bool {
	_, ok := videoTypeLabels[t]
	return ok
}

// Label returns the display name used in summaries and statements.
func (t VideoType) Label() string {
	if label, ok := videoTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// VideoCounts maps content categories to integer counts. It is persisted as a
// JSONB column on monthly trackings.
type VideoCounts map[VideoType]int

// ZeroVideoCounts returns a count map with an explicit zero for every category.
func ZeroVideoCounts() VideoCounts {
	counts := make(VideoCounts, len(VideoTypes))
	for _, t := range VideoTypes {
		counts[t] = 0
	}
	return counts
}

// Total sums all counts.
func (c VideoCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Value implements driver.Valuer for JSONB storage.
func (c VideoCounts) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (c *VideoCounts) Scan(src interface{}) error {
	if src == nil {
		*c = VideoCounts{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported video counts source type %T", src)
	}
	if len(raw) == 0 {
		*c = VideoCounts{}
		return nil
	}
	return json.Unmarshal(raw, c)
}

// MixWeights maps content categories to fractional weights. Persisted as JSONB
// on mix definitions.
type MixWeights map[VideoType]float64

// Value implements driver.Valuer for JSONB storage.
func (w MixWeights) Value() (driver.Value, error) {
	if w == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (w *MixWeights) Scan(src interface{}) error {
	if src == nil {
		*w = MixWeights{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported mix weights source type %T", src)
	}
	if len(raw) == 0 {
		*w = MixWeights{}
		return nil
	}
	return json.Unmarshal(raw, w)
}

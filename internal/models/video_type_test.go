package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoTypeValid(t *testing.T) {
	for _, vt := range VideoTypes {
		assert.True(t, vt.Valid(), vt)
	}
	assert.False(t, VideoType("VLOG").Valid())
}

func TestVideoTypeLabels(t *testing.T) {
	assert.Equal(t, "Before/After", VideoTypeBeforeAfter.Label())
	assert.Equal(t, "80s Sports", VideoTypeSports80s.Label())
	assert.Equal(t, "UNKNOWN", VideoType("UNKNOWN").Label())
}

func TestZeroVideoCounts(t *testing.T) {
	counts := ZeroVideoCounts()
	assert.Len(t, counts, len(VideoTypes))
	assert.Equal(t, 0, counts.Total())
}

func TestVideoCountsScanValue(t *testing.T) {
	counts := VideoCounts{VideoTypeOOTD: 3, VideoTypeCinematic: 1}
	raw, err := counts.Value()
	require.NoError(t, err)

	var decoded VideoCounts
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, counts, decoded)

	var fromNil VideoCounts
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)

	assert.Error(t, decoded.Scan(42))
}

func TestMixWeightsScan(t *testing.T) {
	var weights MixWeights
	require.NoError(t, weights.Scan([]byte(`{"OOTD":0.6,"TRAINING":0.4}`)))
	assert.Equal(t, 0.6, weights[VideoTypeOOTD])

	raw, err := MixWeights{VideoTypeOOTD: 1}.Value()
	require.NoError(t, err)
	var roundTrip MixWeights
	require.NoError(t, json.Unmarshal(raw.([]byte), &roundTrip))
	assert.Equal(t, 1.0, roundTrip[VideoTypeOOTD])
}

func TestApplicationStatusTerminal(t *testing.T) {
	assert.False(t, ApplicationStatusDraft.Terminal())
	assert.False(t, ApplicationStatusPendingReview.Terminal())
	assert.True(t, ApplicationStatusApproved.Terminal())
	assert.True(t, ApplicationStatusRejected.Terminal())
}

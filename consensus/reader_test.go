package consensus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"netstate/consensus"
	"netstate/models"
)

func testDocument() *models.ConsensusDocument {
	return &models.ConsensusDocument{
		ValidAfter:       time.Unix(1000, 0),
		FreshUntil:       time.Unix(4000, 0),
		BandwidthWeights: map[string]int64{"Wgg": 6000},
		Entries: []models.RouterStatusEntry{
			{Fingerprint: "A", Flags: []models.Flag{models.FlagRunning}},
			{Fingerprint: "B"},
			{Fingerprint: "C", Flags: []models.Flag{models.FlagRunning, models.FlagGuard}},
		},
	}
}

func collect(r *consensus.PeriodReader) []string {
	var fps []string
	for e := range r.Entries() {
		fps = append(fps, e.Fingerprint)
	}
	return fps
}

func TestMetadataDefaultsWeightScale(t *testing.T) {
	md, err := consensus.NewPeriodReader(testDocument(), false).Metadata()
	require.NoError(t, err)
	require.Equal(t, int64(models.DefaultWeightScale), md.WeightScale)
	require.Equal(t, int64(6000), md.BandwidthWeights["Wgg"])
	require.Equal(t, int64(1000), md.ValidAfter.Unix())
}

func TestMetadataUsesWeightScaleParam(t *testing.T) {
	doc := testDocument()
	doc.Params = map[string]int64{"bwweightscale": 5000}
	md, err := consensus.NewPeriodReader(doc, false).Metadata()
	require.NoError(t, err)
	require.Equal(t, int64(5000), md.WeightScale)
}

func TestMetadataMissingWindow(t *testing.T) {
	doc := testDocument()
	doc.ValidAfter = time.Time{}
	_, err := consensus.NewPeriodReader(doc, false).Metadata()
	require.ErrorIs(t, err, consensus.ErrMissingValidAfter)

	doc = testDocument()
	doc.FreshUntil = time.Time{}
	_, err = consensus.NewPeriodReader(doc, false).Metadata()
	require.ErrorIs(t, err, consensus.ErrMissingFreshUntil)
}

func TestEntriesKeepsNonRunningByDefault(t *testing.T) {
	require.Equal(t, []string{"A", "B", "C"}, collect(consensus.NewPeriodReader(testDocument(), false)))
}

func TestEntriesMustBeRunning(t *testing.T) {
	require.Equal(t, []string{"A", "C"}, collect(consensus.NewPeriodReader(testDocument(), true)))
}

func TestEntriesStopsEarly(t *testing.T) {
	var n int
	for range consensus.NewPeriodReader(testDocument(), false).Entries() {
		n++
		break
	}
	require.Equal(t, 1, n)
}

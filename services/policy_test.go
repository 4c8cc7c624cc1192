package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitFee(t *testing.T) {
	fee, net := DefaultPolicy.SplitFee(dec("1000"))
	requireDecimal(t, "20", fee)
	requireDecimal(t, "980", net)

	// full precision is kept
	fee, net = DefaultPolicy.SplitFee(dec("333.33"))
	requireDecimal(t, "6.6666", fee)
	requireDecimal(t, "326.6634", net)
	requireDecimal(t, "333.33", fee.Add(net))
}

func TestPointsFor(t *testing.T) {
	require.EqualValues(t, 9, DefaultPolicy.PointsFor(dec("95.00")))
	require.EqualValues(t, 0, DefaultPolicy.PointsFor(dec("9.99")))
	require.EqualValues(t, 98, DefaultPolicy.PointsFor(dec("980")))
	require.EqualValues(t, 1, DefaultPolicy.PointsFor(dec("10")))
	require.EqualValues(t, 0, DefaultPolicy.PointsFor(dec("-50")))
}

func TestQualifiesForReferral(t *testing.T) {
	require.True(t, DefaultPolicy.QualifiesForReferral(dec("1000")))
	require.True(t, DefaultPolicy.QualifiesForReferral(dec("5000")))
	require.False(t, DefaultPolicy.QualifiesForReferral(dec("999.99")))
}

package presale

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenUnits(whole int64) *big.Int {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(whole), unit)
}

func trackerFixture(t *testing.T) (*fakeProvider, *fakeToken, *recordSink, *Session, *Tracker) {
	t.Helper()
	provider := newFakeProvider()
	token := &fakeToken{balance: tokenUnits(1_000_000)}
	binder := &fakeBinder{contract: newFakeContract(), token: token}
	sink := newRecordSink()
	session := newTestSession(t, provider, binder, sink)
	require.NoError(t, session.Connect(context.Background()))
	return provider, token, sink, session, NewTracker(session, binder, sink, nil)
}

func TestRefreshCapturesBaselineAndReportsSold(t *testing.T) {
	_, token, sink, _, tracker := trackerFixture(t)

	// First read captures the baseline; nothing sold yet.
	p, err := tracker.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, p.Sold.Sign())
	assert.Equal(t, int64(1_000_000), p.Total.Int64())
	assert.Zero(t, p.Percent)

	// 300 tokens leave the contract.
	token.setBalance(tokenUnits(999_700))

	p, err = tracker.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(300), p.Sold.Int64())
	assert.Equal(t, int64(1_000_000), p.Total.Int64())
	assert.InDelta(t, 0.03, p.Percent, 1e-9)

	percent, label, ok := sink.lastProgress()
	require.True(t, ok)
	assert.InDelta(t, 0.03, percent, 1e-9)
	assert.Contains(t, label, "300 / 1000000 AUR sold in this batch")
}

func TestRefreshReportsNegativeSoldAsIs(t *testing.T) {
	_, token, _, _, tracker := trackerFixture(t)

	_, err := tracker.Refresh(context.Background())
	require.NoError(t, err)

	// The contract was topped up after the baseline.
	token.setBalance(tokenUnits(1_000_500))

	p, err := tracker.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(-500), p.Sold.Int64())
	assert.InDelta(t, -0.05, p.Percent, 1e-9)
}

func TestRefreshBaselineSurvivesReconnect(t *testing.T) {
	_, token, _, session, tracker := trackerFixture(t)

	_, err := tracker.Refresh(context.Background())
	require.NoError(t, err)

	token.setBalance(tokenUnits(999_000))
	session.Reset()
	require.NoError(t, session.Connect(context.Background()))

	// The baseline stays at the first capture; sold keeps accumulating
	// across the reconnect instead of resetting to zero.
	p, err := tracker.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), p.Sold.Int64())
	assert.Equal(t, int64(1_000_000), p.Total.Int64())
}

func TestRefreshZeroBaseline(t *testing.T) {
	_, token, _, _, tracker := trackerFixture(t)
	token.setBalance(big.NewInt(0))

	p, err := tracker.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, p.Sold.Sign())
	assert.Zero(t, p.Percent)
}

func TestRefreshUnavailableWhenDisconnected(t *testing.T) {
	provider := newFakeProvider()
	binder := &fakeBinder{contract: newFakeContract(), token: &fakeToken{balance: tokenUnits(1)}}
	session := newTestSession(t, provider, binder, newRecordSink())
	tracker := NewTracker(session, binder, newRecordSink(), nil)

	_, err := tracker.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrProgressUnavailable)
}

func TestRefreshUnavailableOnReadFailures(t *testing.T) {
	t.Run("token address read fails", func(t *testing.T) {
		_, _, _, session, tracker := trackerFixture(t)
		_, contract, ok := session.Snapshot()
		require.True(t, ok)
		contract.(*fakeContract).tokenErr = errors.New("execution reverted")

		_, err := tracker.Refresh(context.Background())
		assert.ErrorIs(t, err, ErrProgressUnavailable)
	})

	t.Run("balance read fails", func(t *testing.T) {
		_, token, _, _, tracker := trackerFixture(t)
		token.err = errors.New("connection refused")

		_, err := tracker.Refresh(context.Background())
		assert.ErrorIs(t, err, ErrProgressUnavailable)
	})
}

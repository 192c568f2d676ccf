package metricsadapter

import (
	"testing"

	"desci/contexts/governance/governance-accounting/domain/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewPrometheus(registry)
	require.NoError(t, err)

	m.ProposalCreated()
	m.VoteCast(entities.VoteChoiceFor)
	m.VoteCast(entities.VoteChoiceFor)
	m.VoteCast(entities.VoteChoiceAgainst)
	m.VoteRejected("already_voted")
	m.OracleFailure()
	m.PurchaseRecorded(2.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.proposalsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.votesCast.WithLabelValues("for")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.votesCast.WithLabelValues("against")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.votesRejected.WithLabelValues("already_voted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.oracleFailures))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.tokensPurchased))
}

func TestPrometheusRejectsDoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewPrometheus(registry)
	require.NoError(t, err)
	_, err = NewPrometheus(registry)
	assert.Error(t, err)
}

// Package metricsadapter records governance activity as Prometheus counters.
package metricsadapter

import (
	"errors"

	"desci/contexts/governance/governance-accounting/domain/entities"
	"desci/contexts/governance/governance-accounting/ports"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "desci_governance"

type Prometheus struct {
	proposalsCreated prometheus.Counter
	votesCast        *prometheus.CounterVec
	votesRejected    *prometheus.CounterVec
	oracleFailures   prometheus.Counter
	purchases        prometheus.Counter
	tokensPurchased  prometheus.Counter
}

func NewPrometheus(registerer prometheus.Registerer) (*Prometheus, error) {
	m := &Prometheus{
		proposalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_created_total",
			Help:      "Number of governance proposals opened",
		}),
		votesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Number of votes recorded by choice",
		}, []string{"choice"}),
		votesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_rejected_total",
			Help:      "Number of votes refused by reason",
		}, []string{"reason"}),
		oracleFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_failures_total",
			Help:      "Number of token oracle reads that failed",
		}),
		purchases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Number of royalty token purchases recorded",
		}),
		tokensPurchased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_purchased_total",
			Help:      "Royalty tokens bought across all purchases",
		}),
	}
	var errs []error
	for _, collector := range []prometheus.Collector{
		m.proposalsCreated, m.votesCast, m.votesRejected, m.oracleFailures, m.purchases, m.tokensPurchased,
	} {
		errs = append(errs, registerer.Register(collector))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Prometheus) ProposalCreated() {
	m.proposalsCreated.Inc()
}

func (m *Prometheus) VoteCast(choice entities.VoteChoice) {
	m.votesCast.WithLabelValues(string(choice)).Inc()
}

func (m *Prometheus) VoteRejected(reason string) {
	m.votesRejected.WithLabelValues(reason).Inc()
}

func (m *Prometheus) OracleFailure() {
	m.oracleFailures.Inc()
}

func (m *Prometheus) PurchaseRecorded(amount float64) {
	m.purchases.Inc()
	if amount > 0 {
		m.tokensPurchased.Add(amount)
	}
}

var _ ports.Metrics = (*Prometheus)(nil)

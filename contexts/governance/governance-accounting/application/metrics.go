package application

import (
	"desci/contexts/governance/governance-accounting/domain/entities"
	"desci/contexts/governance/governance-accounting/ports"
)

type nopMetrics struct{}

func (nopMetrics) ProposalCreated()             {}
func (nopMetrics) VoteCast(entities.VoteChoice) {}
func (nopMetrics) VoteRejected(string)          {}
func (nopMetrics) OracleFailure()               {}
func (nopMetrics) PurchaseRecorded(float64)     {}

func ResolveMetrics(metrics ports.Metrics) ports.Metrics {
	if metrics == nil {
		return nopMetrics{}
	}
	return metrics
}

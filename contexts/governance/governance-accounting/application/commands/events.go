package commands

import (
	"encoding/json"
	"time"

	"desci/contexts/governance/governance-accounting/ports"
)

const (
	EventProjectRegistered = "funding.project.registered"
	EventProposalCreated   = "governance.proposal.created"
	EventVoteCast          = "governance.vote.cast"
	EventPurchaseRecorded  = "funding.purchase.recorded"
)

func newGovernanceEnvelope(
	eventID string,
	eventType string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Vote and proposal events partition by proposal, funding events by project.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "governance-accounting",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}

func now(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

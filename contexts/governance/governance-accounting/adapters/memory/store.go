package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"
	"desci/internal/shared/outbox"

	"github.com/google/uuid"
)

type voteKey struct {
	proposalID string
	userID     string
}

type Store struct {
	mu sync.RWMutex

	projects      map[string]entities.Project
	proposals     map[string]entities.Proposal
	votes         map[string]entities.Vote
	votesByVoter  map[voteKey]string
	users         map[string]entities.User
	usersByAddr   map[string]string
	purchases     []entities.Purchase
	priceSessions map[string]entities.PriceState
	outbox        map[string]ports.OutboxMessage
	outboxOrder   []string

	fixedNow *time.Time
}

func NewStore() *Store {
	return &Store{
		projects:      make(map[string]entities.Project),
		proposals:     make(map[string]entities.Proposal),
		votes:         make(map[string]entities.Vote),
		votesByVoter:  make(map[voteKey]string),
		users:         make(map[string]entities.User),
		usersByAddr:   make(map[string]string),
		priceSessions: make(map[string]entities.PriceState),
		outbox:        make(map[string]ports.OutboxMessage),
	}
}

// SetNow pins the store clock. A zero time restores wall-clock time.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.IsZero() {
		s.fixedNow = nil
		return
	}
	pinned := now.UTC()
	s.fixedNow = &pinned
}

func (s *Store) SeedProposal(proposal entities.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ProposalID] = proposal
}

func (s *Store) CreateProject(_ context.Context, project entities.Project) (entities.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(project.ProjectID)
	if _, exists := s.projects[id]; exists {
		return entities.Project{}, domainerrors.ErrConflict
	}
	s.projects[id] = project
	return project, nil
}

func (s *Store) FindProject(_ context.Context, projectID string) (entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[strings.TrimSpace(projectID)]
	if !ok {
		return entities.Project{}, domainerrors.ErrProjectNotFound
	}
	return project, nil
}

func (s *Store) FindProposal(_ context.Context, proposalID string) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return proposal, nil
}

func (s *Store) CreateProposal(_ context.Context, proposal entities.Proposal) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(proposal.ProposalID)
	if _, exists := s.proposals[id]; exists {
		return entities.Proposal{}, domainerrors.ErrConflict
	}
	s.proposals[id] = proposal
	return proposal, nil
}

func (s *Store) ListProposalsByProject(_ context.Context, projectID string) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.ProjectID == strings.TrimSpace(projectID) {
			items = append(items, proposal)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ProposalID < items[j].ProposalID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListVotesForProposal(_ context.Context, proposalID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.ProposalID == strings.TrimSpace(proposalID) {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].VoteID < items[j].VoteID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// CreateVote enforces the (proposal, user) uniqueness under the write lock.
func (s *Store) CreateVote(_ context.Context, vote entities.Vote) (entities.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voteKey{proposalID: vote.ProposalID, userID: vote.UserID}
	if _, exists := s.votesByVoter[key]; exists {
		return entities.Vote{}, domainerrors.ErrAlreadyVoted
	}
	if _, exists := s.votes[vote.VoteID]; exists {
		return entities.Vote{}, domainerrors.ErrConflict
	}
	s.votes[vote.VoteID] = vote
	s.votesByVoter[key] = vote.VoteID
	return vote, nil
}

func (s *Store) FindVote(_ context.Context, proposalID string, userID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voteID, ok := s.votesByVoter[voteKey{proposalID: strings.TrimSpace(proposalID), userID: strings.TrimSpace(userID)}]
	if !ok {
		return entities.Vote{}, false, nil
	}
	return s.votes[voteID], true, nil
}

func (s *Store) FindOrCreateUser(_ context.Context, candidate entities.User) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	address := strings.ToLower(strings.TrimSpace(candidate.Address))
	if userID, ok := s.usersByAddr[address]; ok {
		return s.users[userID], nil
	}
	candidate.Address = address
	s.users[candidate.UserID] = candidate
	s.usersByAddr[address] = candidate.UserID
	return candidate, nil
}

// UserCount is used by tests to assert that failed commands leave no users behind.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) CreatePurchase(_ context.Context, purchase entities.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases = append(s.purchases, purchase)
	return nil
}

func (s *Store) ListPurchasesByProject(_ context.Context, projectID string) ([]entities.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Purchase, 0)
	for _, purchase := range s.purchases {
		if purchase.ProjectID == strings.TrimSpace(projectID) {
			items = append(items, purchase)
		}
	}
	return items, nil
}

func (s *Store) GetPriceState(_ context.Context, projectID string) (entities.PriceState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.priceSessions[strings.TrimSpace(projectID)]
	return state, ok, nil
}

func (s *Store) SavePriceState(_ context.Context, projectID string, state entities.PriceState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceSessions[strings.TrimSpace(projectID)] = state
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if _, exists := s.outbox[outboxID]; exists {
		return nil
	}
	s.outbox[outboxID] = ports.OutboxMessage{
		OutboxID:     outboxID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	s.outboxOrder = append(s.outboxOrder, outboxID)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.Status != outbox.StatusPending {
			continue
		}
		items = append(items, row)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].OutboxID < items[j].OutboxID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	published := publishedAt.UTC()
	row.Status = outbox.StatusPublished
	row.PublishedAt = &published
	s.outbox[row.OutboxID] = row
	return nil
}

// OutboxEventTypes lists every appended event type in creation order.
func (s *Store) OutboxEventTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]string, 0, len(s.outboxOrder))
	for _, outboxID := range s.outboxOrder {
		types = append(types, s.outbox[outboxID].EventType)
	}
	return types
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fixedNow != nil {
		return *s.fixedNow
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.ProjectRepository = (*Store)(nil)
var _ ports.ProposalRepository = (*Store)(nil)
var _ ports.VoteRepository = (*Store)(nil)
var _ ports.UserRepository = (*Store)(nil)
var _ ports.PurchaseRepository = (*Store)(nil)
var _ ports.PriceSessionStore = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)

// Package postgresadapter persists governance records through gorm. The same
// repository runs on PostgreSQL in production and on SQLite for local runs and
// tests.
package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"
	"desci/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates every governance table and index.
func (r *Repository) Migrate(ctx context.Context) error {
	err := r.db.WithContext(ctx).AutoMigrate(
		&projectModel{},
		&proposalModel{},
		&voteModel{},
		&userModel{},
		&purchaseModel{},
		&outboxModel{},
	)
	if err != nil {
		return r.logError("governance_repo_migrate_failed", err)
	}
	return nil
}

func (r *Repository) CreateProject(ctx context.Context, project entities.Project) (entities.Project, error) {
	row := projectModel{
		ID:             strings.TrimSpace(project.ProjectID),
		Title:          project.Title,
		RoyaltyToken:   strings.TrimSpace(project.RoyaltyToken),
		InitialPrice:   project.InitialPrice,
		CreatorAddress: strings.TrimSpace(project.CreatorAddress),
		CreatedAt:      project.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Project{}, domainerrors.ErrConflict
		}
		return entities.Project{}, r.logError("governance_repo_create_project_failed", err, "project_id", row.ID)
	}
	return row.toEntity(), nil
}

func (r *Repository) FindProject(ctx context.Context, projectID string) (entities.Project, error) {
	var row projectModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(projectID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Project{}, domainerrors.ErrProjectNotFound
		}
		return entities.Project{}, r.logError("governance_repo_find_project_failed", err, "project_id", strings.TrimSpace(projectID))
	}
	return row.toEntity(), nil
}

func (r *Repository) FindProposal(ctx context.Context, proposalID string) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(proposalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, r.logError("governance_repo_find_proposal_failed", err, "proposal_id", strings.TrimSpace(proposalID))
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateProposal(ctx context.Context, proposal entities.Proposal) (entities.Proposal, error) {
	row := proposalModel{
		ID:          strings.TrimSpace(proposal.ProposalID),
		ProjectID:   strings.TrimSpace(proposal.ProjectID),
		CreatorID:   strings.TrimSpace(proposal.CreatorID),
		Title:       proposal.Title,
		Description: proposal.Description,
		Status:      string(proposal.Status),
		CreatedAt:   proposal.CreatedAt.UTC(),
		EndsAt:      proposal.EndsAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Proposal{}, domainerrors.ErrConflict
		}
		return entities.Proposal{}, r.logError("governance_repo_create_proposal_failed", err,
			"proposal_id", row.ID,
			"project_id", row.ProjectID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProposalsByProject(ctx context.Context, projectID string) ([]entities.Proposal, error) {
	var rows []proposalModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", strings.TrimSpace(projectID)).
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_proposals_failed", err, "project_id", strings.TrimSpace(projectID))
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListVotesForProposal(ctx context.Context, proposalID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_votes_failed", err, "proposal_id", strings.TrimSpace(proposalID))
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// CreateVote relies on uq_votes_proposal_user; a concurrent duplicate that
// slipped past FindVote surfaces as ErrAlreadyVoted.
func (r *Repository) CreateVote(ctx context.Context, vote entities.Vote) (entities.Vote, error) {
	row := voteModel{
		ID:         strings.TrimSpace(vote.VoteID),
		ProposalID: strings.TrimSpace(vote.ProposalID),
		UserID:     strings.TrimSpace(vote.UserID),
		Choice:     string(vote.Choice),
		Weight:     strings.TrimSpace(vote.Weight),
		CreatedAt:  vote.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Vote{}, domainerrors.ErrAlreadyVoted
		}
		return entities.Vote{}, r.logError("governance_repo_create_vote_failed", err,
			"vote_id", row.ID,
			"proposal_id", row.ProposalID,
			"user_id", row.UserID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) FindVote(ctx context.Context, proposalID string, userID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("governance_repo_find_vote_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) FindOrCreateUser(ctx context.Context, candidate entities.User) (entities.User, error) {
	row := userModel{
		ID:        strings.TrimSpace(candidate.UserID),
		Address:   strings.ToLower(strings.TrimSpace(candidate.Address)),
		CreatedAt: candidate.CreatedAt.UTC(),
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return entities.User{}, r.logError("governance_repo_create_user_failed", create.Error, "address", row.Address)
	}
	if create.RowsAffected > 0 {
		return row.toEntity(), nil
	}

	var existing userModel
	if err := r.db.WithContext(ctx).
		Where("address = ?", row.Address).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, r.logError("governance_repo_load_user_failed", err, "address", row.Address)
	}
	return existing.toEntity(), nil
}

func (r *Repository) CreatePurchase(ctx context.Context, purchase entities.Purchase) error {
	row := purchaseModel{
		ID:         strings.TrimSpace(purchase.PurchaseID),
		ProjectID:  strings.TrimSpace(purchase.ProjectID),
		UserID:     strings.TrimSpace(purchase.UserID),
		Amount:     purchase.Amount,
		UnitPrice:  purchase.UnitPrice,
		PriceAfter: purchase.PriceAfter,
		CreatedAt:  purchase.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("governance_repo_create_purchase_failed", err,
			"purchase_id", row.ID,
			"project_id", row.ProjectID,
		)
	}
	return nil
}

func (r *Repository) ListPurchasesByProject(ctx context.Context, projectID string) ([]entities.Purchase, error) {
	var rows []purchaseModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", strings.TrimSpace(projectID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_purchases_failed", err, "project_id", strings.TrimSpace(projectID))
	}
	items := make([]entities.Purchase, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("governance_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      datatypes.JSON(payload),
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("governance_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Order("outbox_id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			Status:       row.Status,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("governance_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/governance-accounting",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("governance repository operation failed", fields...)
	return fmt.Errorf("%w: %w", domainerrors.ErrPersistence, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

var _ ports.ProjectRepository = (*Repository)(nil)
var _ ports.ProposalRepository = (*Repository)(nil)
var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.UserRepository = (*Repository)(nil)
var _ ports.PurchaseRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)

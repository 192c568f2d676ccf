package postgresadapter

import (
	"time"

	"desci/contexts/governance/governance-accounting/domain/entities"

	"gorm.io/datatypes"
)

type projectModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	Title          string    `gorm:"column:title;not null"`
	RoyaltyToken   string    `gorm:"column:royalty_token;size:42;not null;index"`
	InitialPrice   float64   `gorm:"column:initial_price;not null"`
	CreatorAddress string    `gorm:"column:creator_address;size:42"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (projectModel) TableName() string {
	return "projects"
}

func (m projectModel) toEntity() entities.Project {
	return entities.Project{
		ProjectID:      m.ID,
		Title:          m.Title,
		RoyaltyToken:   m.RoyaltyToken,
		InitialPrice:   m.InitialPrice,
		CreatorAddress: m.CreatorAddress,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type proposalModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProjectID   string    `gorm:"column:project_id;not null;index"`
	CreatorID   string    `gorm:"column:creator_id;not null"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	Status      string    `gorm:"column:status;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	EndsAt      time.Time `gorm:"column:ends_at;not null"`
}

func (proposalModel) TableName() string {
	return "proposals"
}

func (m proposalModel) toEntity() entities.Proposal {
	return entities.Proposal{
		ProposalID:  m.ID,
		ProjectID:   m.ProjectID,
		CreatorID:   m.CreatorID,
		Title:       m.Title,
		Description: m.Description,
		Status:      entities.ProposalStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		EndsAt:      m.EndsAt.UTC(),
	}
}

// voteModel carries the compound unique index that closes the double-vote
// race. Weight is text so no driver coerces it into a float.
type voteModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ProposalID string    `gorm:"column:proposal_id;not null;uniqueIndex:uq_votes_proposal_user,priority:1"`
	UserID     string    `gorm:"column:user_id;not null;uniqueIndex:uq_votes_proposal_user,priority:2"`
	Choice     string    `gorm:"column:choice;size:16;not null"`
	Weight     string    `gorm:"column:weight;type:varchar(80);not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:     m.ID,
		ProposalID: m.ProposalID,
		UserID:     m.UserID,
		Choice:     entities.VoteChoice(m.Choice),
		Weight:     m.Weight,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type userModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Address   string    `gorm:"column:address;size:42;not null;uniqueIndex:uq_users_address"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string {
	return "users"
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		UserID:    m.ID,
		Address:   m.Address,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type purchaseModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ProjectID  string    `gorm:"column:project_id;not null;index"`
	UserID     string    `gorm:"column:user_id;not null"`
	Amount     float64   `gorm:"column:amount;not null"`
	UnitPrice  float64   `gorm:"column:unit_price;not null"`
	PriceAfter float64   `gorm:"column:price_after;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (purchaseModel) TableName() string {
	return "purchases"
}

func (m purchaseModel) toEntity() entities.Purchase {
	return entities.Purchase{
		PurchaseID: m.ID,
		ProjectID:  m.ProjectID,
		UserID:     m.UserID,
		Amount:     m.Amount,
		UnitPrice:  m.UnitPrice,
		PriceAfter: m.PriceAfter,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string         `gorm:"column:outbox_id;primaryKey"`
	EventType    string         `gorm:"column:event_type;not null"`
	PartitionKey string         `gorm:"column:partition_key"`
	Payload      datatypes.JSON `gorm:"column:payload"`
	Status       string         `gorm:"column:status;not null;index"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	PublishedAt  *time.Time     `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "governance_outbox"
}

package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
)

const agentCollection = "agents"

type AgentRepository struct {
	coll *mongo.Collection
}

func NewAgentRepository(db *mongo.Database) *AgentRepository {
	return &AgentRepository{coll: db.Collection(agentCollection)}
}

type mongoAgent struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	Name              string               `bson:"name"`
	Email             string               `bson:"email"`
	Mobile            string               `bson:"mobile"`
	PasswordHash      string               `bson:"password_hash"`
	Active            bool                 `bson:"active"`
	AssignedCustomers []primitive.ObjectID `bson:"assigned_customers"`
	CreatedAt         int64                `bson:"created_at"`
}

func (m mongoAgent) toDomain() *domain.Agent {
	assigned := make([]string, 0, len(m.AssignedCustomers))
	for _, id := range m.AssignedCustomers {
		assigned = append(assigned, id.Hex())
	}
	return &domain.Agent{
		ID:                m.ID.Hex(),
		Name:              m.Name,
		Email:             m.Email,
		Mobile:            m.Mobile,
		PasswordHash:      m.PasswordHash,
		Active:            m.Active,
		AssignedCustomers: assigned,
		CreatedAt:         unixToTime(m.CreatedAt),
	}
}

func (r *AgentRepository) Create(ctx context.Context, agent *domain.Agent) (*domain.Agent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAgent{
		Name:              agent.Name,
		Email:             agent.Email,
		Mobile:            agent.Mobile,
		PasswordHash:      agent.PasswordHash,
		Active:            agent.Active,
		AssignedCustomers: []primitive.ObjectID{},
		CreatedAt:         agent.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAgentExists
		}
		return nil, fmt.Errorf("insert agent: %w", err)
	}

	created := *agent
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.AssignedCustomers = []string{}
	return &created, nil
}

// List returns all agents in insertion order. ObjectIDs are monotonically
// increasing, so sorting by _id preserves creation order.
func (r *AgentRepository) List(ctx context.Context) ([]*domain.Agent, error) {
	return r.find(ctx, bson.M{}, 0)
}

// FindActive returns up to limit agents flagged active, in insertion order.
func (r *AgentRepository) FindActive(ctx context.Context, limit int) ([]*domain.Agent, error) {
	return r.find(ctx, bson.M{"active": true}, int64(limit))
}

func (r *AgentRepository) find(ctx context.Context, filter bson.M, limit int64) ([]*domain.Agent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find agents: %w", err)
	}
	defer cur.Close(ctx)

	var agents []*domain.Agent
	for cur.Next(ctx) {
		var ma mongoAgent
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode agent: %w", err)
		}
		agents = append(agents, ma.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}
	return agents, nil
}

// EnsureIndexes creates the unique email index on the agents collection.
func (r *AgentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

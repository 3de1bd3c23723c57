package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
	"github.com/leadpilot/lead-distribution/internal/core/ports"
)

// DistributionStore runs the multi-collection write phases of the system
// inside MongoDB transactions, so a mid-operation failure cannot leave agents
// and customers inconsistent.
type DistributionStore struct {
	client    *mongo.Client
	agents    *mongo.Collection
	customers *mongo.Collection
}

func NewDistributionStore(client *mongo.Client, db *mongo.Database) *DistributionStore {
	return &DistributionStore{
		client:    client,
		agents:    db.Collection(agentCollection),
		customers: db.Collection(customerCollection),
	}
}

// ReplaceAll deletes every customer, inserts the new batch in file order, and
// rewrites all agent assignment lists in a single transaction. Every agent's
// list is reset: the old customer set is gone, so stale references must not
// survive on agents that received nothing this round.
func (s *DistributionStore) ReplaceAll(ctx context.Context, rows []ports.AssignedRow) ([]domain.Customer, error) {
	now := time.Now().UTC()

	docs := make([]interface{}, 0, len(rows))
	result := make([]domain.Customer, 0, len(rows))
	assignments := make(map[string][]primitive.ObjectID)

	for _, row := range rows {
		agentOID, err := primitive.ObjectIDFromHex(row.AgentID)
		if err != nil {
			return nil, fmt.Errorf("invalid agent id %q: %w", row.AgentID, err)
		}
		oid := primitive.NewObjectID()
		docs = append(docs, mongoCustomer{
			ID:            oid,
			FirstName:     row.FirstName,
			Phone:         row.Phone,
			Notes:         row.Notes,
			AssignedAgent: agentOID,
			UploadedAt:    now.Unix(),
		})
		assignments[row.AgentID] = append(assignments[row.AgentID], oid)
		result = append(result, domain.Customer{
			ID:            oid.Hex(),
			FirstName:     row.FirstName,
			Phone:         row.Phone,
			Notes:         row.Notes,
			AssignedAgent: row.AgentID,
			UploadedAt:    now,
		})
	}

	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := s.customers.DeleteMany(sc, bson.M{}); err != nil {
			return fmt.Errorf("delete customers: %w", err)
		}
		if _, err := s.agents.UpdateMany(sc, bson.M{},
			bson.M{"$set": bson.M{"assigned_customers": []primitive.ObjectID{}}}); err != nil {
			return fmt.Errorf("clear assignments: %w", err)
		}
		if len(docs) > 0 {
			if _, err := s.customers.InsertMany(sc, docs); err != nil {
				return fmt.Errorf("insert customers: %w", err)
			}
		}
		for agentID, customerIDs := range assignments {
			agentOID, _ := primitive.ObjectIDFromHex(agentID)
			if _, err := s.agents.UpdateOne(sc, bson.M{"_id": agentOID},
				bson.M{"$set": bson.M{"assigned_customers": customerIDs}}); err != nil {
				return fmt.Errorf("update agent %s: %w", agentID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteAgent removes the agent and cascade-deletes its assigned customers in
// one transaction.
func (s *DistributionStore) DeleteAgent(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAgentNotFound
	}

	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.agents.DeleteOne(sc, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("delete agent: %w", err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrAgentNotFound
		}
		if _, err := s.customers.DeleteMany(sc, bson.M{"assigned_agent": oid}); err != nil {
			return fmt.Errorf("delete assigned customers: %w", err)
		}
		return nil
	})
}

func (s *DistributionStore) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAgentNotFound) {
			return domain.ErrAgentNotFound
		}
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
)

const customerCollection = "customers"

type CustomerRepository struct {
	coll *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{coll: db.Collection(customerCollection)}
}

type mongoCustomer struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	FirstName     string             `bson:"first_name"`
	Phone         string             `bson:"phone"`
	Notes         string             `bson:"notes"`
	AssignedAgent primitive.ObjectID `bson:"assigned_agent,omitempty"`
	UploadedAt    int64              `bson:"uploaded_at"`
}

func (m mongoCustomer) toDomain() domain.Customer {
	c := domain.Customer{
		ID:         m.ID.Hex(),
		FirstName:  m.FirstName,
		Phone:      m.Phone,
		Notes:      m.Notes,
		UploadedAt: unixToTime(m.UploadedAt),
	}
	if !m.AssignedAgent.IsZero() {
		c.AssignedAgent = m.AssignedAgent.Hex()
	}
	return c
}

// FindByIDs resolves customer records for the given IDs, keyed by ID. Invalid
// or unknown IDs are silently skipped.
func (r *CustomerRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Customer, error) {
	result := make(map[string]domain.Customer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var mc mongoCustomer
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode customer: %w", err)
		}
		c := mc.toDomain()
		result[c.ID] = c
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return result, nil
}

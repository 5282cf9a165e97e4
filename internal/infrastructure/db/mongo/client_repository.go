package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/syncflow/syncflow-api/internal/core/domain"
	"github.com/syncflow/syncflow-api/internal/core/ports"
)

type ClientRepository struct {
	coll *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{coll: db.Collection(CollectionClients)}
}

type clientDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Company   string             `bson:"company,omitempty"`
	CreatedBy primitive.ObjectID `bson:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *clientDoc) toDomain() *domain.Client {
	return &domain.Client{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Company:   d.Company,
		CreatedBy: optionalHex(d.CreatedBy),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	createdBy, err := objectID(c.CreatedBy)
	if err != nil {
		return nil, translate(err, "insert client")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := clientDoc{
		ID:        primitive.NewObjectID(),
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		CreatedBy: createdBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, "insert client")
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err, "find client")
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Client, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	return r.find(ctx, bson.M{})
}

func (r *ClientRepository) find(ctx context.Context, filter bson.M) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, translate(err, "find clients")
	}
	var docs []clientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode clients")
	}

	out := make([]*domain.Client, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ClientRepository) Update(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Company != nil {
		set["company"] = *patch.Company
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translate(err, "update client")
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "delete client")
}

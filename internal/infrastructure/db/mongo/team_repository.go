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

type TeamRepository struct {
	coll *mongo.Collection
}

func NewTeamRepository(db *mongo.Database) *TeamRepository {
	return &TeamRepository{coll: db.Collection(CollectionTeams)}
}

type teamDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Leader    primitive.ObjectID   `bson:"leader,omitempty"`
	Members   []primitive.ObjectID `bson:"members"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (d *teamDoc) toDomain() *domain.Team {
	return &domain.Team{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		LeaderID:  optionalHex(d.Leader),
		MemberIDs: hexes(d.Members),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func teamIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "members", Value: 1}}},
		{Keys: bson.D{{Key: "leader", Value: 1}}},
	}
}

// optionalObjectID parses a nullable reference; "" is the zero id.
func optionalObjectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	return objectID(id)
}

func (r *TeamRepository) Create(ctx context.Context, t *domain.Team) (*domain.Team, error) {
	leader, err := optionalObjectID(t.LeaderID)
	if err != nil {
		return nil, translate(err, "insert team")
	}
	members, err := strictObjectIDs(t.MemberIDs)
	if err != nil {
		return nil, translate(err, "insert team")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := teamDoc{
		ID:        primitive.NewObjectID(),
		Name:      t.Name,
		Leader:    leader,
		Members:   members,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, "insert team")
	}
	return doc.toDomain(), nil
}

func (r *TeamRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Team, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *TeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	return r.find(ctx, bson.M{})
}

// ListByUser returns the teams userID is a member or the leader of.
func (r *TeamRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Team, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, nil
	}
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"members": oid},
		bson.M{"leader": oid},
	}})
}

func (r *TeamRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Team, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, nil
	}
	return r.find(ctx, bson.M{"members": oid})
}

func (r *TeamRepository) find(ctx context.Context, filter bson.M) ([]*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate(err, "find teams")
	}
	var docs []teamDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode teams")
	}

	out := make([]*domain.Team, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *TeamRepository) Update(ctx context.Context, id string, patch ports.TeamPatch) (*domain.Team, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	update := bson.M{"$set": set}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.LeaderID != nil {
		if *patch.LeaderID == "" {
			update["$unset"] = bson.M{"leader": ""}
		} else {
			leader, err := objectID(*patch.LeaderID)
			if err != nil {
				return nil, translate(err, "update team")
			}
			set["leader"] = leader
		}
	}
	if patch.MemberIDs != nil {
		members, err := strictObjectIDs(*patch.MemberIDs)
		if err != nil {
			return nil, translate(err, "update team")
		}
		set["members"] = members
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc teamDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, translate(err, "update team")
	}
	return doc.toDomain(), nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "delete team")
}

// RemoveUser pulls userID from every member list and clears it as leader.
func (r *TeamRepository) RemoveUser(ctx context.Context, userID string) error {
	oid, err := objectID(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.UpdateMany(ctx, bson.M{"members": oid}, bson.M{"$pull": bson.M{"members": oid}}); err != nil {
		return translate(err, "remove team member")
	}
	if _, err := r.coll.UpdateMany(ctx, bson.M{"leader": oid}, bson.M{"$unset": bson.M{"leader": ""}}); err != nil {
		return translate(err, "remove team leader")
	}
	return nil
}

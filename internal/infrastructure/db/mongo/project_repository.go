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

type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(CollectionProjects)}
}

type projectDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Title         string               `bson:"title"`
	Description   string               `bson:"description,omitempty"`
	Deadline      *time.Time           `bson:"deadline,omitempty"`
	Status        string               `bson:"status"`
	Client        primitive.ObjectID   `bson:"client"`
	AssignedTeams []primitive.ObjectID `bson:"assignedTeams"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (d *projectDoc) toDomain() *domain.Project {
	p := &domain.Project{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.ProjectStatus(d.Status),
		ClientID:    optionalHex(d.Client),
		TeamIDs:     hexes(d.AssignedTeams),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.Deadline != nil {
		deadline := d.Deadline.UTC()
		p.Deadline = &deadline
	}
	return p
}

func projectIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignedTeams", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	client, err := objectID(p.ClientID)
	if err != nil {
		return nil, translate(err, "insert project")
	}
	teams, err := strictObjectIDs(p.TeamIDs)
	if err != nil {
		return nil, translate(err, "insert project")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := projectDoc{
		ID:            primitive.NewObjectID(),
		Title:         p.Title,
		Description:   p.Description,
		Deadline:      p.Deadline,
		Status:        string(p.Status),
		Client:        client,
		AssignedTeams: teams,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, "insert project")
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc projectDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err, "find project")
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Project, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	return r.find(ctx, bson.M{})
}

// ListByTeams returns projects assigned to at least one of teamIDs.
func (r *ProjectRepository) ListByTeams(ctx context.Context, teamIDs []string) ([]*domain.Project, error) {
	oids := objectIDs(teamIDs)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"assignedTeams": bson.M{"$in": oids}})
}

func (r *ProjectRepository) find(ctx context.Context, filter bson.M) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, translate(err, "find projects")
	}
	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode projects")
	}

	out := make([]*domain.Project, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, patch ports.ProjectPatch) (*domain.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Deadline != nil {
		set["deadline"] = patch.Deadline.UTC()
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.ClientID != nil {
		client, err := objectID(*patch.ClientID)
		if err != nil {
			return nil, translate(err, "update project")
		}
		set["client"] = client
	}
	if patch.TeamIDs != nil {
		teams, err := strictObjectIDs(*patch.TeamIDs)
		if err != nil {
			return nil, translate(err, "update project")
		}
		set["assignedTeams"] = teams
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc projectDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translate(err, "update project")
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "delete project")
}

// RemoveTeam pulls teamID from every project's assignedTeams.
func (r *ProjectRepository) RemoveTeam(ctx context.Context, teamID string) error {
	oid, err := objectID(teamID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateMany(ctx,
		bson.M{"assignedTeams": oid},
		bson.M{"$pull": bson.M{"assignedTeams": oid}},
	)
	return translate(err, "remove project team")
}

func (r *ProjectRepository) CountByStatus(ctx context.Context) ([]domain.ProjectStatusCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err, "aggregate project status")
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err, "decode project status")
	}

	out := make([]domain.ProjectStatusCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ProjectStatusCount{Status: domain.ProjectStatus(row.Status), Count: row.Count})
	}
	return out, nil
}

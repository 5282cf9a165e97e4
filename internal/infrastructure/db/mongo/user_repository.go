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

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(CollectionUsers)}
}

type userDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Password         string             `bson:"password"`
	Role             string             `bson:"role"`
	Specialization   string             `bson:"specialization,omitempty"`
	RefreshTokenHash string             `bson:"refreshToken,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		PasswordHash:     d.Password,
		Role:             domain.Role(d.Role),
		Specialization:   d.Specialization,
		RefreshTokenHash: d.RefreshTokenHash,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		ID:             primitive.NewObjectID(),
		Name:           user.Name,
		Email:          user.Email,
		Password:       user.PasswordHash,
		Role:           string(user.Role),
		Specialization: user.Specialization,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, "insert user")
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err, "find user")
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate(err, "find users")
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode users")
	}

	out := make([]*domain.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Role != nil {
		set["role"] = string(*patch.Role)
	}
	if patch.Specialization != nil {
		set["specialization"] = *patch.Specialization
	}
	return r.findOneAndUpdate(ctx, oid, bson.M{"$set": set})
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, translate(err, "update user")
	}
	return doc.toDomain(), nil
}

// SetRefreshTokenHash stores hash, or removes the stored hash when empty.
func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, id, hash string) error {
	update := bson.M{"$set": bson.M{"refreshToken": hash}}
	if hash == "" {
		update = bson.M{"$unset": bson.M{"refreshToken": ""}}
	}
	return r.updateOne(ctx, id, update)
}

// SetPasswordHash replaces the password and revokes the stored refresh token.
func (r *UserRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"password": hash, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"refreshToken": ""},
	})
}

func (r *UserRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translate(err, "update user")
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "delete user")
}

// deleteByID removes one document, reporting ErrNotFound when none matched.
func deleteByID(ctx context.Context, coll *mongo.Collection, id, op string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translate(err, op)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

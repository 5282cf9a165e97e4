package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// objectID parses a hex id. Malformed ids cannot name a document, so they
// are reported as ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

// objectIDs parses ids, skipping the malformed ones.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// strictObjectIDs parses ids and fails on the first malformed one.
func strictObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return nil, fmt.Errorf("reference %q: %w", id, err)
		}
		out = append(out, oid)
	}
	return out, nil
}

func hexes(oids []primitive.ObjectID) []string {
	out := make([]string, 0, len(oids))
	for _, oid := range oids {
		out = append(out, oid.Hex())
	}
	return out
}

// optionalHex renders a nullable reference.
func optionalHex(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

// translate maps driver errors onto domain error kinds.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments), errors.Is(err, domain.ErrNotFound):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

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

type InvoiceRepository struct {
	coll *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{coll: db.Collection(CollectionInvoices)}
}

type invoiceDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	InvoiceNumber string             `bson:"invoiceNumber"`
	Project       primitive.ObjectID `bson:"project"`
	Client        primitive.ObjectID `bson:"client"`
	Amount        float64            `bson:"amount"`
	Status        string             `bson:"status"`
	DueDate       time.Time          `bson:"dueDate"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *invoiceDoc) toDomain() domain.Invoice {
	return domain.Invoice{
		ID:            d.ID.Hex(),
		InvoiceNumber: d.InvoiceNumber,
		ProjectID:     optionalHex(d.Project),
		ClientID:      optionalHex(d.Client),
		Amount:        d.Amount,
		Status:        domain.InvoiceStatus(d.Status),
		DueDate:       d.DueDate.UTC(),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func invoiceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "invoiceNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
	}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	project, err := objectID(inv.ProjectID)
	if err != nil {
		return nil, translate(err, "insert invoice")
	}
	client, err := objectID(inv.ClientID)
	if err != nil {
		return nil, translate(err, "insert invoice")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := invoiceDoc{
		ID:            primitive.NewObjectID(),
		InvoiceNumber: inv.InvoiceNumber,
		Project:       project,
		Client:        client,
		Amount:        inv.Amount,
		Status:        string(inv.Status),
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err, "insert invoice")
	}
	created := doc.toDomain()
	return &created, nil
}

func (r *InvoiceRepository) List(ctx context.Context) ([]*domain.Invoice, error) {
	docs, err := r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Invoice, 0, len(docs))
	for i := range docs {
		inv := docs[i].toDomain()
		out = append(out, &inv)
	}
	return out, nil
}

// RevenueBuckets sums paid invoices created at or after since per grain
// bucket; a zero since means no lower bound.
func (r *InvoiceRepository) RevenueBuckets(ctx context.Context, since time.Time, grain domain.Grain) ([]domain.RevenueBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Aggregate(ctx, revenuePipeline(since, grain))
	if err != nil {
		return nil, translate(err, "aggregate revenue")
	}

	var rows []struct {
		Key struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
			Day   int `bson:"day"`
		} `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err, "decode revenue")
	}

	out := make([]domain.RevenueBucket, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RevenueBucket{
			Key:   domain.BucketKey{Year: row.Key.Year, Month: row.Key.Month, Day: row.Key.Day},
			Total: row.Total,
		})
	}
	return out, nil
}

// revenuePipeline matches paid invoices in the window, groups them by the
// calendar parts of createdAt down to grain and sorts the buckets ascending.
func revenuePipeline(since time.Time, grain domain.Grain) mongo.Pipeline {
	match := bson.D{{Key: "status", Value: string(domain.InvoicePaid)}}
	if !since.IsZero() {
		match = append(match, bson.E{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since.UTC()}}})
	}

	parts := []struct {
		name, op string
		grain    domain.Grain
	}{
		{"year", "$year", domain.GrainYear},
		{"month", "$month", domain.GrainMonth},
		{"day", "$dayOfMonth", domain.GrainDay},
	}
	var id, sort bson.D
	for _, p := range parts {
		if grain < p.grain {
			break
		}
		id = append(id, bson.E{Key: p.name, Value: bson.D{{Key: p.op, Value: "$createdAt"}}})
		sort = append(sort, bson.E{Key: "_id." + p.name, Value: 1})
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		{{Key: "$sort", Value: sort}},
	}
}

func (r *InvoiceRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]invoiceDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, "find invoices")
	}
	var docs []invoiceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode invoices")
	}
	return docs, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, id string, patch ports.InvoicePatch) (*domain.Invoice, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.ProjectID != nil {
		project, err := objectID(*patch.ProjectID)
		if err != nil {
			return nil, translate(err, "update invoice")
		}
		set["project"] = project
	}
	if patch.ClientID != nil {
		client, err := objectID(*patch.ClientID)
		if err != nil {
			return nil, translate(err, "update invoice")
		}
		set["client"] = client
	}
	if patch.Amount != nil {
		set["amount"] = *patch.Amount
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.DueDate != nil {
		set["dueDate"] = patch.DueDate.UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc invoiceDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translate(err, "update invoice")
	}
	updated := doc.toDomain()
	return &updated, nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, "delete invoice")
}

// TotalsByStatus sums invoice amounts per status across all time.
func (r *InvoiceRepository) TotalsByStatus(ctx context.Context) ([]domain.InvoiceStatusTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err, "aggregate invoice totals")
	}

	var rows []struct {
		Status string  `bson:"_id"`
		Total  float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err, "decode invoice totals")
	}

	out := make([]domain.InvoiceStatusTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.InvoiceStatusTotal{Status: domain.InvoiceStatus(row.Status), Total: row.Total})
	}
	return out, nil
}

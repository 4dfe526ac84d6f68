package payslip

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	paysliperrors "go-tutorhub/internal/payslip/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const payslipCollection = "payslips"

// mongoRepository stores each payslip as one document. Single-document
// writes are atomic, so WithTx has nothing to bind; the version filter on
// ReplaceOne gives the same compare-and-swap as the SQL store.
type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{coll: db.Collection(payslipCollection)}
}

// EnsureMongoIndexes creates the owner/period unique index and the status index.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(payslipCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "payPeriod", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(ownerPeriodConstraint),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_payslip_status"),
		},
	})
	return err
}

func (r *mongoRepository) WithTx(_ *sql.Tx) Repository {
	return r
}

func (r *mongoRepository) Create(ctx context.Context, p *Payslip) error {
	doc, err := toDocument(p)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return mapRepositoryError(err)
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoRepository) FindByOwnerAndPeriod(ctx context.Context, userID, payPeriod string) (*Payslip, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "payPeriod": payPeriod})
}

func (r *mongoRepository) findOne(ctx context.Context, filter bson.M) (*Payslip, error) {
	var raw bson.M
	if err := r.coll.FindOne(ctx, filter).Decode(&raw); err != nil {
		return nil, mapRepositoryError(err)
	}
	return fromDocument(raw)
}

func (r *mongoRepository) FindAll(ctx context.Context, filter QueryFilter) ([]Payslip, int64, error) {
	q := bson.M{}
	if filter.Status != nil {
		q["status"] = string(*filter.Status)
	}
	if filter.UserID != nil {
		q["userId"] = *filter.UserID
	}
	if filter.PayPeriod != nil {
		q["payPeriod"] = *filter.PayPeriod
	}

	total, err := r.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, mapRepositoryError(err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "payPeriod", Value: -1}, {Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit)).SetSkip(int64(filter.Offset))
	}
	cursor, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, mapRepositoryError(err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, 0, err
	}

	payslips := make([]Payslip, 0, len(raws))
	for _, raw := range raws {
		p, err := fromDocument(raw)
		if err != nil {
			return nil, 0, err
		}
		payslips = append(payslips, *p)
	}
	return payslips, total, nil
}

func (r *mongoRepository) ExistsForPeriod(ctx context.Context, userID, payPeriod string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx,
		bson.M{"userId": userID, "payPeriod": payPeriod},
		options.Count().SetLimit(1),
	)
	return count > 0, mapRepositoryError(err)
}

func (r *mongoRepository) Update(ctx context.Context, p *Payslip, expectedVersion int64) error {
	p.Version = expectedVersion + 1

	doc, err := toDocument(p)
	if err != nil {
		p.Version = expectedVersion
		return err
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID.String(), "version": expectedVersion}, doc)
	if err != nil {
		p.Version = expectedVersion
		return mapRepositoryError(err)
	}
	if res.MatchedCount == 0 {
		p.Version = expectedVersion
		return paysliperrors.ErrStaleSnapshot
	}
	return nil
}

// documentTimes are stored as BSON dates so they sort chronologically.
var documentTimes = []string{"createdAt", "updatedAt"}

// toDocument goes through the JSON form so money keeps its exact decimal
// string representation; "id" becomes "_id".
func toDocument(p *Payslip) (bson.M, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, err
	}
	doc["_id"] = doc["id"]
	delete(doc, "id")
	doc["createdAt"] = primitive.NewDateTimeFromTime(p.CreatedAt)
	doc["updatedAt"] = primitive.NewDateTimeFromTime(p.UpdatedAt)
	return doc, nil
}

func fromDocument(doc bson.M) (*Payslip, error) {
	doc["id"] = doc["_id"]
	delete(doc, "_id")
	for _, key := range documentTimes {
		if dt, ok := doc[key].(primitive.DateTime); ok {
			doc[key] = dt.Time().UTC().Format(time.RFC3339Nano)
		}
	}

	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, err
	}
	var p Payslip
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

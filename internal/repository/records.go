package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"sgf_service/internal/domain/record"
	ownErrors "sgf_service/internal/errors"
)

const recordsCollection = "records"

type RecordRepository struct {
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewRecordRepository(log *zap.SugaredLogger, mongo *mongo.Database) *RecordRepository {
	return &RecordRepository{
		log:   log,
		mongo: mongo,
	}
}

func (r *RecordRepository) PutRecord(ctx context.Context, rec record.Record) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.mongo.Collection(recordsCollection).InsertOne(ctx, rec)
	if err != nil {
		r.log.Errorf("failed to insert record to database: %v", err)
		return fmt.Errorf("insert record %s: %w", rec.ID, err)
	}

	r.log.Infof("record inserted successfully with id: %s", rec.ID)
	return nil
}

func (r *RecordRepository) GetRecordByID(ctx context.Context, id string) (record.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var found record.Record
	err := r.mongo.Collection(recordsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&found)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return record.Record{}, ownErrors.ErrRecordNotFound
	}
	if err != nil {
		r.log.Error(err)
		return record.Record{}, fmt.Errorf("find record %s: %w", id, err)
	}
	return found, nil
}

// ListRecords returns records newest first, without the parsed tree and text.
func (r *RecordRepository) ListRecords(ctx context.Context, skip int64, limit int64) ([]record.Record, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := r.mongo.Collection(recordsCollection)

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.log.Error(err)
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(bson.M{"collection": 0, "text": 0})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.log.Error(err)
		return nil, 0, fmt.Errorf("find records: %w", err)
	}
	defer cursor.Close(ctx)

	var result []record.Record
	if err = cursor.All(ctx, &result); err != nil {
		r.log.Error(err)
		return nil, 0, fmt.Errorf("decode records: %w", err)
	}
	return result, total, nil
}

func (r *RecordRepository) DeleteRecord(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.mongo.Collection(recordsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.log.Error(err)
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ownErrors.ErrRecordNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	trainserrors "railbook/internal/trains/errors"
	"railbook/pkg/config"
	mongodb "railbook/pkg/db/mongo"
	"railbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var scheduleOrder = bson.D{{Key: "schedule_date", Value: 1}, {Key: "_id", Value: 1}}

type mongoTrainRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTrainRepository(cfg *config.Config) TrainRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTrainRepository{
		cfg:        cfg,
		collection: db.Collection(TrainsCollection),
	}
}

func (r *mongoTrainRepository) Create(ctx context.Context, train *model.TrainSchedule) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, train); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %d", trainserrors.ErrDuplicateTrain, train.TrainNumber)
		}
		return fmt.Errorf("failed to create train: %w", err)
	}
	return nil
}

func (r *mongoTrainRepository) FindByNumber(ctx context.Context, trainNumber int64) (*model.TrainSchedule, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var train model.TrainSchedule
	if err := r.collection.FindOne(ctx, bson.M{"_id": trainNumber}).Decode(&train); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", trainserrors.ErrNotFound, trainNumber)
		}
		return nil, fmt.Errorf("failed to find train: %w", err)
	}
	return &train, nil
}

func (r *mongoTrainRepository) Search(ctx context.Context, source, destination string) ([]*model.TrainSchedule, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"source": source, "destination": destination}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(scheduleOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to search trains: %w", err)
	}
	defer cursor.Close(ctx)

	trains := []*model.TrainSchedule{}
	if err := cursor.All(ctx, &trains); err != nil {
		return nil, fmt.Errorf("failed to decode trains: %w", err)
	}
	return trains, nil
}

func (r *mongoTrainRepository) DecrementSeats(ctx context.Context, trainNumber int64, count int) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":             trainNumber,
		"seats_available": bson.M{"$gte": count},
	}
	update := bson.M{"$inc": bson.M{"seats_available": -count}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement seats: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": trainNumber})
	if err != nil {
		return fmt.Errorf("failed to check train existence: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", trainserrors.ErrNotFound, trainNumber)
	}
	return fmt.Errorf("%w: train %d, requested %d", trainserrors.ErrInsufficientSeats, trainNumber, count)
}

func (r *mongoTrainRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.TrainSchedule, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(scheduleOrder)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query trains: %w", err)
	}
	defer cursor.Close(ctx)

	trains := []*model.TrainSchedule{}
	if err := cursor.All(ctx, &trains); err != nil {
		return nil, fmt.Errorf("failed to decode trains: %w", err)
	}
	return trains, nil
}

func (r *mongoTrainRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count trains: %w", err)
	}
	return n, nil
}

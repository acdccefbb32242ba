package repository

import (
	"context"
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"rank-service/internal/config"
	"rank-service/internal/repository/model"
	"sync"
	"time"
)

const (
	databaseName = "rank-service"

	rankCollectionName   = "ranks"
	playerCollectionName = "players"

	queryTimeout = 5 * time.Second
)

// rankDocument stores a rank with its creation sequence so ranks load back in
// the order they were created.
type rankDocument struct {
	model.Rank `bson:",inline"`
	Seq        int64 `bson:"seq"`
}

type mongoRepository struct {
	database *mongo.Database

	rankCollection   *mongo.Collection
	playerCollection *mongo.Collection
}

func NewMongoRepository(ctx context.Context, logger *zap.SugaredLogger, wg *sync.WaitGroup, cfg config.MongoDBConfig) (Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Info("disconnecting from mongo")
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Errorw("failed to disconnect from mongo", "error", err)
		}
	}()

	database := client.Database(databaseName)
	return &mongoRepository{
		database:         database,
		rankCollection:   database.Collection(rankCollectionName),
		playerCollection: database.Collection(playerCollectionName),
	}, nil
}

func (m *mongoRepository) GetAllRanks(ctx context.Context) ([]*model.Rank, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := m.rankCollection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var mongoResult []model.Rank
	if err := cursor.All(ctx, &mongoResult); err != nil {
		return nil, err
	}

	slice := make([]*model.Rank, len(mongoResult))
	for i := range mongoResult {
		if mongoResult[i].Permissions == nil {
			mongoResult[i].Permissions = []string{}
		}
		slice[i] = &mongoResult[i]
	}

	return slice, nil
}

func (m *mongoRepository) CreateRank(ctx context.Context, rank *model.Rank) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := rank.Clone()
	// $addToSet fails on a null field, so always store an array.
	if doc.Permissions == nil {
		doc.Permissions = []string{}
	}

	_, err := m.rankCollection.InsertOne(ctx, rankDocument{Rank: *doc, Seq: time.Now().UnixNano()})
	if mongo.IsDuplicateKeyError(err) {
		return RankAlreadyExistsError
	}
	return err
}

func (m *mongoRepository) DeleteRank(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// Grants go first. If that fails the rank is untouched.
	result, err := m.rankCollection.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$set": bson.M{"permissions": []string{}}})
	if err != nil {
		return fmt.Errorf("failed to delete rank permissions: %w", err)
	}
	if result.MatchedCount == 0 {
		return RankNotFoundError
	}

	deleted, err := m.rankCollection.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("%w: %w", RankPermissionsClearedError, err)
	}
	if deleted.DeletedCount == 0 {
		return RankNotFoundError
	}

	return nil
}

func (m *mongoRepository) AddRankPermission(ctx context.Context, rank string, permission string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.rankCollection.UpdateOne(ctx, bson.M{"_id": rank}, bson.M{"$addToSet": bson.M{"permissions": permission}})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return RankNotFoundError
	}
	if result.ModifiedCount == 0 {
		return AlreadyHasPermissionError
	}

	return nil
}

func (m *mongoRepository) RemoveRankPermission(ctx context.Context, rank string, permission string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.rankCollection.UpdateOne(ctx, bson.M{"_id": rank}, bson.M{"$pull": bson.M{"permissions": permission}})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return RankNotFoundError
	}
	if result.ModifiedCount == 0 {
		return DoesNotHavePermissionError
	}

	return nil
}

func (m *mongoRepository) GetPlayer(ctx context.Context, name string) (*model.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var result model.Player
	err := m.playerCollection.FindOne(ctx, bson.M{"_id": name}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, PlayerNotFoundError
		}
		return nil, err
	}

	return &result, nil
}

func (m *mongoRepository) SavePlayer(ctx context.Context, player *model.Player) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := m.playerCollection.ReplaceOne(ctx, bson.M{"_id": player.Name}, player, options.Replace().SetUpsert(true))
	return err
}

func (m *mongoRepository) GetPlayerNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := m.playerCollection.Find(ctx, bson.D{}, options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []struct {
		Name string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names, nil
}

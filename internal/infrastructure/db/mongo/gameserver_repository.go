package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

const (
	serverCollection  = "game_servers"
	counterCollection = "counters"
)

// GameServerRepository persists the game-server directory. Numeric ids come
// from a findOneAndUpdate counter document, preserving the small sequential
// ids game servers are addressed by.
type GameServerRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewGameServerRepository(db *mongo.Database) *GameServerRepository {
	return &GameServerRepository{
		coll:     db.Collection(serverCollection),
		counters: db.Collection(counterCollection),
	}
}

type serverDoc struct {
	ID           int64  `bson:"_id"`
	Name         string `bson:"name"`
	Address      string `bson:"address"`
	Description  string `bson:"description"`
	Detail       string `bson:"detail,omitempty"`
	AdminID      string `bson:"admin_id,omitempty"`
	ReporterHost string `bson:"reporter_host"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (d serverDoc) toDomain() *domain.GameServer {
	return &domain.GameServer{
		ID:           d.ID,
		Name:         d.Name,
		Address:      d.Address,
		Description:  d.Description,
		Detail:       d.Detail,
		AdminID:      d.AdminID,
		ReporterHost: d.ReporterHost,
		CreatedAt:    unixToTime(d.CreatedAt),
		UpdatedAt:    unixToTime(d.UpdatedAt),
	}
}

func (r *GameServerRepository) FindByID(ctx context.Context, id int64) (*domain.GameServer, error) {
	var doc serverDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find game server: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GameServerRepository) List(ctx context.Context, skip, limit int64) ([]*domain.GameServer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list game servers: %w", err)
	}
	defer cursor.Close(ctx)

	var servers []*domain.GameServer
	for cursor.Next(ctx) {
		var doc serverDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode game server: %w", err)
		}
		servers = append(servers, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list game servers: %w", err)
	}
	return servers, nil
}

func (r *GameServerRepository) Create(ctx context.Context, server *domain.GameServer) (*domain.GameServer, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := serverDoc{
		ID:           id,
		Name:         server.Name,
		Address:      server.Address,
		Description:  server.Description,
		Detail:       server.Detail,
		AdminID:      server.AdminID,
		ReporterHost: server.ReporterHost,
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.ServerExistsError{Field: conflictField(err, map[string]string{
				"name_unique":    "name",
				"address_unique": "address",
			}, "name")}
		}
		return nil, fmt.Errorf("insert game server: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GameServerRepository) Update(ctx context.Context, id int64, update domain.GameServerUpdate) (*domain.GameServer, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Detail != nil {
		set["detail"] = *update.Detail
	}
	if update.ReporterHost != nil {
		set["reporter_host"] = *update.ReporterHost
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.ServerExistsError{Field: conflictField(err, map[string]string{
				"name_unique":    "name",
				"address_unique": "address",
			}, "name")}
		}
		return nil, fmt.Errorf("update game server: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrServerNotFound
	}
	return r.FindByID(ctx, id)
}

// nextID atomically increments and returns the game-server id sequence.
func (r *GameServerRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": serverCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next game server id: %w", err)
	}
	return counter.Seq, nil
}

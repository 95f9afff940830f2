package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/SaisandeepKv/vernon-clinic-sub000/config"
	"github.com/SaisandeepKv/vernon-clinic-sub000/logger"
)

const RecordsCollection = "records"

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// InitMongo connects the global Mongo client once and ensures indexes on the
// records collection.
func InitMongo(ctx context.Context) error {
	var initErr error
	clientOnce.Do(func() {
		cfg := config.GetConfig()
		uri := cfg.Secrets.MongoURI
		if uri == "" {
			initErr = errors.New("MONGO_URI is not set")
			return
		}
		dbName := cfg.Records.MongoDBName
		if dbName == "" {
			dbName = "vernon"
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			initErr = err
			return
		}
		if err := cl.Ping(ctx, readpref.Primary()); err != nil {
			initErr = err
			return
		}
		client = cl
		db = client.Database(dbName)

		if err := ensureIndexes(ctx, db); err != nil {
			initErr = err
			return
		}
		logger.InfoWithFields("MongoDB connected and indexes ensured", logger.Fields{"database": dbName})
	})
	return initErr
}

func Client() *mongo.Client     { return client }
func Database() *mongo.Database { return db }

// DisconnectMongo is a no-op when InitMongo never succeeded.
func DisconnectMongo(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	col := d.Collection(RecordsCollection)
	// newest first per type, for the front-desk call list
	if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_type_created_at"),
	}); err != nil {
		return err
	}
	if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone_digits", Value: 1}},
		Options: options.Index().SetName("idx_phone_digits"),
	}); err != nil {
		return err
	}
	return nil
}

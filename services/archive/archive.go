// Package archive mirrors completed update runs into MongoDB when a
// connection string is configured. The primary store stays the SQL
// database; the archive only exists for offline analysis of run history.
package archive

import (
	"context"
	"log"
	"time"

	"econdash_backend/services/aggregator"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB names
const (
	databaseName     = "econdash"
	runsCollection   = "update_runs"
	connectTimeout   = 10 * time.Second
	operationTimeout = 10 * time.Second
)

// runDocument is the archived shape of one orchestrator run
type runDocument struct {
	Timestamp time.Time             `bson:"timestamp"`
	Status    string                `bson:"status"`
	Duration  float64               `bson:"duration_seconds"`
	Results   aggregator.RunResults `bson:"results"`
}

// MongoArchive stores run results in MongoDB. A zero URI disables it.
type MongoArchive struct {
	client  *mongo.Client
	enabled bool
}

// NewMongoArchive connects to MongoDB when uri is set. A missing URI or a
// failed connection disables the archive rather than failing startup.
func NewMongoArchive(uri string) *MongoArchive {
	if uri == "" {
		log.Println("MONGODB_URI not set, run archive disabled")
		return &MongoArchive{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Printf("MongoDB connection failed, run archive disabled: %v", err)
		return &MongoArchive{}
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Printf("MongoDB ping failed, run archive disabled: %v", err)
		return &MongoArchive{}
	}

	log.Println("MongoDB run archive enabled")
	return &MongoArchive{client: client, enabled: true}
}

// Enabled reports whether the archive is connected
func (m *MongoArchive) Enabled() bool {
	return m.enabled
}

// ArchiveRun stores one completed run. Failures are logged only; the run
// itself already succeeded or failed on its own terms.
func (m *MongoArchive) ArchiveRun(result *aggregator.UpdateResult) {
	if !m.enabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	doc := runDocument{
		Timestamp: result.Timestamp,
		Status:    result.Status,
		Duration:  result.Duration,
		Results:   result.Results,
	}

	coll := m.client.Database(databaseName).Collection(runsCollection)
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		log.Printf("Failed to archive update run: %v", err)
	}
}

// Close disconnects the MongoDB client
func (m *MongoArchive) Close() {
	if !m.enabled {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
}

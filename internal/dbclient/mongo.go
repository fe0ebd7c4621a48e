package dbclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"formdesk/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoExporter implements Exporter for MongoDB. Submissions become one
// document per response in a per-form collection.
type mongoExporter struct {
	client *mongo.Client
	dbName string
}

func newMongoExporter(target *domain.ExportTarget, password string) (*mongoExporter, error) {
	var uri string

	// If host is already a full connection string (Atlas mongodb+srv:// or
	// standard mongodb://), use it directly. Otherwise build from host:port.
	if strings.HasPrefix(target.Host, "mongodb+srv://") || strings.HasPrefix(target.Host, "mongodb://") {
		uri = target.Host
		// Replace <password> placeholder commonly found in Atlas connection strings
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
			uri = strings.ReplaceAll(uri, "<db_password>", password)
		}
	} else {
		port := target.Port
		if port == 0 {
			port = 27017
		}
		if target.Username != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", target.Username, password, target.Host, port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d", target.Host, port)
		}
	}

	dbName := target.Database
	if dbName == "" {
		dbName = "formdesk"
	}

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	return &mongoExporter{client: client, dbName: dbName}, nil
}

func (e *mongoExporter) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.client.Ping(ctx, nil)
}

func (e *mongoExporter) Export(ctx context.Context, form *domain.Snapshot, subs []domain.Submission) (*ExportResult, error) {
	coll := e.client.Database(e.dbName).Collection(tableName(form))
	cols := exportColumns(form)

	docs := make([]any, 0, len(subs))
	for _, sub := range subs {
		doc := bson.M{
			"submissionId": sub.ID,
			"submittedAt":  sub.CreatedAt,
		}
		for _, c := range cols {
			doc[c.Name] = sub.Values[c.FieldID]
		}
		docs = append(docs, doc)
	}
	if len(docs) > 0 {
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			return nil, fmt.Errorf("insert submissions: %w", err)
		}
	}
	return &ExportResult{Table: coll.Name(), Exported: len(docs)}, nil
}

func (e *mongoExporter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.client.Disconnect(ctx)
}

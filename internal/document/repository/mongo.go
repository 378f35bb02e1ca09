package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/doclab/doclab/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores one BSON document per record keyed by the integer id.
// Ids come from a counter document so they stay monotonic across restarts.
type MongoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

type mongoRecord struct {
	ID            int64                `bson:"_id"`
	Title         string               `bson:"title"`
	Type          string               `bson:"type"`
	Author        string               `bson:"author"`
	LastModified  time.Time            `bson:"lastModified"`
	Version       string               `bson:"version"`
	Status        string               `bson:"status"`
	Description   string               `bson:"description"`
	Project       string               `bson:"project,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt"`
	FileName      string               `bson:"fileName,omitempty"`
	FileSize      int64                `bson:"fileSize"`
	FileFormat    string               `bson:"fileFormat,omitempty"`
	FileKey       string               `bson:"fileKey,omitempty"`
	Tags          []string             `bson:"tags"`
	Permissions   document.Permissions `bson:"permissions"`
	Versions      []document.Version   `bson:"versions"`
	Comments      []document.Comment   `bson:"comments"`
	LastCommentID int64                `bson:"lastCommentId"`
}

func toMongo(d *document.Detail) *mongoRecord {
	return &mongoRecord{
		ID:            d.ID,
		Title:         d.Title,
		Type:          d.Type,
		Author:        d.Author,
		LastModified:  d.LastModified,
		Version:       d.Version,
		Status:        d.Status.String(),
		Description:   d.Description,
		Project:       d.Project,
		CreatedAt:     d.CreatedAt,
		FileName:      d.FileName,
		FileSize:      d.FileSize,
		FileFormat:    d.FileFormat,
		FileKey:       d.FileKey,
		Tags:          d.Tags,
		Permissions:   d.Permissions,
		Versions:      d.Versions,
		Comments:      d.Comments,
		LastCommentID: d.LastCommentID,
	}
}

func (r *mongoRecord) toDetail() (*document.Detail, error) {
	st, err := document.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", r.ID, err)
	}
	return &document.Detail{
		Document: document.Document{
			ID:           r.ID,
			Title:        r.Title,
			Type:         r.Type,
			Author:       r.Author,
			LastModified: r.LastModified,
			Version:      r.Version,
			Status:       st,
		},
		Description:   r.Description,
		Project:       r.Project,
		CreatedAt:     r.CreatedAt,
		FileName:      r.FileName,
		FileSize:      r.FileSize,
		FileFormat:    r.FileFormat,
		FileKey:       r.FileKey,
		Tags:          r.Tags,
		Permissions:   r.Permissions,
		Versions:      r.Versions,
		Comments:      r.Comments,
		LastCommentID: r.LastCommentID,
	}, nil
}

// NewMongoRepo wraps the given database's "documents" and "counters" collections.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{col: db.Collection("documents"), counters: db.Collection("counters")}
}

func (m *MongoRepo) NextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := m.counters.FindOneAndUpdate(ctx, bson.M{"_id": "documents"}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("next document id: %w", err)
	}
	return out.Seq, nil
}

// Insert stores d and raises the id counter past d.ID, so seeded records
// never collide with ids handed out later.
func (m *MongoRepo) Insert(ctx context.Context, d *document.Detail) error {
	if _, err := m.col.InsertOne(ctx, toMongo(d)); err != nil {
		return fmt.Errorf("insert document %d: %w", d.ID, err)
	}
	_, err := m.counters.UpdateOne(ctx, bson.M{"_id": "documents"},
		bson.M{"$max": bson.M{"seq": d.ID}}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("advance document counter: %w", err)
	}
	return nil
}

func (m *MongoRepo) Get(ctx context.Context, id int64) (*document.Detail, error) {
	var rec mongoRecord
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &document.NotFoundError{ID: id}
		}
		return nil, err
	}
	return rec.toDetail()
}

func (m *MongoRepo) List(ctx context.Context) ([]*document.Detail, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Detail{}
	for cur.Next(ctx) {
		var rec mongoRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		d, err := rec.toDetail()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Replace(ctx context.Context, d *document.Detail) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, toMongo(d))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return &document.NotFoundError{ID: d.ID}
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return &document.NotFoundError{ID: id}
	}
	return nil
}

func (m *MongoRepo) Count(ctx context.Context) (int, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{})
	return int(n), err
}

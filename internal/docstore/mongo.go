package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mind-engage/courseplayer/internal/progress"
)

// MongoStore keeps one document per course and one per (learner, course).
type MongoStore struct {
	courses  *mongo.Collection
	progress *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		courses:  db.Collection("courses"),
		progress: db.Collection("progress"),
	}
}

// ConnectMongo dials uri and pings the primary.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

type mongoCourse struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Raw       string    `bson:"raw"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func progressID(learner, courseID string) string { return learner + "/" + courseID }

func (s *MongoStore) PutCourse(ctx context.Context, id, title string, raw json.RawMessage) error {
	doc := mongoCourse{ID: id, Title: title, Raw: string(raw), UpdatedAt: time.Now().UTC()}
	_, err := s.courses.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put course: %w", err)
	}
	return nil
}

func (s *MongoStore) GetCourse(ctx context.Context, id string) (CourseRecord, error) {
	var doc mongoCourse
	err := s.courses.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return CourseRecord{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return CourseRecord{}, fmt.Errorf("get course: %w", err)
	}
	return CourseRecord{ID: doc.ID, Title: doc.Title, Raw: json.RawMessage(doc.Raw), UpdatedAt: doc.UpdatedAt}, nil
}

func (s *MongoStore) ListCourses(ctx context.Context) ([]CourseRecord, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1}).SetProjection(bson.M{"raw": 0})
	cursor, err := s.courses.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoCourse
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	out := make([]CourseRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, CourseRecord{ID: d.ID, Title: d.Title, UpdatedAt: d.UpdatedAt})
	}
	return out, nil
}

func (s *MongoStore) LoadProgress(ctx context.Context, learner, courseID string) (progress.Document, error) {
	raw, err := s.progress.FindOne(ctx, bson.M{"_id": progressID(learner, courseID)}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return progress.Document{}, fmt.Errorf("progress %s/%s: %w", learner, courseID, ErrNotFound)
	}
	if err != nil {
		return progress.Document{}, fmt.Errorf("load progress: %w", err)
	}
	// Relaxed extended JSON is plain JSON for the value types written by
	// UpsertProgress.
	ext, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return progress.Document{}, fmt.Errorf("decode progress: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(ext, &m); err != nil {
		return progress.Document{}, fmt.Errorf("decode progress: %w", err)
	}
	return progress.FromFields(m)
}

// UpsertProgress $sets the given top-level fields.
func (s *MongoStore) UpsertProgress(ctx context.Context, learner, courseID string, fields map[string]any) error {
	set := bson.M{"learner": learner, "course": courseID}
	for k, v := range fields {
		set[k] = v
	}
	_, err := s.progress.UpdateOne(ctx,
		bson.M{"_id": progressID(learner, courseID)},
		bson.M{"$set": set},
		options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

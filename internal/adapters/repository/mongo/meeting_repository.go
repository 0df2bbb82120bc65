package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
)

const meetingsCollection = "meetings"

// Connect opens a client with a bounded pool and checks the server responds.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetMaxPoolSize(10))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

type meetingRepository struct {
	coll *mongo.Collection
}

func NewMeetingRepository(db *mongo.Database) ports.MeetingRepository {
	return &meetingRepository{
		coll: db.Collection(meetingsCollection),
	}
}

// EnsureIndexes creates the index backing per-user listing.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(meetingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create meetings index: %w", err)
	}
	return nil
}

func (r *meetingRepository) Save(ctx context.Context, m *domain.Meeting) error {
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to insert meeting: %w", err)
	}
	return nil
}

func (r *meetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	var m domain.Meeting
	err := r.coll.FindOne(ctx, idFilter(id)).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return &m, nil
}

func (r *meetingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Meeting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

func (r *meetingRepository) ListPendingSummary(ctx context.Context) ([]*domain.Meeting, error) {
	filter := bson.M{
		"transcription": bson.M{"$exists": true, "$ne": ""},
		"$or": bson.A{
			bson.M{"summary": bson.M{"$exists": false}},
			bson.M{"summary": ""},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *meetingRepository) Update(ctx context.Context, id string, patch ports.MeetingPatch) (*domain.Meeting, error) {
	set := patchDocument(patch)
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m domain.Meeting
	err := r.coll.FindOneAndUpdate(ctx, idFilter(id), bson.M{"$set": set}, opts).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return &m, nil
}

func (r *meetingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}

// idFilter matches a meeting by id. Documents created before ids became
// UUIDs are keyed by an ObjectId, so a hex id matches either form.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

func (r *meetingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Meeting, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find meetings: %w", err)
	}
	defer cursor.Close(ctx)

	meetings := []*domain.Meeting{}
	if err := cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}
	return meetings, nil
}

// patchDocument maps the set fields of patch to their bson keys.
func patchDocument(patch ports.MeetingPatch) bson.M {
	set := bson.M{}
	setString := func(key string, value *string) {
		if value != nil {
			set[key] = *value
		}
	}

	setString("title", patch.Title)
	setString("description", patch.Description)
	setString("startTime", patch.StartTime)
	setString("endTime", patch.EndTime)
	setString("timeZone", patch.TimeZone)
	setString("attendees", patch.Attendees)
	setString("pptUrl", patch.PresentationURL)
	setString("meetingLink", patch.MeetingLink)
	setString("calendarEventId", patch.CalendarEventID)
	setString("recordingUrl", patch.RecordingURL)
	setString("transcription", patch.Transcription)
	setString("summary", patch.Summary)
	if patch.Polls != nil {
		set["polls"] = *patch.Polls
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	return set
}

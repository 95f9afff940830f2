package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/models"
)

type RecordRepository struct {
	col *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{col: db.Collection("records")}
}

// Save inserts a new record. Records are never updated; saving an ID that
// already exists is a no-op, so a redelivered lead event is stored once.
func (r *RecordRepository) Save(ctx context.Context, doc models.Record) error {
	prepare(&doc)
	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func prepare(doc *models.Record) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.PhoneDigits = booking.NormalizePhone(doc.Phone)
}

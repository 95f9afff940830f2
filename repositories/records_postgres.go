package repositories

import (
	"context"
	"database/sql"

	"github.com/SaisandeepKv/vernon-clinic-sub000/models"
)

// PostgresRecordRepository stores records in the table created by db.Migrate.
type PostgresRecordRepository struct {
	DB *sql.DB
}

func NewPostgresRecordRepository(db *sql.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{DB: db}
}

func (r *PostgresRecordRepository) Save(ctx context.Context, doc models.Record) error {
	prepare(&doc)
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO records (id, type, source, name, phone, phone_digits, treatment, location,
                              preferred_date, preferred_time, notes, session_id, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
         ON CONFLICT (id) DO NOTHING`,
		doc.ID, string(doc.Type), doc.Source, doc.Name, doc.Phone, doc.PhoneDigits, doc.Treatment, doc.Location,
		doc.PreferredDate, doc.PreferredTime, doc.Notes, doc.SessionID, doc.CreatedAt,
	)
	return err
}

package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/SaisandeepKv/vernon-clinic-sub000/models"
)

func TestPrepare_FillsIDTimestampAndDigits(t *testing.T) {
	doc := models.Record{Type: models.RecordCallback, Name: "Ravi", Phone: "+91 98765-43210"}
	prepare(&doc)

	_, err := uuid.Parse(doc.ID)
	assert.NoError(t, err)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Equal(t, "919876543210", doc.PhoneDigits)
}

func TestPrepare_KeepsExistingValues(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := models.Record{ID: "fixed", CreatedAt: at, Phone: "98765 43210"}
	prepare(&doc)

	assert.Equal(t, "fixed", doc.ID)
	assert.Equal(t, at, doc.CreatedAt)
	assert.Equal(t, "9876543210", doc.PhoneDigits)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LuckylisaBemeye/Bomahub/pkg/database"
)

// sessionRow is the SQL form of a Record.
type sessionRow struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Data      string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time
}

func (sessionRow) TableName() string {
	return "console_sessions"
}

// GormStore keeps sessions in a SQL table (postgres or sqlite).
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore migrates the sessions table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := database.Migrate(db, &sessionRow{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db, now: time.Now}, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*Record, error) {
	var row sessionRow
	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, s.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(row.Data), &rec); err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return &rec, nil
}

func (s *GormStore) Put(ctx context.Context, rec *Record, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	row := sessionRow{ID: rec.ID, Data: string(raw), ExpiresAt: s.now().Add(ttl)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&sessionRow{}, "id = ?", id).Error
}

// PurgeExpired removes expired rows and returns how many were deleted.
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&sessionRow{})
	return res.RowsAffected, res.Error
}

// Close is a no-op; the *gorm.DB is owned by the caller.
func (s *GormStore) Close() error {
	return nil
}

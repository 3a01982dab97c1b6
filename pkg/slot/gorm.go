package slot

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one key/value row of the local_slots table.
type Entry struct {
	Key       string    `gorm:"column:slot_key;primaryKey;size:100"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Entry) TableName() string {
	return "local_slots"
}

type GormSlot struct {
	db *gorm.DB
}

// NewGorm migrates the local_slots table on gdb and returns a slot over it.
func NewGorm(gdb *gorm.DB) (*GormSlot, error) {
	if err := gdb.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &GormSlot{db: gdb}, nil
}

func (s *GormSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (s *GormSlot) Put(ctx context.Context, key string, value []byte) error {
	entry := Entry{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormSlot) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

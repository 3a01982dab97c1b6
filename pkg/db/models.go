package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserPrompt is the remote copy of an owned prompt. LocalID links it to the
// record in the local collection.
type UserPrompt struct {
	ID          string                      `gorm:"primaryKey;size:36" json:"id"`
	UserID      string                      `gorm:"size:64;not null;index:idx_user_prompt_local" json:"user_id"`
	LocalID     int                         `gorm:"not null;default:0;index:idx_user_prompt_local" json:"local_id"`
	SuggestedID int                         `gorm:"not null;default:0" json:"suggested_id"`
	Title       string                      `gorm:"not null" json:"title"`
	PromptText  string                      `gorm:"type:text;not null" json:"prompt_text"`
	Instrument  string                      `gorm:"size:32;not null;default:''" json:"instrument"`
	Category    string                      `gorm:"not null;default:''" json:"category"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	UsageCount  int                         `gorm:"not null;default:0" json:"usage_count"`
	IsFavorite  bool                        `gorm:"not null;default:false" json:"is_favorite"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"index" json:"updated_at"`
}

type EducationTopic struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	Slug      string    `gorm:"size:64;not null;index" json:"slug"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PromptHistory is append-only: one row per prompt use.
type PromptHistory struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	UserID         string    `gorm:"size:64;not null;index" json:"user_id"`
	PromptID       string    `gorm:"size:36;not null;index" json:"prompt_id"`
	InstrumentUsed string    `gorm:"size:32;not null" json:"instrument_used"`
	ExecutedAt     time.Time `gorm:"not null;index" json:"executed_at"`
	ResultSummary  *string   `gorm:"type:text" json:"result_summary,omitempty"`
}

func (PromptHistory) TableName() string {
	return "prompt_history"
}

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (p *UserPrompt) BeforeCreate(*gorm.DB) error {
	newID(&p.ID)
	return nil
}

func (t *EducationTopic) BeforeCreate(*gorm.DB) error {
	newID(&t.ID)
	return nil
}

func (h *PromptHistory) BeforeCreate(*gorm.DB) error {
	newID(&h.ID)
	if h.ExecutedAt.IsZero() {
		h.ExecutedAt = time.Now().UTC()
	}
	return nil
}

func (u *User) BeforeCreate(*gorm.DB) error {
	newID(&u.ID)
	return nil
}

// Models lists every remote table in migration order.
func Models() []any {
	return []any{&User{}, &UserPrompt{}, &EducationTopic{}, &PromptHistory{}}
}

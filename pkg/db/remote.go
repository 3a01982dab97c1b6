package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/smith3v/trade-prompts/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrRemote marks every failure reported by Remote. Callers treat it as
	// "the operation did not happen".
	ErrRemote         = errors.New("remote persistence failed")
	ErrRemoteNotFound = fmt.Errorf("%w: record not found", ErrRemote)

	ErrInvalidCredentials = errors.New("email and password are required")
	ErrNotSignedIn        = errors.New("not signed in")
)

// Remote is the CRUD and auth adapter for the hosted tables.
type Remote struct {
	db  *gorm.DB
	now func() time.Time

	mu      sync.Mutex
	current *User
}

func NewRemote(gdb *gorm.DB) *Remote {
	return &Remote{db: gdb, now: func() time.Time { return time.Now().UTC() }}
}

func (r *Remote) fail(op string, err error) error {
	logger.Error("remote operation failed", "op", op, "error", err)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrRemoteNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrRemote, err)
}

// PromptUpdate carries the fields to change; nil fields are left alone.
type PromptUpdate struct {
	Title      *string
	PromptText *string
	Instrument *string
	Category   *string
	Tags       []string
	SetTags    bool
	IsFavorite *bool
	UsageCount *int
}

func (u PromptUpdate) columns() map[string]any {
	cols := make(map[string]any)
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.PromptText != nil {
		cols["prompt_text"] = *u.PromptText
	}
	if u.Instrument != nil {
		cols["instrument"] = *u.Instrument
	}
	if u.Category != nil {
		cols["category"] = *u.Category
	}
	if u.SetTags {
		cols["tags"] = datatypes.JSONSlice[string](u.Tags)
	}
	if u.IsFavorite != nil {
		cols["is_favorite"] = *u.IsFavorite
	}
	if u.UsageCount != nil {
		cols["usage_count"] = *u.UsageCount
	}
	return cols
}

// ListPrompts returns the owner's prompts, most recently updated first.
func (r *Remote) ListPrompts(ctx context.Context, userID string) ([]UserPrompt, error) {
	var prompts []UserPrompt
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC").Find(&prompts).Error; err != nil {
		return nil, r.fail("list prompts", err)
	}
	return prompts, nil
}

func (r *Remote) FindPromptByLocalID(ctx context.Context, userID string, localID int) (*UserPrompt, error) {
	var prompt UserPrompt
	if err := r.db.WithContext(ctx).Where("user_id = ? AND local_id = ?", userID, localID).First(&prompt).Error; err != nil {
		return nil, r.fail("find prompt", err)
	}
	return &prompt, nil
}

// InsertPrompt stores prompt with a server-assigned id and timestamps.
func (r *Remote) InsertPrompt(ctx context.Context, prompt UserPrompt) (*UserPrompt, error) {
	if strings.TrimSpace(prompt.UserID) == "" {
		return nil, r.fail("insert prompt", errors.New("owner is required"))
	}
	now := r.now()
	prompt.ID = ""
	prompt.CreatedAt = now
	prompt.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(&prompt).Error; err != nil {
		return nil, r.fail("insert prompt", err)
	}
	return &prompt, nil
}

// UpdatePrompt applies update to the prompt with id and refreshes
// updated_at.
func (r *Remote) UpdatePrompt(ctx context.Context, id string, update PromptUpdate) (*UserPrompt, error) {
	cols := update.columns()
	cols["updated_at"] = r.now()
	result := r.db.WithContext(ctx).Model(&UserPrompt{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return nil, r.fail("update prompt", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, r.fail("update prompt", gorm.ErrRecordNotFound)
	}
	var prompt UserPrompt
	if err := r.db.WithContext(ctx).First(&prompt, "id = ?", id).Error; err != nil {
		return nil, r.fail("update prompt", err)
	}
	return &prompt, nil
}

func (r *Remote) DeletePrompt(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserPrompt{})
	if result.Error != nil {
		return r.fail("delete prompt", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.fail("delete prompt", gorm.ErrRecordNotFound)
	}
	return nil
}

// IncrementUsage bumps usage_count in a single UPDATE and returns the new
// value.
func (r *Remote) IncrementUsage(ctx context.Context, id string) (int, error) {
	result := r.db.WithContext(ctx).Model(&UserPrompt{}).Where("id = ?", id).UpdateColumns(map[string]any{
		"usage_count": gorm.Expr("usage_count + ?", 1),
		"updated_at":  r.now(),
	})
	if result.Error != nil {
		return 0, r.fail("increment usage", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, r.fail("increment usage", gorm.ErrRecordNotFound)
	}
	var prompt UserPrompt
	if err := r.db.WithContext(ctx).Select("usage_count").First(&prompt, "id = ?", id).Error; err != nil {
		return 0, r.fail("increment usage", err)
	}
	return prompt.UsageCount, nil
}

// ListTopics returns the owner's topics, newest first.
func (r *Remote) ListTopics(ctx context.Context, userID string) ([]EducationTopic, error) {
	var topics []EducationTopic
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&topics).Error; err != nil {
		return nil, r.fail("list topics", err)
	}
	return topics, nil
}

func (r *Remote) FindTopicBySlug(ctx context.Context, userID, slug string) (*EducationTopic, error) {
	var topic EducationTopic
	if err := r.db.WithContext(ctx).Where("user_id = ? AND slug = ?", userID, slug).First(&topic).Error; err != nil {
		return nil, r.fail("find topic", err)
	}
	return &topic, nil
}

func (r *Remote) InsertTopic(ctx context.Context, topic EducationTopic) (*EducationTopic, error) {
	if strings.TrimSpace(topic.UserID) == "" {
		return nil, r.fail("insert topic", errors.New("owner is required"))
	}
	now := r.now()
	topic.ID = ""
	topic.CreatedAt = now
	topic.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(&topic).Error; err != nil {
		return nil, r.fail("insert topic", err)
	}
	return &topic, nil
}

func (r *Remote) UpdateTopic(ctx context.Context, id, title, content string) (*EducationTopic, error) {
	result := r.db.WithContext(ctx).Model(&EducationTopic{}).Where("id = ?", id).Updates(map[string]any{
		"title":      title,
		"content":    content,
		"updated_at": r.now(),
	})
	if result.Error != nil {
		return nil, r.fail("update topic", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, r.fail("update topic", gorm.ErrRecordNotFound)
	}
	var topic EducationTopic
	if err := r.db.WithContext(ctx).First(&topic, "id = ?", id).Error; err != nil {
		return nil, r.fail("update topic", err)
	}
	return &topic, nil
}

func (r *Remote) DeleteTopic(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&EducationTopic{})
	if result.Error != nil {
		return r.fail("delete topic", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.fail("delete topic", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListHistory returns the owner's prompt uses, latest first.
func (r *Remote) ListHistory(ctx context.Context, userID string) ([]PromptHistory, error) {
	var history []PromptHistory
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("executed_at DESC").Find(&history).Error; err != nil {
		return nil, r.fail("list history", err)
	}
	return history, nil
}

func (r *Remote) AddHistory(ctx context.Context, entry PromptHistory) (*PromptHistory, error) {
	if strings.TrimSpace(entry.UserID) == "" || strings.TrimSpace(entry.PromptID) == "" {
		return nil, r.fail("add history", errors.New("owner and prompt are required"))
	}
	entry.ID = ""
	entry.ExecutedAt = r.now()
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, r.fail("add history", err)
	}
	return &entry, nil
}

// SignUp registers email. Only presence of both credentials is checked.
func (r *Remote) SignUp(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user := User{Email: email}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, r.fail("sign up", err)
	}
	r.setCurrent(&user)
	return &user, nil
}

// SignIn looks the account up by email. Only presence of the password is
// checked.
func (r *Remote) SignIn(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	var user User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, r.fail("sign in", err)
	}
	r.setCurrent(&user)
	return &user, nil
}

func (r *Remote) SignOut(context.Context) error {
	r.setCurrent(nil)
	return nil
}

func (r *Remote) CurrentUser(context.Context) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil, ErrNotSignedIn
	}
	user := *r.current
	return &user, nil
}

func (r *Remote) setCurrent(user *User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = user
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/smith3v/trade-prompts/pkg/logger"
)

const (
	PromptsKey  = "marketai-prompts"
	TopicsKey   = "marketai-education-topics"
	SequenceKey = "marketai-prompt-sequence"
)

// Snapshot is what a Repository found on load. HasPrompts and HasTopics are
// false when the stored value was missing or could not be decoded.
type Snapshot struct {
	Prompts    []Prompt
	HasPrompts bool
	Topics     []Topic
	HasTopics  bool
	Sequence   int
}

// Repository persists the owned collections as whole values.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	SavePrompts(ctx context.Context, prompts []Prompt, sequence int) error
	SaveTopics(ctx context.Context, topics []Topic) error
}

// KeyValue is the subset of a durable slot the catalog needs.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// SlotRepository stores the collections as JSON arrays under fixed keys.
type SlotRepository struct {
	kv KeyValue
}

func NewSlotRepository(kv KeyValue) *SlotRepository {
	return &SlotRepository{kv: kv}
}

func (r *SlotRepository) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	raw, ok, err := r.kv.Get(ctx, PromptsKey)
	if err != nil {
		return snap, fmt.Errorf("load prompts: %w", err)
	}
	if ok {
		var prompts []Prompt
		if err := json.Unmarshal(raw, &prompts); err != nil || prompts == nil {
			logger.Warn("ignoring unreadable stored prompts", "key", PromptsKey, "error", err)
		} else {
			snap.Prompts = prompts
			snap.HasPrompts = true
		}
	}

	raw, ok, err = r.kv.Get(ctx, TopicsKey)
	if err != nil {
		return snap, fmt.Errorf("load topics: %w", err)
	}
	if ok {
		var topics []Topic
		if err := json.Unmarshal(raw, &topics); err != nil || topics == nil {
			logger.Warn("ignoring unreadable stored topics", "key", TopicsKey, "error", err)
		} else {
			snap.Topics = topics
			snap.HasTopics = true
		}
	}

	raw, ok, err = r.kv.Get(ctx, SequenceKey)
	if err != nil {
		return snap, fmt.Errorf("load prompt sequence: %w", err)
	}
	if ok {
		seq, convErr := strconv.Atoi(string(raw))
		if convErr != nil || seq < 0 {
			logger.Warn("ignoring unreadable prompt sequence", "key", SequenceKey, "value", string(raw))
		} else {
			snap.Sequence = seq
		}
	}
	return snap, nil
}

func (r *SlotRepository) SavePrompts(ctx context.Context, prompts []Prompt, sequence int) error {
	if prompts == nil {
		prompts = []Prompt{}
	}
	data, err := json.Marshal(prompts)
	if err != nil {
		return fmt.Errorf("encode prompts: %w", err)
	}
	if err := r.kv.Put(ctx, SequenceKey, []byte(strconv.Itoa(sequence))); err != nil {
		return fmt.Errorf("save prompt sequence: %w", err)
	}
	if err := r.kv.Put(ctx, PromptsKey, data); err != nil {
		return fmt.Errorf("save prompts: %w", err)
	}
	return nil
}

func (r *SlotRepository) SaveTopics(ctx context.Context, topics []Topic) error {
	if topics == nil {
		topics = []Topic{}
	}
	data, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("encode topics: %w", err)
	}
	if err := r.kv.Put(ctx, TopicsKey, data); err != nil {
		return fmt.Errorf("save topics: %w", err)
	}
	return nil
}

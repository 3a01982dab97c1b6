package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type memoryKV struct {
	values  map[string][]byte
	failPut error
	puts    int
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string][]byte)}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryKV) Put(_ context.Context, key string, value []byte) error {
	if m.failPut != nil {
		return m.failPut
	}
	m.puts++
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func newTestStore(t *testing.T, kv *memoryKV) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), NewSlotRepository(kv), WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	return store
}

func TestNewStoreUsesSeedsWhenNothingStored(t *testing.T) {
	store := newTestStore(t, newMemoryKV())

	prompts := store.Prompts()
	if len(prompts) != 4 {
		t.Fatalf("expected 4 seed prompts, got %d", len(prompts))
	}
	for i, p := range prompts {
		if p.ID != i+1 {
			t.Fatalf("expected seed id %d, got %d", i+1, p.ID)
		}
	}
	if got := len(store.SuggestedPrompts()); got != 4 {
		t.Fatalf("expected 4 suggested prompts, got %d", got)
	}
	if got := len(store.Topics()); got != 3 {
		t.Fatalf("expected 3 seed topics, got %d", got)
	}
}

func TestNewStoreFallsBackOnUnreadableValues(t *testing.T) {
	kv := newMemoryKV()
	kv.values[PromptsKey] = []byte("{not json")
	kv.values[TopicsKey] = []byte("null")
	kv.values[SequenceKey] = []byte("many")

	store := newTestStore(t, kv)
	if got := len(store.Prompts()); got != 4 {
		t.Fatalf("expected seed prompts after corrupt value, got %d", got)
	}
	if got := len(store.Topics()); got != 3 {
		t.Fatalf("expected seed topics after null value, got %d", got)
	}
	if kv.puts != 0 {
		t.Fatalf("expected load not to write, got %d puts", kv.puts)
	}
}

func TestNewStoreKeepsEmptyStoredCollection(t *testing.T) {
	kv := newMemoryKV()
	kv.values[PromptsKey] = []byte("[]")

	store := newTestStore(t, kv)
	if got := len(store.Prompts()); got != 0 {
		t.Fatalf("expected stored empty collection to win over seeds, got %d prompts", got)
	}
}

func TestNewStoreSanitizesStoredTopics(t *testing.T) {
	kv := newMemoryKV()
	kv.values[TopicsKey] = []byte(`[{"id":"custom-1","title":"T","content":"<p>ok</p><script>alert(1)</script>"}]`)

	store := newTestStore(t, kv)
	topic, ok := store.Topic("custom-1")
	if !ok {
		t.Fatal("expected stored topic to load")
	}
	if strings.Contains(topic.Content, "script") {
		t.Fatalf("expected script to be stripped, got %q", topic.Content)
	}
	if !strings.Contains(topic.Content, "<p>ok</p>") {
		t.Fatalf("expected paragraph to survive, got %q", topic.Content)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	kv := newMemoryKV()
	ctx := context.Background()
	store := newTestStore(t, kv)

	created, err := store.CreatePrompt(ctx, PromptFields{Title: "Breakout", Description: "Scan [INSTRUMENT]", Tags: "a, b"})
	if err != nil {
		t.Fatalf("CreatePrompt returned error: %v", err)
	}
	if _, err := store.ToggleFavorite(ctx, Owned(created.ID)); err != nil {
		t.Fatalf("ToggleFavorite returned error: %v", err)
	}
	topic, err := store.CreateTopic(ctx, TopicFields{Title: "Notes", Content: "<p>hello</p>"})
	if err != nil {
		t.Fatalf("CreateTopic returned error: %v", err)
	}

	reloaded := newTestStore(t, kv)
	got, ok := reloaded.Prompt(created.ID)
	if !ok {
		t.Fatalf("expected prompt %d after reload", created.ID)
	}
	if !got.IsFavorite || got.Title != "Breakout" || len(got.Tags) != 2 {
		t.Fatalf("unexpected prompt after reload: %+v", got)
	}
	if _, ok := reloaded.Topic(topic.ID); !ok {
		t.Fatalf("expected topic %q after reload", topic.ID)
	}
}

func TestPersistenceFailureLeavesStoreUnchanged(t *testing.T) {
	kv := newMemoryKV()
	ctx := context.Background()
	store := newTestStore(t, kv)
	before := store.Prompts()
	topicsBefore := store.Topics()

	kv.failPut = errors.New("disk full")

	if _, err := store.CreatePrompt(ctx, PromptFields{Title: "X", Description: "Y"}); err == nil {
		t.Fatal("expected CreatePrompt to fail")
	}
	if _, err := store.ToggleFavorite(ctx, Owned(1)); err == nil {
		t.Fatal("expected ToggleFavorite to fail")
	}
	if _, err := store.DeletePrompt(ctx, 1); err == nil {
		t.Fatal("expected DeletePrompt to fail")
	}
	if _, err := store.CreateTopic(ctx, TopicFields{Title: "T", Content: "c"}); err == nil {
		t.Fatal("expected CreateTopic to fail")
	}

	after := store.Prompts()
	if len(after) != len(before) {
		t.Fatalf("expected %d prompts, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i].IsFavorite != before[i].IsFavorite || after[i].ID != before[i].ID {
			t.Fatalf("prompt %d changed after failed write: %+v", i, after[i])
		}
	}
	if len(store.Topics()) != len(topicsBefore) {
		t.Fatal("topics changed after failed write")
	}

	kv.failPut = nil
	created, err := store.CreatePrompt(ctx, PromptFields{Title: "X", Description: "Y"})
	if err != nil {
		t.Fatalf("CreatePrompt returned error: %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("expected failed create not to consume an id, got %d", created.ID)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	store := newTestStore(t, newMemoryKV())
	prompts := store.Prompts()
	prompts[0].Title = "mutated"
	prompts[0].Tags[0] = "mutated"

	got, _ := store.Prompt(prompts[0].ID)
	if got.Title == "mutated" || got.Tags[0] == "mutated" {
		t.Fatalf("expected store to be isolated from caller mutations, got %+v", got)
	}
}

func TestSlotRepositoryWritesArrays(t *testing.T) {
	kv := newMemoryKV()
	repo := NewSlotRepository(kv)
	ctx := context.Background()

	if err := repo.SavePrompts(ctx, nil, 7); err != nil {
		t.Fatalf("SavePrompts returned error: %v", err)
	}
	if err := repo.SaveTopics(ctx, nil); err != nil {
		t.Fatalf("SaveTopics returned error: %v", err)
	}
	if got := string(kv.values[PromptsKey]); got != "[]" {
		t.Fatalf("expected empty prompt array, got %q", got)
	}
	if got := string(kv.values[TopicsKey]); got != "[]" {
		t.Fatalf("expected empty topic array, got %q", got)
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !snap.HasPrompts || !snap.HasTopics || snap.Sequence != 7 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

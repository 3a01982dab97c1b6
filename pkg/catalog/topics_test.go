package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestCreateTopicAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMemoryKV())
	wantID := "custom-" + strconv.FormatInt(fixedNow.UnixMilli(), 10)

	first, err := store.CreateTopic(ctx, TopicFields{Title: " Pivot Points ", Content: "<p>Daily pivots</p>"})
	if err != nil {
		t.Fatalf("CreateTopic returned error: %v", err)
	}
	if first.ID != wantID || first.Title != "Pivot Points" {
		t.Fatalf("unexpected topic: %+v", first)
	}

	second, err := store.CreateTopic(ctx, TopicFields{Title: "Other", Content: "<p>same instant</p>"})
	if err != nil {
		t.Fatalf("CreateTopic returned error: %v", err)
	}
	if second.ID == first.ID || !strings.HasPrefix(second.ID, "custom-") {
		t.Fatalf("expected a distinct custom id, got %q", second.ID)
	}

	topics := store.Topics()
	if topics[len(topics)-1].ID != second.ID {
		t.Fatal("expected topics to be appended")
	}
}

func TestCreateTopicValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMemoryKV())

	tests := []TopicFields{
		{Title: "", Content: "c"},
		{Title: "t", Content: ""},
		{Title: " ", Content: "c"},
		{Title: "t", Content: "<script>alert(1)</script>"},
	}
	for _, fields := range tests {
		if _, err := store.CreateTopic(ctx, fields); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", fields, err)
		}
	}
	if n := len(store.Topics()); n != 3 {
		t.Fatalf("expected rejected topics not to be stored, got %d", n)
	}
}

func TestCreateTopicSanitizesContent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMemoryKV())

	topic, err := store.CreateTopic(ctx, TopicFields{
		Title:   "Links",
		Content: `<h3>Read</h3><a href="javascript:alert(1)" onclick="x()">bad</a><ul><li>ok</li></ul>`,
	})
	if err != nil {
		t.Fatalf("CreateTopic returned error: %v", err)
	}
	for _, banned := range []string{"javascript:", "onclick"} {
		if strings.Contains(topic.Content, banned) {
			t.Fatalf("expected %q to be stripped, got %q", banned, topic.Content)
		}
	}
	if !strings.Contains(topic.Content, "<h3>Read</h3>") || !strings.Contains(topic.Content, "<li>ok</li>") {
		t.Fatalf("expected formatting to survive, got %q", topic.Content)
	}
}

func TestUpdateTopic(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, newMemoryKV())

	updated, err := store.UpdateTopic(ctx, TopicForexBasics, TopicFields{Title: "Basics", Content: "<p>new</p>"})
	if err != nil {
		t.Fatalf("UpdateTopic returned error: %v", err)
	}
	if updated.ID != TopicForexBasics || updated.Title != "Basics" {
		t.Fatalf("unexpected topic: %+v", updated)
	}
	if _, err := store.UpdateTopic(ctx, "custom-0", TopicFields{Title: "a", Content: "b"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.UpdateTopic(ctx, TopicForexBasics, TopicFields{Title: "a"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDeleteTopic(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	store := newTestStore(t, kv)

	for _, id := range []string{TopicForexBasics, TopicTechnicalAnalysis, TopicRiskManagement} {
		if _, err := store.DeleteTopic(ctx, id); !errors.Is(err, ErrProtectedTopic) {
			t.Fatalf("expected ErrProtectedTopic for %q, got %v", id, err)
		}
	}
	if kv.puts != 0 || len(store.Topics()) != 3 {
		t.Fatal("expected protected deletes not to mutate")
	}

	deleted, err := store.DeleteTopic(ctx, "custom-404")
	if err != nil || deleted {
		t.Fatalf("expected unknown id to be a no-op, got deleted=%v err=%v", deleted, err)
	}

	topic, err := store.CreateTopic(ctx, TopicFields{Title: "Temp", Content: "<p>x</p>"})
	if err != nil {
		t.Fatalf("CreateTopic returned error: %v", err)
	}
	deleted, err = store.DeleteTopic(ctx, topic.ID)
	if err != nil || !deleted {
		t.Fatalf("expected custom topic to be deleted, got deleted=%v err=%v", deleted, err)
	}
	if _, ok := store.Topic(topic.ID); ok {
		t.Fatal("expected topic to be gone")
	}
}

func TestResolveTopicFallsBackToFirst(t *testing.T) {
	store := newTestStore(t, newMemoryKV())

	topic, ok := store.ResolveTopic(TopicRiskManagement)
	if !ok || topic.ID != TopicRiskManagement {
		t.Fatalf("expected selected topic, got %+v", topic)
	}
	topic, ok = store.ResolveTopic("custom-gone")
	if !ok || topic.ID != TopicForexBasics {
		t.Fatalf("expected first topic as fallback, got %+v", topic)
	}

	kv := newMemoryKV()
	kv.values[TopicsKey] = []byte("[]")
	empty := newTestStore(t, kv)
	if _, ok := empty.ResolveTopic(TopicForexBasics); ok {
		t.Fatal("expected no topic when the collection is empty")
	}
}

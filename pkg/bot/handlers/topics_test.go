package handlers

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/smith3v/trade-prompts/pkg/catalog"
)

func TestTopicCommandShowsFirstTopicByDefault(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleMessage(context.Background(), b, newTestUpdate("/topic", 100))

	req := client.lastRequestTo(t, "sendMessage")
	text, _ := multipartField(t, req, "text")
	if !strings.HasPrefix(text, "<b>Forex Market Basics</b>") {
		t.Fatalf("unexpected topic text %q", text)
	}
	if strings.Contains(text, "/deletetopic") {
		t.Fatalf("expected no delete hint for a built-in topic")
	}
	if mode, _ := multipartField(t, req, "parse_mode"); mode != "HTML" {
		t.Fatalf("expected HTML parse mode, got %q", mode)
	}
}

func TestTopicCommandUnknownIDFallsBack(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleMessage(context.Background(), b, newTestUpdate("/topic nope", 100))

	if got := client.lastMessageText(t); !strings.HasPrefix(got, "<b>Forex Market Basics</b>") {
		t.Fatalf("expected fallback to the first topic, got %q", got)
	}
}

func TestNewTopicFormSanitizesContent(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	ctx := context.Background()

	h.HandleMessage(ctx, b, newTestUpdate("/newtopic", 100))
	h.HandleMessage(ctx, b, newTestUpdate(`Scalping | <p onclick="x()">Fast trades</p><script>alert(1)</script>`, 100))

	id := "custom-" + strconv.FormatInt(testNow.UnixMilli(), 10)
	if got := client.lastMessageText(t); got != `Saved topic "Scalping" as /topic `+id+"." {
		t.Fatalf("unexpected save message %q", got)
	}
	topic, ok := h.svc.Store().Topic(id)
	if !ok {
		t.Fatalf("expected topic %s to exist", id)
	}
	if strings.Contains(topic.Content, "script") || strings.Contains(topic.Content, "onclick") {
		t.Fatalf("expected sanitized content, got %q", topic.Content)
	}

	h.HandleMessage(ctx, b, newTestUpdate("/topic "+id, 100))
	if got := client.lastMessageText(t); !strings.Contains(got, "/deletetopic "+id) {
		t.Fatalf("expected delete hint for a custom topic, got %q", got)
	}
}

func TestEditTopicForm(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	ctx := context.Background()

	h.HandleMessage(ctx, b, newTestUpdate("/edittopic "+catalog.TopicRiskManagement, 100))
	h.HandleMessage(ctx, b, newTestUpdate("Risk | <p>Size positions</p>", 100))

	topic, _ := h.svc.Store().Topic(catalog.TopicRiskManagement)
	if topic.Title != "Risk" || !strings.Contains(topic.Content, "Size positions") {
		t.Fatalf("unexpected updated topic: %+v", topic)
	}

	h.HandleMessage(ctx, b, newTestUpdate("/edittopic missing", 100))
	if got := client.lastMessageText(t); got != "Usage: /edittopic <id>" {
		t.Fatalf("unexpected usage message %q", got)
	}
}

func TestDeleteTopicCommand(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	ctx := context.Background()

	h.HandleMessage(ctx, b, newTestUpdate("/deletetopic "+catalog.TopicForexBasics, 100))
	if got := client.lastMessageText(t); got != "Built-in topics cannot be deleted." {
		t.Fatalf("unexpected protected topic message %q", got)
	}

	h.HandleMessage(ctx, b, newTestUpdate("/deletetopic custom-1", 100))
	if got := client.lastMessageText(t); got != `Topic "custom-1" not found.` {
		t.Fatalf("unexpected missing topic message %q", got)
	}

	topic, err := h.svc.CreateTopic(ctx, catalog.TopicFields{Title: "Scalping", Content: "<p>Fast</p>"})
	if err != nil {
		t.Fatalf("CreateTopic returned error: %v", err)
	}
	h.HandleMessage(ctx, b, newTestUpdate("/deletetopic "+topic.ID, 100))
	if got := client.lastMessageText(t); got != `Deleted topic "`+topic.ID+`".` {
		t.Fatalf("unexpected delete message %q", got)
	}
	if len(h.svc.Topics()) != 3 {
		t.Fatalf("expected the seed topics to remain, got %d", len(h.svc.Topics()))
	}
}

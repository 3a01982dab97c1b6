package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/smith3v/trade-prompts/pkg/catalog"
)

func TestHandleCallbackRejectsUnknownData(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleCallback(context.Background(), b, newTestCallbackUpdate("p:noop:o:1", 100, 100, 7))

	text, _ := multipartField(t, client.lastRequestTo(t, "answerCallbackQuery"), "text")
	if text != "Unknown command" {
		t.Fatalf("unexpected callback answer %q", text)
	}
	if client.countRequests("editMessageText") != 0 {
		t.Fatal("expected no message edit")
	}
}

func TestHandleCallbackSwitchesCategory(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleCallback(context.Background(), b, newTestCallbackUpdate("p:cat:suggested", 100, 100, 7))

	edit := client.lastRequestTo(t, "editMessageText")
	text, _ := multipartField(t, edit, "text")
	if !strings.HasPrefix(text, "Suggested (4)") {
		t.Fatalf("unexpected edited list %q", text)
	}
	messageID, _ := multipartField(t, edit, "message_id")
	if messageID != "7" {
		t.Fatalf("expected edit of message 7, got %q", messageID)
	}
	if h.view(100).Category != catalog.CategorySuggested {
		t.Fatalf("expected chat view to switch category")
	}
	if client.countRequests("answerCallbackQuery") != 1 {
		t.Fatal("expected the callback to be answered once")
	}
}

func TestHandleCallbackTogglesFavorite(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleCallback(context.Background(), b, newTestCallbackUpdate("p:fav:o:1", 100, 100, 7))

	answer, _ := multipartField(t, client.lastRequestTo(t, "answerCallbackQuery"), "text")
	if answer != "Removed from favorites" {
		t.Fatalf("unexpected callback answer %q", answer)
	}
	prompt, _ := h.svc.Store().Prompt(1)
	if prompt.IsFavorite {
		t.Fatal("expected prompt 1 to lose its favorite flag")
	}
	if client.countRequests("editMessageText") != 1 {
		t.Fatal("expected the list to be redrawn")
	}
}

func TestHandleCallbackCopiesWithChatInstrument(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	ctx := context.Background()

	h.HandleMessage(ctx, b, newTestUpdate("/instrument XAU/USD", 100))
	h.HandleCallback(ctx, b, newTestCallbackUpdate("p:copy:o:1", 100, 100, 7))

	copied, _ := multipartField(t, client.lastRequestTo(t, "sendMessage"), "text")
	if !strings.HasPrefix(copied, "📋 Trend Analysis · XAU/USD") {
		t.Fatalf("unexpected copied header %q", copied)
	}
	if strings.Contains(copied, "[INSTRUMENT]") || !strings.Contains(copied, "XAU/USD") {
		t.Fatalf("expected placeholder to be substituted, got %q", copied)
	}
	prompt, _ := h.svc.Store().Prompt(1)
	if prompt.UsageCount != 16 {
		t.Fatalf("expected usage count 16, got %d", prompt.UsageCount)
	}
	answer, _ := multipartField(t, client.lastRequestTo(t, "answerCallbackQuery"), "text")
	if answer != "Copied" {
		t.Fatalf("unexpected callback answer %q", answer)
	}
	if client.countRequests("editMessageText") != 1 {
		t.Fatal("expected the list to be redrawn with the new usage count")
	}
}

func TestHandleCallbackCopySuggestedIsNotCounted(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleCallback(context.Background(), b, newTestCallbackUpdate("p:copy:s:6", 100, 100, 7))

	copied, _ := multipartField(t, client.lastRequestTo(t, "sendMessage"), "text")
	if !strings.Contains(copied, "GBP/USD") {
		t.Fatalf("expected default instrument in copy, got %q", copied)
	}
	prompt, _ := h.svc.Store().Prompt(2)
	if prompt.UsageCount != 8 {
		t.Fatalf("expected adopted copy usage to stay 8, got %d", prompt.UsageCount)
	}
	if client.countRequests("editMessageText") != 0 {
		t.Fatal("expected no redraw for an uncounted copy")
	}
}

func TestHandleCallbackAddSuggested(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	ctx := context.Background()

	h.HandleCallback(ctx, b, newTestCallbackUpdate("p:add:s:5", 100, 100, 7))
	answer, _ := multipartField(t, client.lastRequestTo(t, "answerCallbackQuery"), "text")
	if answer != "Already in My Prompts." {
		t.Fatalf("unexpected duplicate answer %q", answer)
	}

	h.HandleMessage(ctx, b, newTestUpdate("/delete 1", 100))
	h.HandleCallback(ctx, b, newTestCallbackUpdate("p:add:s:5", 100, 100, 7))
	answer, _ = multipartField(t, client.lastRequestTo(t, "answerCallbackQuery"), "text")
	if !strings.HasPrefix(answer, "Added to My Prompts as #") {
		t.Fatalf("unexpected add answer %q", answer)
	}
	if h.svc.Store().AdoptionState(5) != catalog.AdoptedNotFavorite {
		t.Fatalf("expected suggested 5 to be adopted")
	}
}

func TestHandleCallbackShowsTopic(t *testing.T) {
	h := newTestHandlers(t, nil)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleCallback(context.Background(), b, newTestCallbackUpdate("p:topic:"+catalog.TopicRiskManagement, 100, 100, 7))

	edit := client.lastRequestTo(t, "editMessageText")
	text, _ := multipartField(t, edit, "text")
	if !strings.HasPrefix(text, "<b>Risk Management</b>") {
		t.Fatalf("unexpected topic text %q", text)
	}
	mode, _ := multipartField(t, edit, "parse_mode")
	if mode != "HTML" {
		t.Fatalf("expected HTML parse mode, got %q", mode)
	}
	if h.view(100).Topic != catalog.TopicRiskManagement {
		t.Fatalf("expected selected topic to be remembered")
	}
}

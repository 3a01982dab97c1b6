// Package handlers serves the prompt catalog over Telegram.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/trade-prompts/pkg/app"
	"github.com/smith3v/trade-prompts/pkg/bot/pending"
	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/db"
	"github.com/smith3v/trade-prompts/pkg/logger"
	"github.com/smith3v/trade-prompts/pkg/ui"
)

// DownloadFunc fetches the content of an uploaded Telegram file.
type DownloadFunc func(ctx context.Context, b *bot.Bot, fileID string) ([]byte, error)

type Options struct {
	Service *app.Service
	Forms   *pending.Manager
	// Token builds file download links when Download is nil.
	Token    string
	Download DownloadFunc
	Now      func() time.Time
}

type Handlers struct {
	svc      *app.Service
	forms    *pending.Manager
	download DownloadFunc
	now      func() time.Time

	mu    sync.Mutex
	views map[int64]catalog.View
}

func New(opts Options) *Handlers {
	h := &Handlers{
		svc:      opts.Service,
		forms:    opts.Forms,
		download: opts.Download,
		now:      opts.Now,
		views:    make(map[int64]catalog.View),
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.forms == nil {
		h.forms = pending.NewManager(h.now)
	}
	if h.download == nil {
		h.download = telegramDownload(opts.Token)
	}
	return h
}

// Forms exposes the pending form manager so the caller can run its sweeper.
func (h *Handlers) Forms() *pending.Manager {
	return h.forms
}

// Register wires the inline button handler. Text messages and uploads reach
// HandleMessage through the bot's default handler.
func (h *Handlers) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.CallbackPrefix, bot.MatchTypePrefix, h.HandleCallback)
}

type commandFunc func(h *Handlers, ctx context.Context, b *bot.Bot, msg *models.Message, args string)

var commands map[string]commandFunc

func init() {
	commands = map[string]commandFunc{
		"start":       (*Handlers).handleHelp,
		"help":        (*Handlers).handleHelp,
		"cancel":      (*Handlers).handleCancel,
		"prompts":     (*Handlers).handlePrompts,
		"search":      (*Handlers).handleSearch,
		"favorites":   categoryCommand(catalog.CategoryFavorites),
		"suggested":   categoryCommand(catalog.CategorySuggested),
		"education":   categoryCommand(catalog.CategoryEducation),
		"instrument":  (*Handlers).handleInstrument,
		"new":         (*Handlers).handleNewPrompt,
		"edit":        (*Handlers).handleEditPrompt,
		"delete":      (*Handlers).handleDeletePrompt,
		"topic":       (*Handlers).handleTopic,
		"newtopic":    (*Handlers).handleNewTopic,
		"edittopic":   (*Handlers).handleEditTopic,
		"deletetopic": (*Handlers).handleDeleteTopic,
		"export":      (*Handlers).handleExport,
		"history":     (*Handlers).handleHistory,
	}
}

const helpText = "Commands:\n" +
	"/prompts [search] - list your prompts\n" +
	"/favorites, /suggested, /education - switch category\n" +
	"/search <text> - filter the current list, empty clears\n" +
	"/instrument [symbol] - pick the instrument used when copying\n" +
	"/new, /edit <id>, /delete <id> - manage your prompts\n" +
	"/topic [id], /newtopic, /edittopic <id>, /deletetopic <id> - education topics\n" +
	"/export - download your prompts as CSV\n" +
	"/history - recent copies (remote store only)\n" +
	"/cancel - abandon an open form\n\n" +
	"Attach a CSV file (title, category, tags, description) to import prompts."

// HandleMessage is the default handler. It routes commands, answers open
// forms and imports CSV uploads.
func (h *Handlers) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleMessage")
		return
	}
	msg := update.Message

	if msg.Document != nil {
		h.handleDocument(ctx, b, msg)
		return
	}

	if name, args, ok := parseCommand(msg.Text); ok {
		cmd, known := commands[name]
		if !known {
			h.reply(ctx, b, msg.Chat.ID, "Unknown command.\n\n"+helpText)
			return
		}
		cmd(h, ctx, b, msg, args)
		return
	}

	if form, ok := h.forms.Consume(msg.From.ID, msg.Chat.ID, h.now()); ok {
		h.handleFormAnswer(ctx, b, msg, form)
		return
	}

	h.reply(ctx, b, msg.Chat.ID, helpText)
}

// parseCommand splits "/name@bot args" into its lower-cased name and the
// trimmed remainder.
func parseCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	token, rest, _ := strings.Cut(text[1:], " ")
	token, _, _ = strings.Cut(token, "@")
	if token == "" {
		return "", "", false
	}
	return strings.ToLower(token), strings.TrimSpace(rest), true
}

func (h *Handlers) handleHelp(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	h.reply(ctx, b, msg.Chat.ID, helpText)
}

func (h *Handlers) handleCancel(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	if h.forms.Cancel(msg.From.ID) {
		h.reply(ctx, b, msg.Chat.ID, "Cancelled.")
		return
	}
	h.reply(ctx, b, msg.Chat.ID, "Nothing to cancel.")
}

func (h *Handlers) view(chatID int64) catalog.View {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewLocked(chatID)
}

func (h *Handlers) viewLocked(chatID int64) catalog.View {
	view, ok := h.views[chatID]
	if !ok {
		view = catalog.View{Category: catalog.CategoryMine}
	}
	if view.Instrument == "" {
		view.Instrument = h.svc.DefaultInstrument()
	}
	return view
}

func (h *Handlers) updateView(chatID int64, change func(*catalog.View)) catalog.View {
	h.mu.Lock()
	defer h.mu.Unlock()
	view := h.viewLocked(chatID)
	change(&view)
	h.views[chatID] = view
	return view
}

func (h *Handlers) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ui.Truncate(text, ui.MaxMessageLen),
	}); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// errorText turns a command failure into the message shown to the user.
// ok is true when the local change was committed.
func errorText(err error) (text string, ok bool) {
	switch {
	case err == nil:
		return "", true
	case errors.Is(err, db.ErrRemote):
		return "Saved locally; sync failed.", true
	case errors.Is(err, catalog.ErrValidation):
		return fmt.Sprintf("Not saved: %v.", err), false
	case errors.Is(err, catalog.ErrDuplicate):
		return "Already in My Prompts.", false
	case errors.Is(err, catalog.ErrNotFound):
		return "Not found.", false
	case errors.Is(err, catalog.ErrProtectedTopic):
		return "Built-in topics cannot be deleted.", false
	default:
		return "Something went wrong. Please try again later.", false
	}
}

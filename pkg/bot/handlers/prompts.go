package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/clipboard"
	"github.com/smith3v/trade-prompts/pkg/instrument"
	"github.com/smith3v/trade-prompts/pkg/logger"
	"github.com/smith3v/trade-prompts/pkg/ui"
)

func (h *Handlers) handlePrompts(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	view := h.updateView(msg.Chat.ID, func(v *catalog.View) {
		v.Category = catalog.CategoryMine
		v.Search = args
	})
	h.sendList(ctx, b, msg.Chat.ID, view)
}

func (h *Handlers) handleSearch(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	view := h.updateView(msg.Chat.ID, func(v *catalog.View) {
		v.Search = args
	})
	h.sendList(ctx, b, msg.Chat.ID, view)
}

func categoryCommand(category catalog.Category) commandFunc {
	return func(h *Handlers, ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
		view := h.updateView(msg.Chat.ID, func(v *catalog.View) {
			v.Category = category
		})
		h.sendList(ctx, b, msg.Chat.ID, view)
	}
}

func (h *Handlers) handleInstrument(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	if args == "" {
		text, keyboard, err := ui.RenderInstrumentPicker(h.view(msg.Chat.ID).Instrument)
		if err != nil {
			logger.Error("failed to render instrument picker", "chat_id", msg.Chat.ID, "error", err)
			h.reply(ctx, b, msg.Chat.ID, "Failed to show instruments.")
			return
		}
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      msg.Chat.ID,
			Text:        text,
			ReplyMarkup: keyboard,
		}); err != nil {
			logger.Error("failed to send instrument picker", "chat_id", msg.Chat.ID, "error", err)
		}
		return
	}

	symbol := instrument.Normalize(args)
	if !instrument.Known(symbol) {
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Unknown instrument %q. Send /instrument to pick one.", args))
		return
	}
	h.updateView(msg.Chat.ID, func(v *catalog.View) {
		v.Instrument = symbol
	})
	h.reply(ctx, b, msg.Chat.ID, "Instrument set to "+symbol+".")
}

func (h *Handlers) handleDeletePrompt(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	id, ok := parsePromptID(args)
	if !ok {
		h.reply(ctx, b, msg.Chat.ID, "Usage: /delete <id>")
		return
	}
	deleted, err := h.svc.DeletePrompt(ctx, id)
	text, committed := errorText(err)
	switch {
	case !committed:
		logger.Error("failed to delete prompt", "id", id, "error", err)
		h.reply(ctx, b, msg.Chat.ID, text)
	case !deleted:
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Prompt #%d not found.", id))
	case text != "":
		logger.Warn("prompt deleted locally only", "id", id, "error", err)
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Deleted prompt #%d. %s", id, text))
	default:
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Deleted prompt #%d.", id))
	}
}

func parsePromptID(value string) (int, bool) {
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handlers) sendList(ctx context.Context, b *bot.Bot, chatID int64, view catalog.View) {
	text, keyboard, err := ui.RenderPromptList(view, h.svc.Visible(view), h.svc.Counts())
	if err != nil {
		logger.Error("failed to render prompt list", "chat_id", chatID, "error", err)
		h.reply(ctx, b, chatID, "Failed to show prompts.")
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send prompt list", "chat_id", chatID, "error", err)
	}
}

func (h *Handlers) editList(ctx context.Context, b *bot.Bot, msg *models.Message, view catalog.View) error {
	text, keyboard, err := ui.RenderPromptList(view, h.svc.Visible(view), h.svc.Counts())
	if err != nil {
		return err
	}
	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	return err
}

// HandleCallback applies an inline button press and redraws the message it
// came from.
func (h *Handlers) HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleCallback")
		return
	}

	callbackID := update.CallbackQuery.ID
	answered := false
	answerCallback := func(text string) {
		if answered || callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			logger.Error("failed to answer callback query", "error", err)
		}
		answered = true
	}
	defer answerCallback("")

	action, err := ui.ParseCallbackData(update.CallbackQuery.Data)
	if err != nil {
		logger.Error("failed to parse callback", "data", update.CallbackQuery.Data, "error", err)
		answerCallback("Unknown command")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil {
		logger.Error("callback query message is inaccessible", "user_id", update.CallbackQuery.From.ID)
		answerCallback("Message is not available")
		return
	}
	msg := message.Message
	if msg.Chat.ID == 0 {
		logger.Error("callback query message chat ID is missing", "user_id", update.CallbackQuery.From.ID)
		answerCallback("Message is not available")
		return
	}

	view := h.view(msg.Chat.ID)
	switch action.Op {
	case ui.OpCategory:
		view = h.updateView(msg.Chat.ID, func(v *catalog.View) { v.Category = action.Category })
	case ui.OpInstrument:
		view = h.updateView(msg.Chat.ID, func(v *catalog.View) { v.Instrument = action.Instrument })
		answerCallback("Instrument set to " + action.Instrument)
	case ui.OpTopic:
		h.updateView(msg.Chat.ID, func(v *catalog.View) { v.Topic = action.Topic })
		if err := h.editTopic(ctx, b, msg, action.Topic); err != nil {
			logger.Error("failed to show topic", "topic", action.Topic, "error", err)
			answerCallback("Failed to show topic")
		}
		return
	case ui.OpFavorite:
		prompt, err := h.svc.ToggleFavorite(ctx, action.Ref)
		text, committed := errorText(err)
		if !committed {
			logger.Error("failed to toggle favorite", "ref", action.Ref, "error", err)
			answerCallback(text)
			return
		}
		if text == "" {
			text = "Removed from favorites"
			if prompt.IsFavorite {
				text = "Added to favorites"
			}
		}
		answerCallback(text)
	case ui.OpAdd:
		prompt, err := h.svc.AddSuggested(ctx, action.Ref.ID)
		text, committed := errorText(err)
		if !committed {
			logger.Warn("suggested prompt not added", "id", action.Ref.ID, "error", err)
			answerCallback(text)
			return
		}
		if text == "" {
			text = fmt.Sprintf("Added to My Prompts as #%d", prompt.ID)
		}
		answerCallback(text)
	case ui.OpCopy:
		if !h.copyPrompt(ctx, b, msg.Chat.ID, action.Ref, view.Instrument, answerCallback) {
			return
		}
	}

	if err := h.editList(ctx, b, msg, view); err != nil {
		logger.Error("failed to update prompt list", "chat_id", msg.Chat.ID, "error", err)
	}
}

// copyPrompt sends the rendered prompt as its own message, which is the
// chat's clipboard. It reports whether the list should be redrawn.
func (h *Handlers) copyPrompt(ctx context.Context, b *bot.Bot, chatID int64, ref catalog.PromptRef, symbol string, answer func(string)) bool {
	source, ok := h.svc.Store().Lookup(ref)
	if !ok {
		answer("Prompt not found")
		return false
	}
	chat := clipboard.WriterFunc(func(ctx context.Context, text string) error {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.RenderCopiedPrompt(source.Title, symbol, text),
		})
		return err
	})

	result, err := h.svc.CopyPrompt(ctx, ref, symbol, chat)
	text, committed := errorText(err)
	if !committed {
		logger.Error("failed to copy prompt", "ref", ref, "error", err)
		answer(text)
		return false
	}
	if text != "" {
		logger.Warn("copy recorded locally only", "ref", ref, "error", err)
		answer("Copied. " + text)
	} else {
		answer("Copied")
	}
	return result.Counted
}

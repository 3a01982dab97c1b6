package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/logger"
	"github.com/smith3v/trade-prompts/pkg/ui"
)

func (h *Handlers) handleTopic(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	if args == "" {
		args = h.view(msg.Chat.ID).Topic
	}
	text, keyboard, ok, err := h.renderTopic(args)
	if err != nil {
		logger.Error("failed to render topic", "topic", args, "error", err)
		h.reply(ctx, b, msg.Chat.ID, "Failed to show topic.")
		return
	}
	if !ok {
		h.reply(ctx, b, msg.Chat.ID, "There are no education topics. Send /newtopic to add one.")
		return
	}
	h.updateView(msg.Chat.ID, func(v *catalog.View) { v.Topic = args })
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send topic", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (h *Handlers) editTopic(ctx context.Context, b *bot.Bot, msg *models.Message, id string) error {
	text, keyboard, ok, err := h.renderTopic(id)
	if err != nil || !ok {
		return err
	}
	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	return err
}

// renderTopic shows id, or the first topic when id is unknown. ok is false
// when no topics exist.
func (h *Handlers) renderTopic(id string) (string, *models.InlineKeyboardMarkup, bool, error) {
	topic, ok := h.svc.ResolveTopic(id)
	if !ok {
		return "", nil, false, nil
	}
	text, keyboard, err := ui.RenderTopic(h.svc.Topics(), topic)
	return text, keyboard, err == nil, err
}

func (h *Handlers) handleDeleteTopic(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	if args == "" {
		h.reply(ctx, b, msg.Chat.ID, "Usage: /deletetopic <id>")
		return
	}
	deleted, err := h.svc.DeleteTopic(ctx, args)
	text, committed := errorText(err)
	switch {
	case !committed:
		logger.Warn("topic not deleted", "topic", args, "error", err)
		h.reply(ctx, b, msg.Chat.ID, text)
	case !deleted:
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Topic %q not found.", args))
	case text != "":
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Deleted topic %q. %s", args, text))
	default:
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Deleted topic %q.", args))
	}
}

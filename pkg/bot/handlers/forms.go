package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/trade-prompts/pkg/bot/pending"
	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/logger"
)

const (
	fieldSeparator = "|"
	promptFormHelp = "Send the prompt as one message:\n" +
		"title | category | tags | description\n" +
		"or just: title | description\n\n" +
		"Use [INSTRUMENT] where the symbol should go. /cancel to stop."
	topicFormHelp = "Send the topic as one message:\n" +
		"title | content\n\n" +
		"Content may use basic HTML. /cancel to stop."
)

func (h *Handlers) handleNewPrompt(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	h.forms.Start(msg.From.ID, pending.Form{Kind: pending.KindNewPrompt, ChatID: msg.Chat.ID}, h.now(), pending.Timeout)
	h.reply(ctx, b, msg.Chat.ID, "New prompt. "+promptFormHelp)
}

func (h *Handlers) handleEditPrompt(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	id, ok := parsePromptID(args)
	if !ok {
		h.reply(ctx, b, msg.Chat.ID, "Usage: /edit <id>")
		return
	}
	prompt, ok := h.svc.Store().Prompt(id)
	if !ok {
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Prompt #%d not found.", id))
		return
	}
	h.forms.Start(msg.From.ID, pending.Form{Kind: pending.KindEditPrompt, ChatID: msg.Chat.ID, PromptID: id}, h.now(), pending.Timeout)
	current := strings.Join([]string{prompt.Title, prompt.Category, catalog.JoinTags(prompt.Tags), prompt.Description}, " | ")
	h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Editing #%d. Current value:\n\n%s\n\n%s", id, current, promptFormHelp))
}

func (h *Handlers) handleNewTopic(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	h.forms.Start(msg.From.ID, pending.Form{Kind: pending.KindNewTopic, ChatID: msg.Chat.ID}, h.now(), pending.Timeout)
	h.reply(ctx, b, msg.Chat.ID, "New topic. "+topicFormHelp)
}

func (h *Handlers) handleEditTopic(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	topic, ok := h.svc.Store().Topic(args)
	if args == "" || !ok {
		h.reply(ctx, b, msg.Chat.ID, "Usage: /edittopic <id>")
		return
	}
	h.forms.Start(msg.From.ID, pending.Form{Kind: pending.KindEditTopic, ChatID: msg.Chat.ID, TopicID: topic.ID}, h.now(), pending.Timeout)
	h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Editing %q. Current value:\n\n%s | %s\n\n%s", topic.ID, topic.Title, topic.Content, topicFormHelp))
}

func (h *Handlers) handleFormAnswer(ctx context.Context, b *bot.Bot, msg *models.Message, form pending.Form) {
	chatID := msg.Chat.ID
	switch form.Kind {
	case pending.KindNewPrompt, pending.KindEditPrompt:
		fields, ok := parsePromptForm(msg.Text)
		if !ok {
			h.forms.Start(msg.From.ID, form, h.now(), pending.Timeout)
			h.reply(ctx, b, chatID, "Could not read that. "+promptFormHelp)
			return
		}
		var prompt catalog.Prompt
		var err error
		if form.Kind == pending.KindNewPrompt {
			prompt, err = h.svc.CreatePrompt(ctx, fields)
		} else {
			prompt, err = h.svc.UpdatePrompt(ctx, form.PromptID, fields)
		}
		text, committed := errorText(err)
		if !committed {
			logger.Warn("prompt form rejected", "kind", form.Kind, "error", err)
			h.reply(ctx, b, chatID, text)
			return
		}
		h.reply(ctx, b, chatID, strings.TrimSpace(fmt.Sprintf("Saved prompt #%d %q. %s", prompt.ID, prompt.Title, text)))
	case pending.KindNewTopic, pending.KindEditTopic:
		fields, ok := parseTopicForm(msg.Text)
		if !ok {
			h.forms.Start(msg.From.ID, form, h.now(), pending.Timeout)
			h.reply(ctx, b, chatID, "Could not read that. "+topicFormHelp)
			return
		}
		var topic catalog.Topic
		var err error
		if form.Kind == pending.KindNewTopic {
			topic, err = h.svc.CreateTopic(ctx, fields)
		} else {
			topic, err = h.svc.UpdateTopic(ctx, form.TopicID, fields)
		}
		text, committed := errorText(err)
		if !committed {
			logger.Warn("topic form rejected", "kind", form.Kind, "error", err)
			h.reply(ctx, b, chatID, text)
			return
		}
		h.reply(ctx, b, chatID, strings.TrimSpace(fmt.Sprintf("Saved topic %q as /topic %s. %s", topic.Title, topic.ID, text)))
	default:
		logger.Error("unknown form kind", "kind", form.Kind)
	}
}

// parsePromptForm reads "title | category | tags | description" or
// "title | description". Separators after the fourth field stay in the
// description.
func parsePromptForm(text string) (catalog.PromptFields, bool) {
	parts := strings.SplitN(text, fieldSeparator, 4)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 2:
		return catalog.PromptFields{Title: parts[0], Description: parts[1]}, true
	case 4:
		return catalog.PromptFields{Title: parts[0], Category: parts[1], Tags: parts[2], Description: parts[3]}, true
	default:
		return catalog.PromptFields{}, false
	}
}

func parseTopicForm(text string) (catalog.TopicFields, bool) {
	title, content, ok := strings.Cut(text, fieldSeparator)
	if !ok {
		return catalog.TopicFields{}, false
	}
	return catalog.TopicFields{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}, true
}

package ui

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot/models"
	"github.com/microcosm-cc/bluemonday"
	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/instrument"
)

// MaxMessageLen is the Telegram limit for a single message text.
const MaxMessageLen = 4096

const instrumentColumns = 3

const maxTopicTitleLen = 256

var categoryLabels = map[catalog.Category]string{
	catalog.CategoryMine:      "My Prompts",
	catalog.CategoryFavorites: "Favorites",
	catalog.CategorySuggested: "Suggested",
	catalog.CategoryEducation: "Education",
}

func CategoryLabel(category catalog.Category) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return categoryLabels[catalog.CategoryMine]
}

// RenderPromptList lists the visible entries with one button row per entry
// and the category switcher on top.
func RenderPromptList(view catalog.View, entries []catalog.Entry, counts catalog.Counts) (string, *models.InlineKeyboardMarkup, error) {
	symbol := instrument.OrDefault(view.Instrument)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d) · %s\n", CategoryLabel(view.Category), len(entries), symbol)
	if view.Search != "" {
		fmt.Fprintf(&b, "Search: %q\n", view.Search)
	}
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString("No prompts found.")
	}

	for _, e := range entries {
		line := fmt.Sprintf("#%d %s %s\n   %s · %d uses", e.Ref.ID, favoriteMark(e.IsFavorite()), e.Title, e.Prompt.Category, e.UsageCount())
		if len(e.Prompt.Tags) > 0 {
			line += " · " + strings.Join(e.Prompt.Tags, ", ")
		}
		if e.Adopted != nil {
			line += fmt.Sprintf(" · in My Prompts as #%d", e.Adopted.ID)
		}
		b.WriteString(line + "\n")
	}

	rows, err := categoryRow(view.Category, counts)
	if err != nil {
		return "", nil, err
	}
	keyboard := &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{rows}}

	for _, e := range entries {
		row, err := entryRow(e)
		if err != nil {
			return "", nil, err
		}
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, row)
	}

	return Truncate(strings.TrimRight(b.String(), "\n"), MaxMessageLen), keyboard, nil
}

func entryRow(e catalog.Entry) ([]models.InlineKeyboardButton, error) {
	favData, err := BuildFavoriteCallback(e.Ref)
	if err != nil {
		return nil, err
	}
	copyData, err := BuildCopyCallback(e.Target())
	if err != nil {
		return nil, err
	}
	row := []models.InlineKeyboardButton{
		{Text: fmt.Sprintf("%s #%d", favoriteMark(e.IsFavorite()), e.Ref.ID), CallbackData: favData},
		{Text: fmt.Sprintf("Copy #%d", e.Ref.ID), CallbackData: copyData},
	}
	if e.CanAdd() {
		addData, err := BuildAddCallback(e.Ref.ID)
		if err != nil {
			return nil, err
		}
		row = append(row, models.InlineKeyboardButton{Text: fmt.Sprintf("Add #%d", e.Ref.ID), CallbackData: addData})
	}
	return row, nil
}

func categoryRow(selected catalog.Category, counts catalog.Counts) ([]models.InlineKeyboardButton, error) {
	row := make([]models.InlineKeyboardButton, 0, len(catalog.Categories))
	for _, category := range catalog.Categories {
		data, err := BuildCategoryCallback(category)
		if err != nil {
			return nil, err
		}
		label := fmt.Sprintf("%s %d", CategoryLabel(category), counts.For(category))
		if category == selected {
			label = "• " + label
		}
		row = append(row, models.InlineKeyboardButton{Text: label, CallbackData: data})
	}
	return row, nil
}

// RenderInstrumentPicker shows every selectable instrument, marking current.
func RenderInstrumentPicker(current string) (string, *models.InlineKeyboardMarkup, error) {
	current = instrument.OrDefault(current)
	keyboard := &models.InlineKeyboardMarkup{}
	var row []models.InlineKeyboardButton
	for _, symbol := range instrument.Instruments {
		data, err := BuildInstrumentCallback(symbol)
		if err != nil {
			return "", nil, err
		}
		label := symbol
		if symbol == current {
			label = "✅ " + symbol
		}
		row = append(row, models.InlineKeyboardButton{Text: label, CallbackData: data})
		if len(row) == instrumentColumns {
			keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, row)
	}
	return fmt.Sprintf("Instrument\nCurrent value: %s", current), keyboard, nil
}

// RenderCopiedPrompt is the message that carries a copied prompt.
func RenderCopiedPrompt(title, symbol, text string) string {
	header := fmt.Sprintf("📋 %s · %s\n\n", instrument.RenderTitle(title, symbol), symbol)
	return Truncate(header+text, MaxMessageLen)
}

// RenderTopic renders selected as Telegram HTML followed by a button per
// topic.
func RenderTopic(topics []catalog.Topic, selected catalog.Topic) (string, *models.InlineKeyboardMarkup, error) {
	keyboard := &models.InlineKeyboardMarkup{}
	for _, topic := range topics {
		data, err := BuildTopicCallback(topic.ID)
		if err != nil {
			return "", nil, err
		}
		label := topic.Title
		if topic.ID == selected.ID {
			label = "• " + label
		}
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []models.InlineKeyboardButton{{Text: label, CallbackData: data}})
	}

	header := fmt.Sprintf("<b>%s</b>\n\n", html.EscapeString(Truncate(selected.Title, maxTopicTitleLen)))
	var footer string
	if !catalog.IsProtectedTopic(selected.ID) {
		footer = fmt.Sprintf("\n\n<i>/deletetopic %s</i>", html.EscapeString(selected.ID))
	}
	body := TruncateHTML(TopicHTML(selected.Content), MaxMessageLen-len(header)-len(footer))
	return header + body + footer, keyboard, nil
}

var (
	topicBlockReplacer = strings.NewReplacer(
		"<h1>", "<b>", "</h1>", "</b>\n",
		"<h2>", "<b>", "</h2>", "</b>\n",
		"<h3>", "<b>", "</h3>", "</b>\n",
		"<h4>", "<b>", "</h4>", "</b>\n",
		"<li>", "• ", "</li>", "\n",
		"<p>", "", "</p>", "\n",
		"<br>", "\n", "<br/>", "\n",
		"<ul>", "", "</ul>", "",
		"<ol>", "", "</ol>", "",
	)
	telegramPolicy = bluemonday.NewPolicy().AllowElements("b", "strong", "i", "em", "u", "s", "code", "pre")
)

// TopicHTML reduces stored topic markup to the subset Telegram accepts.
func TopicHTML(content string) string {
	converted := topicBlockReplacer.Replace(content)
	return strings.TrimSpace(telegramPolicy.Sanitize(converted))
}

// Truncate shortens text to at most limit bytes on a rune boundary.
func Truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	const ellipsis = "…"
	cut := limit - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + ellipsis
}

func favoriteMark(favorite bool) string {
	if favorite {
		return "★"
	}
	return "☆"
}

// TruncateHTML shortens Telegram HTML to at most limit bytes without cutting
// a tag or an entity. Tags left open at the cut are closed.
func TruncateHTML(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	const ellipsis = "…"
	var (
		b    strings.Builder
		open []string
	)
	for i := 0; i < len(text); {
		tok := nextHTMLToken(text[i:])
		next := open
		switch {
		case strings.HasPrefix(tok, "</"):
			if len(next) > 0 {
				next = next[:len(next)-1]
			}
		case len(tok) > 1 && tok[0] == '<':
			next = append(open[:len(open):len(open)], strings.Trim(tok, "<>/"))
		}
		if b.Len()+len(tok)+len(ellipsis)+closingLen(next) > limit {
			break
		}
		b.WriteString(tok)
		open = next
		i += len(tok)
	}
	if b.Len()+len(ellipsis)+closingLen(open) <= limit {
		b.WriteString(ellipsis)
	}
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteString("</" + open[i] + ">")
	}
	return b.String()
}

// nextHTMLToken returns the tag, entity or rune that starts text.
func nextHTMLToken(text string) string {
	switch text[0] {
	case '<':
		if end := strings.IndexByte(text, '>'); end >= 0 {
			return text[:end+1]
		}
	case '&':
		if end := strings.IndexByte(text, ';'); end > 0 && end <= 10 {
			return text[:end+1]
		}
	}
	_, size := utf8.DecodeRuneInString(text)
	return text[:size]
}

func closingLen(open []string) int {
	n := 0
	for _, tag := range open {
		n += len(tag) + len("</>")
	}
	return n
}

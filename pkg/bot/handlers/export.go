package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/trade-prompts/pkg/app"
	"github.com/smith3v/trade-prompts/pkg/importexport"
	"github.com/smith3v/trade-prompts/pkg/logger"
)

const (
	maxImportBytes  = 1 << 20
	maxHistoryLines = 20
)

func (h *Handlers) handleExport(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	if msg.Chat.Type != models.ChatTypePrivate {
		h.reply(ctx, b, msg.Chat.ID, "The /export command works only in private chat.")
		return
	}

	prompts := h.svc.Store().Prompts()
	if len(prompts) == 0 {
		h.reply(ctx, b, msg.Chat.ID, "You have no prompts to export.")
		return
	}

	data, err := importexport.BuildExportCSV(prompts)
	if err != nil {
		logger.Error("failed to build export CSV", "chat_id", msg.Chat.ID, "error", err)
		h.reply(ctx, b, msg.Chat.ID, "Failed to export your prompts. Please try again later.")
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: msg.Chat.ID,
		Document: &models.InputFileUpload{
			Filename: importexport.ExportFilename(h.now()),
			Data:     bytes.NewReader(data),
		},
		Caption: fmt.Sprintf("Your prompt export (%d prompts).", len(prompts)),
	})
	if err != nil {
		logger.Error("failed to send export document", "chat_id", msg.Chat.ID, "error", err)
		h.reply(ctx, b, msg.Chat.ID, "Failed to export your prompts. Please try again later.")
	}
}

func (h *Handlers) handleDocument(ctx context.Context, b *bot.Bot, msg *models.Message) {
	logger.Info("Uploading file", "file_name", msg.Document.FileName, "user_id", msg.From.ID)

	if !strings.HasSuffix(strings.ToLower(msg.Document.FileName), ".csv") {
		h.reply(ctx, b, msg.Chat.ID, "The uploaded file is not a CSV. Please upload a valid CSV file.")
		return
	}

	data, err := h.download(ctx, b, msg.Document.FileID)
	if err != nil {
		logger.Error("failed to download file", "file_id", msg.Document.FileID, "error", err)
		h.reply(ctx, b, msg.Chat.ID, "Failed to download the file. Please try again.")
		return
	}

	rows, invalid, err := importexport.ParsePromptsCSV(data)
	if err != nil {
		logger.Error("failed to parse CSV file", "error", err)
		h.reply(ctx, b, msg.Chat.ID, "Failed to read the CSV file. Please ensure it is in the correct format.")
		return
	}
	if len(rows) == 0 {
		h.reply(ctx, b, msg.Chat.ID, "No valid prompts found to import.")
		return
	}

	imported, skipped, err := h.svc.ImportPrompts(ctx, rows)
	text, committed := errorText(err)
	if !committed {
		logger.Error("failed to import prompts", "error", err)
		h.reply(ctx, b, msg.Chat.ID, "Failed to import your prompts. Please try again later.")
		return
	}
	h.reply(ctx, b, msg.Chat.ID, strings.TrimSpace(fmt.Sprintf("Imported %d prompts, skipped %d rows. %s", imported, skipped+invalid, text)))
}

// telegramDownload fetches files through the Bot API file endpoint.
func telegramDownload(token string) DownloadFunc {
	return func(ctx context.Context, b *bot.Bot, fileID string) ([]byte, error) {
		file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
		if err != nil {
			return nil, err
		}
		fileURL := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", token, file.FilePath)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("file download: unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxImportBytes))
	}
}

func (h *Handlers) handleHistory(ctx context.Context, b *bot.Bot, msg *models.Message, _ string) {
	history, err := h.svc.History(ctx)
	if errors.Is(err, app.ErrRemoteDisabled) {
		h.reply(ctx, b, msg.Chat.ID, "History is kept only when the remote store is enabled.")
		return
	}
	if err != nil {
		logger.Error("failed to load history", "error", err)
		h.reply(ctx, b, msg.Chat.ID, "Failed to load history. Please try again later.")
		return
	}
	if len(history) == 0 {
		h.reply(ctx, b, msg.Chat.ID, "No prompts copied yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Recent copies:\n")
	for i, entry := range history {
		if i == maxHistoryLines {
			break
		}
		fmt.Fprintf(&sb, "%s · %s\n", entry.ExecutedAt.Format(time.DateTime), entry.InstrumentUsed)
	}
	h.reply(ctx, b, msg.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// NotificationService sends marketplace notifications through the Bot API:
// worker/referrer log lines via sendMessage and deposit receipts via
// sendPhoto to the audit channel.
type NotificationService struct {
	botToken   string
	channelID  string
	baseURL    string
	enabled    bool
	httpClient *http.Client
}

type telegramMessage struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// NewNotificationService creates a new NotificationService. With an empty
// token the service silently no-ops, so local runs work without a bot.
func NewNotificationService(botToken, channelID string) *NotificationService {
	return &NotificationService{
		botToken:  botToken,
		channelID: channelID,
		baseURL:   "https://api.telegram.org",
		enabled:   botToken != "",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendWorkerLog sends an HTML log line to a worker/referrer chat
func (s *NotificationService) SendWorkerLog(ctx context.Context, chatID int64, html string) error {
	if !s.enabled || chatID == 0 {
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)

	payload := telegramMessage{
		ChatID:    chatID,
		Text:      html,
		ParseMode: "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return s.do(req)
}

// SendDepositReceipt posts a payment proof photo with caption to the audit
// channel. The deposit flow treats a failure here as fatal: no receipt in
// the channel, no deposit request.
func (s *NotificationService) SendDepositReceipt(ctx context.Context, photo []byte, filename, caption string) error {
	if !s.enabled || s.channelID == "" {
		return fmt.Errorf("telegram audit channel is not configured")
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", s.baseURL, s.botToken)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", s.channelID); err != nil {
		return fmt.Errorf("failed to build sendPhoto form: %w", err)
	}
	if err := writer.WriteField("caption", caption); err != nil {
		return fmt.Errorf("failed to build sendPhoto form: %w", err)
	}
	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		return fmt.Errorf("failed to build sendPhoto form: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return fmt.Errorf("failed to build sendPhoto form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build sendPhoto form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return s.do(req)
}

func (s *NotificationService) do(req *http.Request) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

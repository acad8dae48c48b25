package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"seriestracker/internal/config"
)

const baseURL = "https://api.telegram.org"

// Client handles communication with the Telegram Bot API
type Client struct {
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Telegram Bot API client. The HTTP timeout leaves
// headroom above the long-polling timeout so getUpdates calls are not cut
// short.
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}

	return &Client{
		token:      cfg.TelegramBotToken,
		httpClient: &http.Client{Timeout: time.Duration(cfg.PollTimeoutSec+10) * time.Second},
		logger:     logger,
	}, nil
}

// apiResponse is the envelope every Bot API method returns
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

// doRequest performs an HTTP request to a Bot API method
func (c *Client) doRequest(ctx context.Context, method string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL := baseURL + "/bot" + c.token + "/" + method
	c.logger.WithField("method", method).Debug("Making Telegram API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("API method %s failed with code %d: %s", method, apiResp.ErrorCode, apiResp.Description)
	}

	if result != nil {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}

	return nil
}

// GetUpdates long-polls for new updates starting at offset
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	var updates []Update
	err := c.doRequest(ctx, "getUpdates", getUpdatesRequest{
		Offset:  offset,
		Timeout: timeoutSec,
	}, &updates)
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}
	return updates, nil
}

// SendMessage sends a text message, optionally with an inline keyboard
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error {
	err := c.doRequest(ctx, "sendMessage", sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing the progress indicator
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	err := c.doRequest(ctx, "answerCallbackQuery", answerCallbackQueryRequest{
		CallbackQueryID: callbackQueryID,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// SetMyCommands registers the bot's slash-command menu
func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	err := c.doRequest(ctx, "setMyCommands", setMyCommandsRequest{Commands: commands}, nil)
	if err != nil {
		return fmt.Errorf("failed to set commands: %w", err)
	}
	return nil
}

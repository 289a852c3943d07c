// Package chat implements free-text transaction entry: the user types
// a sentence, the backend parses it into a transaction, and the
// conversation persists locally so it survives restarts.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"satang/internal/api"
	"satang/internal/log"
	"satang/internal/resource"
	"satang/internal/storage"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a message is already being processed")
)

const msgSendFailed = "Failed to send the message."

// Message is one entry of the conversation.
type Message struct {
	ID        string
	Text      string
	IsUser    bool
	IsError   bool
	Timestamp time.Time
}

type Service struct {
	api    *api.Client
	repo   *storage.SQLiteRepository
	token  resource.TokenFunc
	logger *log.Logger

	mu         sync.Mutex
	processing bool
	lastUser   string
}

func NewService(client *api.Client, repo *storage.SQLiteRepository, token resource.TokenFunc, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentChat})
	}
	return &Service{
		api:    client,
		repo:   repo,
		token:  token,
		logger: logger.WithComponent(log.ComponentChat),
	}
}

// IsProcessing reports whether a message exchange is in flight.
func (s *Service) IsProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// Send submits one free-text entry. API failures do not propagate as
// errors: they become an error-flagged reply in the conversation, so
// the history always shows what happened. Only local persistence
// failures return an error.
func (s *Service) Send(ctx context.Context, text string) (Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}
	s.processing = true
	s.lastUser = trimmed
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	userMsg := newMessage(trimmed, true, false)
	if err := s.save(ctx, userMsg); err != nil {
		return Message{}, err
	}

	reply := s.exchange(ctx, trimmed)
	if err := s.save(ctx, reply); err != nil {
		return Message{}, err
	}
	return reply, nil
}

// RetryLast drops the failed exchange from the history and re-sends
// the last user message.
func (s *Service) RetryLast(ctx context.Context) (Message, error) {
	s.mu.Lock()
	last := s.lastUser
	busy := s.processing
	s.mu.Unlock()

	if last == "" {
		return Message{}, ErrEmptyMessage
	}
	if busy {
		return Message{}, ErrBusy
	}

	messages, err := s.repo.ListMessages(ctx)
	if err != nil {
		return Message{}, err
	}
	for _, m := range messages {
		if m.IsError || m.Text == last {
			if err := s.repo.DeleteMessage(ctx, m.ID); err != nil {
				return Message{}, err
			}
		}
	}

	return s.Send(ctx, last)
}

// History returns the conversation oldest first.
func (s *Service) History(ctx context.Context) ([]Message, error) {
	stored, err := s.repo.ListMessages(ctx)
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, Message{
			ID:        m.ID,
			Text:      m.Text,
			IsUser:    m.IsUser,
			IsError:   m.IsError,
			Timestamp: m.CreatedAt,
		})
	}
	return messages, nil
}

// Clear drops the whole conversation.
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.ClearMessages(ctx)
}

func (s *Service) exchange(ctx context.Context, text string) Message {
	token, ok := s.token()
	if !ok {
		classified := api.Classify(api.ErrNoToken, msgSendFailed)
		return newMessage(classified.Message, false, true)
	}

	parsed, err := s.api.ParseTransaction(ctx, token, text)
	if err != nil {
		classified := api.Classify(err, msgSendFailed)
		s.logger.Warn("Transaction parse failed", log.FieldError, err.Error())
		return newMessage(classified.Message, false, true)
	}

	return newMessage(formatConfirmation(parsed), false, false)
}

func (s *Service) save(ctx context.Context, m Message) error {
	return s.repo.SaveMessage(ctx, storage.ChatMessage{
		ID:        m.ID,
		Text:      m.Text,
		IsUser:    m.IsUser,
		IsError:   m.IsError,
		CreatedAt: m.Timestamp,
	})
}

func newMessage(text string, isUser, isError bool) Message {
	role := "assistant"
	if isUser {
		role = "user"
	}
	return Message{
		ID:        fmt.Sprintf("%d_%s", time.Now().UnixNano(), role),
		Text:      text,
		IsUser:    isUser,
		IsError:   isError,
		Timestamp: time.Now(),
	}
}

func formatConfirmation(parsed api.ParsedTransaction) string {
	title := "Transaction recorded"
	switch parsed.TransactionType {
	case "income":
		title = "Income recorded"
	case "expense":
		title = "Expense recorded"
	}

	date := parsed.Date
	if ts, ok := parseTimestamp(parsed.Date); ok {
		date = ts.Format("02/01/2006 15:04:05")
	}

	return fmt.Sprintf("%s\nItem: %s\nType: %s\nCategory: %s\nAmount: %.2f\nDate: %s",
		title, parsed.Description, parsed.TransactionType, parsed.Category, parsed.Amount, date)
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

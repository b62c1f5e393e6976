package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"telegram-channel-gate/internal/domain/ports/adapter"
	"telegram-channel-gate/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// ---- Mock TelegramBotAdapter ----

type sentRecord struct {
	ChatID int64
	Kind   string // "text" | "photo" | "video"
}

type MockTelegramBot struct {
	mu   sync.Mutex
	Sent []sentRecord

	SendMessageFunc  func(ctx context.Context, params adapter.SendMessageParams) error
	SendPhotoFunc    func(ctx context.Context, params adapter.SendMediaParams) error
	SendVideoFunc    func(ctx context.Context, params adapter.SendMediaParams) error
	MemberStatusFunc func(ctx context.Context, chatID, userID int64) (string, error)
}

var _ adapter.TelegramBotAdapter = (*MockTelegramBot)(nil)

func (m *MockTelegramBot) record(chatID int64, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentRecord{ChatID: chatID, Kind: kind})
}

func (m *MockTelegramBot) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

func (m *MockTelegramBot) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(ctx, params); err != nil {
			return err
		}
	}
	m.record(params.ChatID, "text")
	return nil
}

func (m *MockTelegramBot) SendPhoto(ctx context.Context, params adapter.SendMediaParams) error {
	if m.SendPhotoFunc != nil {
		if err := m.SendPhotoFunc(ctx, params); err != nil {
			return err
		}
	}
	m.record(params.ChatID, "photo")
	return nil
}

func (m *MockTelegramBot) SendVideo(ctx context.Context, params adapter.SendMediaParams) error {
	if m.SendVideoFunc != nil {
		if err := m.SendVideoFunc(ctx, params); err != nil {
			return err
		}
	}
	m.record(params.ChatID, "video")
	return nil
}

func (m *MockTelegramBot) MemberStatus(ctx context.Context, chatID, userID int64) (string, error) {
	if m.MemberStatusFunc != nil {
		return m.MemberStatusFunc(ctx, chatID, userID)
	}
	return adapter.MemberStatusMember, nil
}

// ---- In-memory BroadcastStateRepository ----

type memStateRepo struct {
	mu      sync.Mutex
	pending map[int64]bool

	setErr error // simulate state-store failures
	getErr error
}

var _ repository.BroadcastStateRepository = (*memStateRepo)(nil)

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{pending: make(map[int64]bool)}
}

func (m *memStateRepo) SetPending(ctx context.Context, tgID int64) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[tgID] = true
	return nil
}

func (m *memStateRepo) IsPending(ctx context.Context, tgID int64) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[tgID], nil
}

func (m *memStateRepo) Clear(ctx context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, tgID)
	return nil
}

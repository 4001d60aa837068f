package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/descripto-api/internal/domain"
	"github.com/spec-kit/descripto-api/internal/llm"
	"github.com/spec-kit/descripto-api/internal/repository"
	apperrors "github.com/spec-kit/descripto-api/pkg/util/errorutil"
)

const descriptionPrompt = `Write a persuasive E-commerce product description for:
    Title: %s
    Features: %s
    Tone: %s
    Keep under %d characters and SEO-friendly.
    Return only the description, no other text, no formatting.`

// GenerationParams carries the inputs for one description.
type GenerationParams struct {
	ProductName    string
	ProductFeature string
	Tone           string
	CharCount      int
}

// ChatParams carries one chat exchange request. An empty TabID starts a new
// conversation.
type ChatParams struct {
	TabID     string
	Title     string
	Feature   string
	Tone      string
	CharCount int
}

// ContentService brokers generation requests to the LLM provider and keeps
// per-user chat history.
type ContentService struct {
	generator llm.Generator
	tabs      repository.TabRepository
	messages  repository.MessageRepository
	logger    *zap.Logger
}

// NewContentService builds the service.
func NewContentService(generator llm.Generator, tabs repository.TabRepository, messages repository.MessageRepository, logger *zap.Logger) *ContentService {
	return &ContentService{generator: generator, tabs: tabs, messages: messages, logger: logger}
}

// GenerateDescription produces a one-off product description.
func (s *ContentService) GenerateDescription(ctx context.Context, params GenerationParams) (string, error) {
	prompt := fmt.Sprintf(descriptionPrompt, params.ProductName, params.ProductFeature, params.Tone, params.CharCount)

	content, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("generation failed", zap.Error(err))
		return "", apperrors.NewBadGateway("content generation unavailable")
	}
	return content, nil
}

// Chat runs one exchange inside a tab, creating the tab when needed, and
// persists the result.
func (s *ContentService) Chat(ctx context.Context, user *domain.User, params ChatParams) (*domain.Tab, *domain.Message, error) {
	tab, err := s.resolveTab(ctx, user, params)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.GenerateDescription(ctx, GenerationParams{
		ProductName:    params.Title,
		ProductFeature: params.Feature,
		Tone:           params.Tone,
		CharCount:      params.CharCount,
	})
	if err != nil {
		return nil, nil, err
	}

	msg := &domain.Message{
		TabID:    tab.ID,
		UserID:   user.ID,
		Title:    params.Title,
		Feature:  params.Feature,
		Tone:     params.Tone,
		Response: content,
		Active:   true,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	return tab, msg, nil
}

// Tabs lists the user's active conversations.
func (s *ContentService) Tabs(ctx context.Context, userID string, page, size int) ([]domain.Tab, error) {
	tabs, err := s.tabs.ListByUser(ctx, userID, page, size)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tabs, nil
}

// Messages lists a tab's history. Tabs belonging to other users are reported
// as not found.
func (s *ContentService) Messages(ctx context.Context, userID, tabID string, page, size int) ([]domain.Message, error) {
	tab, err := s.tabs.GetByID(ctx, tabID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tab", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if tab.UserID != userID {
		return nil, apperrors.NewNotFound("tab", nil)
	}

	messages, err := s.messages.ListByTab(ctx, tabID, page, size)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return messages, nil
}

func (s *ContentService) resolveTab(ctx context.Context, user *domain.User, params ChatParams) (*domain.Tab, error) {
	if params.TabID == "" {
		tab := &domain.Tab{UserID: user.ID, Title: params.Title, Active: true}
		if err := s.tabs.Create(ctx, tab); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return tab, nil
	}

	tab, err := s.tabs.GetByID(ctx, params.TabID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tab", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if tab.UserID != user.ID {
		return nil, apperrors.NewNotFound("tab", nil)
	}
	return tab, nil
}

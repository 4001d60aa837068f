package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/descripto-api/internal/domain"
	apperrors "github.com/spec-kit/descripto-api/pkg/util/errorutil"
)

type fakeGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type memTabRepo struct {
	tabs map[string]*domain.Tab
}

func newMemTabRepo() *memTabRepo {
	return &memTabRepo{tabs: make(map[string]*domain.Tab)}
}

func (r *memTabRepo) Create(_ context.Context, tab *domain.Tab) error {
	tab.ID = uuid.NewString()
	tab.CreatedAt = time.Now()
	tab.UpdatedAt = tab.CreatedAt
	r.tabs[tab.ID] = tab
	return nil
}

func (r *memTabRepo) GetByID(_ context.Context, id string) (*domain.Tab, error) {
	if tab, ok := r.tabs[id]; ok {
		return tab, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memTabRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Tab, error) {
	var out []domain.Tab
	for _, tab := range r.tabs {
		if tab.UserID == userID && tab.Active {
			out = append(out, *tab)
		}
	}
	return out, nil
}

type memMessageRepo struct {
	messages []*domain.Message
}

func (r *memMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *memMessageRepo) ListByTab(_ context.Context, tabID string, _, _ int) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range r.messages {
		if msg.TabID == tabID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func errorCode(t *testing.T, err error) string {
	t.Helper()

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func newContentFixture(gen *fakeGenerator) (*ContentService, *memTabRepo, *memMessageRepo) {
	tabs := newMemTabRepo()
	messages := &memMessageRepo{}
	svc := NewContentService(gen, tabs, messages, zap.NewNop())
	return svc, tabs, messages
}

func TestGenerateDescription(t *testing.T) {
	gen := &fakeGenerator{reply: "A lovely handmade mug."}
	svc, _, _ := newContentFixture(gen)

	content, err := svc.GenerateDescription(context.Background(), GenerationParams{
		ProductName:    "Mug",
		ProductFeature: "handmade ceramic",
		Tone:           "warm",
		CharCount:      200,
	})
	require.NoError(t, err)
	assert.Equal(t, "A lovely handmade mug.", content)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Mug")
	assert.Contains(t, gen.prompts[0], "handmade ceramic")
	assert.Contains(t, gen.prompts[0], "warm")
	assert.Contains(t, gen.prompts[0], "200")
}

func TestGenerateDescriptionUpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	svc, _, _ := newContentFixture(gen)

	_, err := svc.GenerateDescription(context.Background(), GenerationParams{ProductName: "Mug"})
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_FAILED", errorCode(t, err))
	// Provider details never leak to the caller.
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestChatCreatesTabWhenMissing(t *testing.T) {
	gen := &fakeGenerator{reply: "generated copy"}
	svc, tabs, messages := newContentFixture(gen)
	user := &domain.User{ID: "u1"}

	tab, msg, err := svc.Chat(context.Background(), user, ChatParams{
		Title:     "Mug",
		Feature:   "ceramic",
		Tone:      "warm",
		CharCount: 150,
	})
	require.NoError(t, err)
	require.NotNil(t, tab)
	assert.Equal(t, "u1", tab.UserID)
	assert.Equal(t, "Mug", tab.Title)
	assert.True(t, tab.Active)
	assert.Contains(t, tabs.tabs, tab.ID)

	require.NotNil(t, msg)
	assert.Equal(t, tab.ID, msg.TabID)
	assert.Equal(t, "generated copy", msg.Response)
	assert.Len(t, messages.messages, 1)
}

func TestChatReusesExistingTab(t *testing.T) {
	gen := &fakeGenerator{reply: "generated copy"}
	svc, _, messages := newContentFixture(gen)
	user := &domain.User{ID: "u1"}
	ctx := context.Background()

	first, _, err := svc.Chat(ctx, user, ChatParams{Title: "Mug"})
	require.NoError(t, err)

	second, msg, err := svc.Chat(ctx, user, ChatParams{TabID: first.ID, Title: "Mug v2"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ID, msg.TabID)
	assert.Len(t, messages.messages, 2)
}

func TestChatRejectsForeignTab(t *testing.T) {
	gen := &fakeGenerator{reply: "generated copy"}
	svc, _, _ := newContentFixture(gen)
	ctx := context.Background()

	owner := &domain.User{ID: "owner"}
	tab, _, err := svc.Chat(ctx, owner, ChatParams{Title: "Mug"})
	require.NoError(t, err)

	intruder := &domain.User{ID: "intruder"}
	_, _, err = svc.Chat(ctx, intruder, ChatParams{TabID: tab.ID, Title: "Mug"})
	require.Error(t, err)
	// Foreign tabs are indistinguishable from missing ones.
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestChatUnknownTab(t *testing.T) {
	gen := &fakeGenerator{reply: "generated copy"}
	svc, _, messages := newContentFixture(gen)

	_, _, err := svc.Chat(context.Background(), &domain.User{ID: "u1"}, ChatParams{TabID: "missing"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	assert.Empty(t, gen.prompts)
	assert.Empty(t, messages.messages)
}

func TestChatUpstreamFailureLeavesNoHistory(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	svc, _, messages := newContentFixture(gen)

	_, _, err := svc.Chat(context.Background(), &domain.User{ID: "u1"}, ChatParams{Title: "Mug"})
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_FAILED", errorCode(t, err))
	assert.Empty(t, messages.messages)
}

func TestMessagesOwnershipCheck(t *testing.T) {
	gen := &fakeGenerator{reply: "generated copy"}
	svc, _, _ := newContentFixture(gen)
	ctx := context.Background()

	owner := &domain.User{ID: "owner"}
	tab, _, err := svc.Chat(ctx, owner, ChatParams{Title: "Mug"})
	require.NoError(t, err)

	history, err := svc.Messages(ctx, owner.ID, tab.ID, 0, 20)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = svc.Messages(ctx, "intruder", tab.ID, 0, 20)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errorCode(t, err))
}

func TestTabsListsOnlyOwn(t *testing.T) {
	gen := &fakeGenerator{reply: "generated copy"}
	svc, _, _ := newContentFixture(gen)
	ctx := context.Background()

	_, _, err := svc.Chat(ctx, &domain.User{ID: "u1"}, ChatParams{Title: "First"})
	require.NoError(t, err)
	_, _, err = svc.Chat(ctx, &domain.User{ID: "u2"}, ChatParams{Title: "Other"})
	require.NoError(t, err)

	tabs, err := svc.Tabs(ctx, "u1", 0, 20)
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	assert.Equal(t, "First", tabs[0].Title)
}

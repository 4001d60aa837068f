package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/descripto-api/internal/api/dto"
	"github.com/spec-kit/descripto-api/internal/auth"
	"github.com/spec-kit/descripto-api/internal/domain"
	"github.com/spec-kit/descripto-api/internal/service"
)

// ContentHandler exposes generation and chat history endpoints. All routes
// sit behind the authentication guard.
type ContentHandler struct {
	content *service.ContentService
}

// NewContentHandler constructs handler.
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{content: contentService}
}

// Generate handles POST /generate/description.
func (h *ContentHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ProductName == "" || req.ProductFeature == "" {
		return fiber.NewError(http.StatusBadRequest, "product_name and product_feature required")
	}

	content, err := h.content.GenerateDescription(c.Context(), service.GenerationParams{
		ProductName:    req.ProductName,
		ProductFeature: req.ProductFeature,
		Tone:           req.Tone,
		CharCount:      req.CharCount,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.GenerateResponse{Content: content},
	})
}

// Chat handles POST /generate/chat.
func (h *ContentHandler) Chat(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" || req.Feature == "" {
		return fiber.NewError(http.StatusBadRequest, "title and feature required")
	}

	tab, msg, err := h.content.Chat(c.Context(), principal.User, service.ChatParams{
		TabID:     req.TabID,
		Title:     req.Title,
		Feature:   req.Feature,
		Tone:      req.Tone,
		CharCount: req.CharCount,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.ChatResponse{
			Tab:     tabResponse(tab),
			Message: messageResponse(msg),
		},
	})
}

// Tabs handles GET /generate/chat/tabs.
func (h *ContentHandler) Tabs(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 20)

	tabs, err := h.content.Tabs(c.Context(), principal.User.ID, page, size)
	if err != nil {
		return err
	}

	result := make([]dto.TabResponse, 0, len(tabs))
	for i := range tabs {
		result = append(result, tabResponse(&tabs[i]))
	}
	return c.JSON(fiber.Map{
		"data": result,
	})
}

// Messages handles GET /generate/chat/messages/:tabID.
func (h *ContentHandler) Messages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	tabID := c.Params("tabID")
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 20)

	messages, err := h.content.Messages(c.Context(), principal.User.ID, tabID, page, size)
	if err != nil {
		return err
	}

	result := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		result = append(result, messageResponse(&messages[i]))
	}
	return c.JSON(fiber.Map{
		"data": result,
	})
}

func tabResponse(tab *domain.Tab) dto.TabResponse {
	return dto.TabResponse{
		ID:        tab.ID,
		Title:     tab.Title,
		CreatedAt: tab.CreatedAt,
		UpdatedAt: tab.UpdatedAt,
	}
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        msg.ID,
		TabID:     msg.TabID,
		Title:     msg.Title,
		Feature:   msg.Feature,
		Tone:      msg.Tone,
		Response:  msg.Response,
		CreatedAt: msg.CreatedAt,
	}
}

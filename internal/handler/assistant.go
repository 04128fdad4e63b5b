package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
	"github.com/iliyamo/mentor-match/internal/service"
)

// AssistantHandler runs the AI mentor chat. Each user turn and the
// assistant's reply are persisted to an ASSISTANT conversation, so the
// history survives and feeds the next completion as context.
type AssistantHandler struct {
	Conversations *repository.ConversationRepo
	Assistant     *service.Assistant
}

func NewAssistantHandler(conv *repository.ConversationRepo, a *service.Assistant) *AssistantHandler {
	return &AssistantHandler{Conversations: conv, Assistant: a}
}

const assistantSystemPrompt = "You are a helpful mentorship coach. " +
	"Give concrete, actionable guidance on career growth, skills and goal setting. Keep replies concise."

// maxHistoryTurns bounds the context sent upstream per completion.
const maxHistoryTurns = 20

type assistantChatReq struct {
	ConversationID *uint64 `json:"conversation_id"`
	Content        string  `json:"content"`
}

// Chat sends one user turn to the assistant. With no conversation_id a
// fresh assistant conversation is opened and returned with the reply.
func (h *AssistantHandler) Chat(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req assistantChatReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	content := strings.TrimSpace(req.Content)

	ctx, cancel := dbCtx(c)
	defer cancel()

	var conv model.Conversation
	var err error
	if req.ConversationID != nil {
		conv, err = h.Conversations.GetByID(ctx, *req.ConversationID)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if conv.Kind != model.ConversationAssistant || conv.MentorID != uid {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	} else {
		conv, err = h.Conversations.CreateAssistant(ctx, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open conversation failed"})
		}
	}

	history, err := h.Conversations.ListMessages(ctx, conv.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	sender := uid
	if _, err := h.Conversations.AddMessage(ctx, conv.ID, &sender, model.SenderUser, content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save message failed"})
	}

	msgs := make([]service.ChatMessage, 0, len(history)+2)
	msgs = append(msgs, service.ChatMessage{Role: "system", Content: assistantSystemPrompt})
	for _, m := range history {
		role := "user"
		if m.SenderKind == model.SenderAssistant {
			role = "assistant"
		}
		msgs = append(msgs, service.ChatMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, service.ChatMessage{Role: "user", Content: content})

	reply, err := h.Assistant.Chat(c.Request().Context(), msgs)
	if err != nil {
		if errors.Is(err, service.ErrUpstream) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "assistant unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chat failed"})
	}

	saved, err := h.Conversations.AddMessage(ctx, conv.ID, nil, model.SenderAssistant, reply)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save reply failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"conversation_id": conv.ID,
		"reply":           saved,
	})
}

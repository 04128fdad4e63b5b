package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/repository"
	"github.com/iliyamo/mentor-match/internal/service"
)

// ConversationHandler serves match conversations: listing, reading
// history and sending messages between a matched mentor and mentee.
type ConversationHandler struct {
	Conversations *repository.ConversationRepo
	Notifier      *service.Notifier
}

func NewConversationHandler(conv *repository.ConversationRepo, n *service.Notifier) *ConversationHandler {
	return &ConversationHandler{Conversations: conv, Notifier: n}
}

// List returns the caller's conversations.
func (h *ConversationHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Conversations.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"conversations": list})
}

// Messages returns a conversation's history. Participants only.
func (h *ConversationHandler) Messages(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	conv, err := h.Conversations.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !conv.Participant(uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	msgs, err := h.Conversations.ListMessages(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"conversation": conv, "messages": msgs})
}

type sendMessageReq struct {
	Content string `json:"content"`
}

// Send appends a message to a match conversation and pings the other
// participant over the live channel.
func (h *ConversationHandler) Send(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid conversation id"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	conv, err := h.Conversations.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "conversation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !conv.Participant(uid) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if conv.Kind != model.ConversationMatch {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "not a match conversation"})
	}

	sender := uid
	msg, err := h.Conversations.AddMessage(ctx, id, &sender, model.SenderUser, strings.TrimSpace(req.Content))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}

	other := conv.MentorID
	if conv.MentorID == uid && conv.MenteeID != nil {
		other = *conv.MenteeID
	}
	if other != uid {
		h.Notifier.NotifyQuiet(ctx, other,
			"You have a new message",
			fmt.Sprintf("/conversations/%d", id))
		h.Notifier.Push(other, "newMessage", msg)
	}

	return c.JSON(http.StatusCreated, msg)
}

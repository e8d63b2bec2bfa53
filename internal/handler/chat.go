package handler

import (
	"context"
	"net/http"

	"github.com/osse101/GameBoxBot_Go/internal/chat"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
)

// ChatRouter turns a parsed chat message into reply lines
type ChatRouter interface {
	Handle(ctx context.Context, msg chat.Message) []string
}

// ChatResponse carries the replies the transport should send
type ChatResponse struct {
	Replies []string `json:"replies"`
}

// HandleChatMessage is the bridge for external chat transports: a parsed
// message goes in, the replies to post come out.
// @Summary Handle a chat message
// @Tags chat
// @Accept json
// @Produce json
// @Param request body chat.Message true "Parsed chat message"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/chat/message [post]
func HandleChatMessage(router ChatRouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg chat.Message
		if !decodeAndValidate(w, r, &msg, "chat message") {
			return
		}

		replies := router.Handle(r.Context(), msg)
		if replies == nil {
			replies = []string{}
		}
		logger.FromContext(r.Context()).Debug(LogMsgChatHandled, "username", msg.Username, "replies", len(replies))
		respondJSON(w, http.StatusOK, ChatResponse{Replies: replies})
	}
}

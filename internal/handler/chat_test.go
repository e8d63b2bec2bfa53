package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/GameBoxBot_Go/internal/chat"
)

func TestHandleChatMessage(t *testing.T) {
	t.Run("Replies are returned", func(t *testing.T) {
		// ARRANGE
		router := &MockChatRouter{}
		router.On("Handle", mock.Anything, chat.Message{Username: "alice", DisplayName: "Alice", Text: "!buybox 2"}).
			Return([]string{"@Alice bought 2 boxes"})

		// ACT
		rec := serve(HandleChatMessage(router),
			jsonRequest(http.MethodPost, "/api/v1/chat/message", `{"username":"alice","display_name":"Alice","text":"!buybox 2"}`))

		// ASSERT
		assert.Equal(t, http.StatusOK, rec.Code)
		res := decodeJSON[ChatResponse](t, rec)
		assert.Equal(t, []string{"@Alice bought 2 boxes"}, res.Replies)
	})

	t.Run("Plain chatter returns an empty list", func(t *testing.T) {
		router := &MockChatRouter{}
		router.On("Handle", mock.Anything, mock.Anything).Return(nil)

		rec := serve(HandleChatMessage(router),
			jsonRequest(http.MethodPost, "/api/v1/chat/message", `{"username":"alice","text":"hello"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"replies":[]}`, rec.Body.String())
	})

	t.Run("Text is required", func(t *testing.T) {
		router := &MockChatRouter{}

		rec := serve(HandleChatMessage(router),
			jsonRequest(http.MethodPost, "/api/v1/chat/message", `{"username":"alice"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		router.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

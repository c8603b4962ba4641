package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:SECRET-TOKEN"

func TestSendMessage(t *testing.T) {
	var got struct {
		path, chatID, text string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got.path = r.URL.Path
		got.chatID = r.PostForm.Get("chat_id")
		got.text = r.PostForm.Get("text")
		if got.text == "fail" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	bot := NewBot(testToken, "42", time.Second)
	bot.baseURL = server.URL + "/bot" + testToken

	require.NoError(t, bot.Notify(context.Background(), "New booking #1"))
	assert.Equal(t, "/bot"+testToken+"/sendMessage", got.path)
	assert.Equal(t, "42", got.chatID)
	assert.Equal(t, "New booking #1", got.text)

	err := bot.Notify(context.Background(), "fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.NotContains(t, err.Error(), testToken)
}

func TestSendMessage_TransportErrorHidesToken(t *testing.T) {
	bot := NewBot(testToken, "42", time.Second)
	bot.baseURL = "http://127.0.0.1:1/bot" + testToken

	err := bot.Notify(context.Background(), "hello")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testToken)
	assert.NotContains(t, err.Error(), "127.0.0.1:1/bot")
	assert.Contains(t, err.Error(), "telegram sendMessage")
}

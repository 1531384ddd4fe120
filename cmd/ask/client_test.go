package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

func TestClientChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/quantum/chat", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var req domain.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is a qubit?", req.Question)
		assert.Equal(t, "s1", req.SessionID)
		fmt.Fprint(w, `{"success":true,"session_id":"s1","answer":"A two-level system.","is_in_domain":true}`)
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, "tok", time.Second).Chat(context.Background(), "What is a qubit?", "s1")
	require.NoError(t, err)
	assert.Equal(t, "A two-level system.", resp.Answer)
	assert.Equal(t, "s1", resp.SessionID)
}

func TestClientChatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success":false,"error":"An error occurred while processing your query.","question":"q"}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "tok", time.Second).Chat(context.Background(), "q", "")
	assert.EqualError(t, err, "server error [500]: An error occurred while processing your query.")
}

func TestClientHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions/s1/messages", r.URL.Path)
		fmt.Fprint(w, `{"session_id":"s1","messages":[{"role":"user","content":"q"},{"role":"assistant","content":"a"}]}`)
	}))
	defer server.Close()

	msgs, err := NewClient(server.URL, "tok", time.Second).History(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
}

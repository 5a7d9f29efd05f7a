// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// testClient builds a client pointed at a test server with fast retries.
func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(&ClientConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Model:      "test-model",
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func replyWith(text string) GenerateResponse {
	return GenerateResponse{
		Candidates: []Candidate{{Content: NewModelContent(text)}},
	}
}

// ============================================================================
// CLIENT
// ============================================================================

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(&ClientConfig{})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !IsAuth(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestGenerateSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotReq GenerateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(replyWith("Groundwater in Punjab is declining."))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	resp, err := c.Generate(context.Background(), "", &GenerateRequest{
		SystemInstruction: &Content{Parts: []Part{{Text: "system"}}},
		Contents:          []Content{NewUserContent("Tell me about Punjab")},
	})
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/v1beta/models/test-model:generateContent" {
		t.Errorf("path = %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotReq.SystemInstruction == nil || gotReq.SystemInstruction.Text() != "system" {
		t.Error("system instruction not sent")
	}
	if resp.Text() != "Groundwater in Punjab is declining." {
		t.Errorf("text = %q", resp.Text())
	}
}

func TestGenerateAuthErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"key invalid","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Generate(context.Background(), "", &GenerateRequest{})
	if !IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("attempts = %d, want 1", attempts.Load())
	}
}

func TestGenerateRateLimitRetriedThenFails(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Generate(context.Background(), "", &GenerateRequest{})
	if !IsRateLimited(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	// initial attempt plus MaxRetries
	if attempts.Load() != 3 {
		t.Errorf("attempts = %d, want 3", attempts.Load())
	}
}

func TestGenerateCancellationIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		cancel()
	}))
	defer srv.Close()

	c, err := NewClient(&ClientConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Model:      "test-model",
		MaxRetries: 2,
		// Long enough that only the canceled context can end the wait.
		RetryDelay: time.Minute,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Generate(ctx, "", &GenerateRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if IsTimeout(err) {
		t.Error("cancellation reported as a timeout")
	}
}

func TestGenerateRecoversAfterServerError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(replyWith("ok"))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	resp, err := c.Generate(context.Background(), "", &GenerateRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text() != "ok" {
		t.Errorf("text = %q", resp.Text())
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateResponse{})
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Generate(context.Background(), "", &GenerateRequest{})
	var clientErr *ClientError
	if err == nil {
		t.Fatal("expected error for empty candidates")
	}
	if !errors.As(err, &clientErr) || clientErr.Type != ErrTypeInvalidResponse {
		t.Errorf("expected invalid response error, got %v", err)
	}
}

func TestGenerateConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := testClient(t, srv)
	_, err := c.Generate(context.Background(), "", &GenerateRequest{})
	if !IsConnection(err) {
		t.Errorf("expected connection error, got %v", err)
	}
}

// ============================================================================
// CHAT HANDLE
// ============================================================================

func TestChatHistoryGrowsOnSuccess(t *testing.T) {
	var gotReq GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(replyWith("reply"))
	}))
	defer srv.Close()

	chat := testClient(t, srv).NewChat("", "you are NeerAI")

	if _, err := chat.Send(context.Background(), "first"); err != nil {
		t.Fatal(err)
	}
	if chat.Len() != 2 {
		t.Fatalf("history = %d turns, want 2", chat.Len())
	}

	if _, err := chat.Send(context.Background(), "second"); err != nil {
		t.Fatal(err)
	}
	// the second request must carry the full prior history
	if len(gotReq.Contents) != 3 {
		t.Fatalf("request carried %d contents, want 3", len(gotReq.Contents))
	}
	if gotReq.Contents[0].Text() != "first" || gotReq.Contents[1].Text() != "reply" || gotReq.Contents[2].Text() != "second" {
		t.Errorf("history order wrong: %+v", gotReq.Contents)
	}
	if gotReq.SystemInstruction == nil || gotReq.SystemInstruction.Text() != "you are NeerAI" {
		t.Error("system instruction missing on followup turn")
	}
}

func TestChatHistoryUnchangedOnFailure(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(replyWith("reply"))
	}))
	defer srv.Close()

	chat := testClient(t, srv).NewChat("", "")
	if _, err := chat.Send(context.Background(), "ok turn"); err != nil {
		t.Fatal(err)
	}

	fail.Store(true)
	if _, err := chat.Send(context.Background(), "bad turn"); err == nil {
		t.Fatal("expected error")
	}
	if chat.Len() != 2 {
		t.Errorf("failed turn leaked into history: %d turns", chat.Len())
	}
}

func TestChatClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(replyWith("reply"))
	}))
	defer srv.Close()

	chat := testClient(t, srv).NewChat("", "")
	chat.Close()
	chat.Close() // idempotent

	if _, err := chat.Send(context.Background(), "hello"); err == nil {
		t.Error("expected error sending on closed chat")
	}
}

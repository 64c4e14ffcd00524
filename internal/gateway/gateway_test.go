package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
}

func TestSubmitOrder_Success(t *testing.T) {
	var gotPayload struct {
		Date      string `json:"date"`
		Timestamp string `json:"timestamp"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(OrderConfirmation{Reference: "ref-123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithClock(fixedClock))

	conf, err := client.SubmitOrder(context.Background(), "2024-03-20")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if conf.Reference != "ref-123" {
		t.Errorf("Expected reference ref-123, got %s", conf.Reference)
	}
	if conf.Message != MessageOrderPlaced {
		t.Errorf("Expected message %q, got %q", MessageOrderPlaced, conf.Message)
	}
	if gotPayload.Date != "2024-03-20" {
		t.Errorf("Expected date 2024-03-20, got %s", gotPayload.Date)
	}
	if gotPayload.Timestamp != "2024-03-15T10:30:00Z" {
		t.Errorf("Expected fixed timestamp, got %s", gotPayload.Timestamp)
	}
}

func TestSubmitOrder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	_, err := client.SubmitOrder(context.Background(), "2024-03-20")
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("Expected *ServerError, got %v", err)
	}
	if serverErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", serverErr.StatusCode)
	}
	if MessageFor(err) != MessageServer {
		t.Errorf("Expected message %q, got %q", MessageServer, MessageFor(err))
	}
}

func TestSubmitOrder_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL)

	_, err := client.SubmitOrder(context.Background(), "2024-03-20")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Expected *NetworkError, got %v", err)
	}
	if MessageFor(err) != MessageNetwork {
		t.Errorf("Expected message %q, got %q", MessageNetwork, MessageFor(err))
	}
}

func TestSubmitOrder_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL)

	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(started)
		client.SubmitOrder(context.Background(), "2024-03-20")
	}()

	<-started
	// Give the first submission time to take the in-flight token.
	time.Sleep(50 * time.Millisecond)

	_, err := client.SubmitOrder(context.Background(), "2024-03-21")
	if !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("Expected ErrSubmissionInFlight, got %v", err)
	}

	release <- struct{}{}
	wg.Wait()

	// Token released: the next submission goes through.
	go func() { release <- struct{}{} }()
	if _, err := client.SubmitOrder(context.Background(), "2024-03-22"); err != nil {
		t.Errorf("Expected submission to succeed after first resolved, got %v", err)
	}
}

func TestSubmitOrder_EmptyBodyStillSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	conf, err := client.SubmitOrder(context.Background(), "2024-03-20")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if conf.Message != MessageOrderPlaced {
		t.Errorf("Expected fallback message %q, got %q", MessageOrderPlaced, conf.Message)
	}
}

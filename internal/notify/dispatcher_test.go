package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/json-oracle/oracle_engine/internal/models"
)

type recordingSender struct {
	mu   sync.Mutex
	urls []string
	done chan struct{}
}

func newRecordingSender(expected int) *recordingSender {
	return &recordingSender{done: make(chan struct{}, expected)}
}

func (r *recordingSender) Send(ctx context.Context, url string, result models.AnalysisResult) error {
	r.mu.Lock()
	r.urls = append(r.urls, url)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingSender) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for deliveries")
		}
	}
}

func terminalResult() models.AnalysisResult {
	return models.AnalysisResult{
		ID:            "r1",
		IntegrationID: "int-1",
		Status:        models.AnalysisCompleted,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestDispatchFansOut(t *testing.T) {
	sender := newRecordingSender(2)
	d := NewDispatcher(sender, nil, "", nil, time.Second, logrus.New())

	d.Dispatch(terminalResult(), "https://example.com/hook", "https://example.com/cb")
	sender.wait(t, 2)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.ElementsMatch(t, []string{"https://example.com/hook", "https://example.com/cb"}, sender.urls)
}

func TestDispatchSkipsEmptyTargets(t *testing.T) {
	sender := newRecordingSender(1)
	d := NewDispatcher(sender, nil, "", nil, time.Second, logrus.New())

	d.Dispatch(terminalResult(), "", "https://example.com/cb")
	sender.wait(t, 1)

	select {
	case <-sender.done:
		t.Fatal("unexpected extra delivery")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHTTPSenderPostsResult(t *testing.T) {
	received := make(chan models.AnalysisResult, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var result models.AnalysisResult
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&result))
		received <- result
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewHTTPSender(time.Second)
	assert.NoError(t, sender.Send(context.Background(), srv.URL, terminalResult()))

	select {
	case result := <-received:
		assert.Equal(t, "r1", result.ID)
	case <-time.After(time.Second):
		t.Fatal("endpoint never received the result")
	}
}

func TestHTTPSenderRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sender := NewHTTPSender(time.Second)
	assert.Error(t, sender.Send(context.Background(), srv.URL, terminalResult()))
}

package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/log"
)

type fakeStore struct {
	events []core.NotificationEvent
	fail   bool
}

func (f *fakeStore) AppendNotification(_ context.Context, title, body string, ts time.Time) (core.NotificationEvent, error) {
	if f.fail {
		return core.NotificationEvent{}, errors.New("sink unavailable")
	}
	ev := core.NotificationEvent{ID: int64(len(f.events) + 1), Title: title, Body: body, Timestamp: ts}
	f.events = append(f.events, ev)
	return ev, nil
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestStoreSinkEmit(t *testing.T) {
	store := &fakeStore{}
	sink := NewStoreSink(store, testLogger())

	ev, err := sink.Emit(context.Background(), TitleOverBudget, "body")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if ev.ID != 1 || ev.Title != TitleOverBudget {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if len(store.events) != 1 {
		t.Fatalf("expected 1 persisted event, got %d", len(store.events))
	}
}

func TestStoreSinkEmitFailure(t *testing.T) {
	sink := NewStoreSink(&fakeStore{fail: true}, testLogger())
	if _, err := sink.Emit(context.Background(), "t", "b"); err == nil {
		t.Fatal("expected error from failing store")
	}
}

func TestWebhookSinkEmit(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, testLogger())
	if _, err := sink.Emit(context.Background(), TitlePeriodEnded, BodyPeriodEndedOver); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if got["title"] != TitlePeriodEnded || got["body"] != BodyPeriodEndedOver {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestWebhookSinkGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, testLogger())
	sink.maxRetries = 0
	if _, err := sink.Emit(context.Background(), "t", "b"); err == nil {
		t.Fatal("expected failure after retries exhausted")
	}
}

func TestBodies(t *testing.T) {
	body := OverBudgetBody(core.Money{Cents: -5000}, "ILS")
	if !strings.Contains(body, "50.00") {
		t.Fatalf("over-budget body should carry the overage amount: %q", body)
	}
	body = UnderBudgetBody(core.Money{Cents: 6000}, "ILS")
	if !strings.Contains(body, "60.00") {
		t.Fatalf("under-budget body should carry the surplus: %q", body)
	}
}

func TestFanout(t *testing.T) {
	a, b := &fakeStore{}, &fakeStore{}
	f := Fanout{NewStoreSink(a, testLogger()), NewStoreSink(b, testLogger())}
	if _, err := f.Emit(context.Background(), "t", "b"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatal("fanout should deliver to every sink")
	}
}

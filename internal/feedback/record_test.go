package feedback

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"canvass/internal/dialog"
	"canvass/internal/session"
)

func TestFinalizeCompleteSession(t *testing.T) {
	completed := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	record := Finalize(session.Session{
		CallID:         "CA123",
		From:           "+15550100001",
		To:             "+15550100002",
		ProductRating:  5,
		DeliveryRating: 3,
		FinalReview:    "Great product.",
	}, completed)

	if record.CallID != "CA123" {
		t.Fatalf("call ID = %q", record.CallID)
	}
	if record.Timestamp != "2026-03-01T10:30:00Z" {
		t.Fatalf("timestamp = %q", record.Timestamp)
	}
	if record.Answers.ProductRating != 5 || record.Answers.DeliveryRating != 3 {
		t.Fatalf("ratings = %+v", record.Answers)
	}
	if record.Answers.FinalReview != "Great product." {
		t.Fatalf("review = %q", record.Answers.FinalReview)
	}
}

func TestFinalizeSubstitutesSentinels(t *testing.T) {
	record := Finalize(session.Session{CallID: "CA1"}, time.Now())
	if record.Answers.ProductRating.Captured() {
		t.Fatal("unanswered rating should not be captured")
	}
	if record.Answers.FinalReview != dialog.NoResponseSentinel {
		t.Fatalf("review = %q, want sentinel", record.Answers.FinalReview)
	}
}

func TestRecordJSONShape(t *testing.T) {
	record := Finalize(session.Session{
		CallID:        "CA1",
		From:          "+15550100001",
		ProductRating: 4,
		FinalReview:   "ok",
	}, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)
	for _, want := range []string{
		`"callSid":"CA1"`,
		`"feedback":{`,
		`"productRating":4`,
		`"deliveryRating":"no response"`,
		`"finalReview":"ok"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("payload missing %s: %s", want, body)
		}
	}
}

func TestRatingUnmarshalBothEncodings(t *testing.T) {
	var r Rating
	if err := json.Unmarshal([]byte(`4`), &r); err != nil || r != 4 {
		t.Fatalf("numeric unmarshal: %v, %d", err, r)
	}
	if err := json.Unmarshal([]byte(`"no response"`), &r); err != nil || r.Captured() {
		t.Fatalf("sentinel unmarshal: %v, %d", err, r)
	}
}

func TestStoreAppendOrder(t *testing.T) {
	store := NewStore()
	store.Append(Record{CallID: "CA1"})
	store.Append(Record{CallID: "CA2"})

	records := store.List()
	if len(records) != 2 {
		t.Fatalf("len = %d", len(records))
	}
	if records[0].CallID != "CA1" || records[1].CallID != "CA2" {
		t.Fatalf("order = %s, %s", records[0].CallID, records[1].CallID)
	}
	if store.Count() != 2 {
		t.Fatalf("count = %d", store.Count())
	}

	// List hands back a copy.
	records[0].CallID = "mutated"
	if store.List()[0].CallID != "CA1" {
		t.Fatal("List exposed internal storage")
	}
}

package feedback

import (
	"encoding/json"
	"strconv"
	"time"

	"canvass/internal/dialog"
	"canvass/internal/session"
)

// Rating is a survey score in 1-5, or zero when the caller never answered.
// It marshals as the integer score or the "no response" sentinel string,
// matching the wire shape consumers already scrape.
type Rating int

// Captured reports whether the caller actually answered.
func (r Rating) Captured() bool {
	return r >= 1 && r <= 5
}

func (r Rating) String() string {
	if !r.Captured() {
		return dialog.NoResponseSentinel
	}
	return strconv.Itoa(int(r))
}

// MarshalJSON emits the score as a number, or the sentinel as a string.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Captured() {
		return json.Marshal(dialog.NoResponseSentinel)
	}
	return json.Marshal(int(r))
}

// UnmarshalJSON accepts either encoding.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = Rating(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if n, err := strconv.Atoi(s); err == nil {
		*r = Rating(n)
		return nil
	}
	*r = 0
	return nil
}

// Answers groups the three survey responses.
type Answers struct {
	ProductRating  Rating `json:"productRating"`
	DeliveryRating Rating `json:"deliveryRating"`
	FinalReview    string `json:"finalReview"`
}

// Record is the immutable result of one completed call.
type Record struct {
	CallID    string  `json:"callSid"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Timestamp string  `json:"timestamp"`
	Answers   Answers `json:"feedback"`
}

// Finalize converts a completed session into a Record, substituting the
// sentinel for any answer never captured and stamping the completion time.
// It is the only constructor of feedback records; call it exactly once per
// completed call.
func Finalize(sess session.Session, completedAt time.Time) Record {
	review := sess.FinalReview
	if review == "" {
		review = dialog.NoResponseSentinel
	}
	return Record{
		CallID:    sess.CallID,
		From:      sess.From,
		To:        sess.To,
		Timestamp: completedAt.UTC().Format(time.RFC3339),
		Answers: Answers{
			ProductRating:  Rating(sess.ProductRating),
			DeliveryRating: Rating(sess.DeliveryRating),
			FinalReview:    review,
		},
	}
}

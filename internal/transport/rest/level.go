package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

// level accepts the client's level as either a JSON string ("A1", "3") or a
// bare number (3, 1000).
type level string

func (l *level) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*l = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = level(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("level must be a string or number")
	}
	*l = level(n.String())
	return nil
}

// upstreamMessage returns the text of the innermost bank, rule or LLM error.
func upstreamMessage(err error) string {
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		return genErr.Error()
	}
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Error()
	}
	return err.Error()
}

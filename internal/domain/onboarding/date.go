package onboarding

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date accepts either a bare calendar date, stored as midnight UTC, or a full
// RFC 3339 timestamp.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return Date{Time: t}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("birthdate %q: want YYYY-MM-DD or RFC 3339", s)
	}

	return Date{Time: t}, nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("birthdate must be a string: %w", err)
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

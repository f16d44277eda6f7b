package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Job is a scheduled appointment shown on the calendar.
// Jobs are kept as one ordered list and persisted as a JSON array.
type Job struct {
	// ID identifies the job inside the list. It is assigned at creation time
	// by NextJobID and is not reused while the job exists.
	ID int `json:"id"`

	// Customer is free text naming who the job is for. Required on creation.
	Customer string `json:"customer"`

	// Description is optional free text.
	Description string `json:"description"`

	// Date is the job day in YYYY-MM-DD form. It is not validated structurally;
	// the calendar only matches it by string equality. Required on creation.
	Date string `json:"date"`

	// Time is optional free text (e.g. "09:30" or "morning").
	Time string `json:"time"`
}

// NextJobID returns the id for a job appended to jobs: one more than the
// largest id currently in the list, or 1 for an empty list.
func NextJobID(jobs []Job) int {
	highest := 0
	for _, j := range jobs {
		if j.ID > highest {
			highest = j.ID
		}
	}
	return highest + 1
}

// FindJob returns the index of the job with the given id, or -1.
func FindJob(jobs []Job, id int) int {
	for i := range jobs {
		if jobs[i].ID == id {
			return i
		}
	}
	return -1
}

// UnmarshalJSON accepts numbers as well as strings for every field, so a
// hand-edited file with "time": 930 or "id": "3" still loads. An id that is
// not a whole number is an error.
func (j *Job) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          looseString `json:"id"`
		Customer    looseString `json:"customer"`
		Description looseString `json:"description"`
		Date        looseString `json:"date"`
		Time        looseString `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := parseJobID(string(raw.ID))
	if err != nil {
		return err
	}

	*j = Job{
		ID:          id,
		Customer:    string(raw.Customer),
		Description: string(raw.Description),
		Date:        string(raw.Date),
		Time:        string(raw.Time),
	}
	return nil
}

func parseJobID(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("job id %q is not a whole number", s)
	}
	return int(f), nil
}

// looseString decodes a JSON string, number, bool or null into text.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*s = looseString(data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected text or number, got %s", data)
		}
		*s = looseString(n.String())
	}
	return nil
}

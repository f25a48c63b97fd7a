package models

import (
	"encoding/json"
	"time"
)

// TimeLayout - ISO-8601 в UTC с миллисекундами.
const TimeLayout = "2006-01-02T15:04:05.000Z"

type Post struct {
	ID          int64        `json:"id"`
	Author      string       `json:"author"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Suggestions []Suggestion `json:"suggestions"`
}

type Suggestion struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	IsAdmin   bool      `json:"isAdmin"`
	Timestamp time.Time `json:"timestamp"`
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func (p Post) MarshalJSON() ([]byte, error) {
	type post Post
	suggestions := p.Suggestions
	if suggestions == nil {
		suggestions = []Suggestion{}
	}
	return json.Marshal(struct {
		post
		Timestamp   string       `json:"timestamp"`
		Suggestions []Suggestion `json:"suggestions"`
	}{
		post:        post(p),
		Timestamp:   FormatTime(p.Timestamp),
		Suggestions: suggestions,
	})
}

func (s Suggestion) MarshalJSON() ([]byte, error) {
	type suggestion Suggestion
	return json.Marshal(struct {
		suggestion
		Timestamp string `json:"timestamp"`
	}{
		suggestion: suggestion(s),
		Timestamp:  FormatTime(s.Timestamp),
	})
}

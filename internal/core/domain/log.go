package domain

import (
	"container/list"
	"time"
)

// StreamLine is one log line on a named job stream.
type StreamLine struct {
	Stream string    `json:"stream"`
	Time   time.Time `json:"time"`
	Line   string    `json:"line"`
} // @name StreamLine

// LogStream is a bounded in-memory log ring. Writers push into Write,
// readers request a snapshot through Req.
type LogStream struct {
	List     *list.List
	Capacity uint
	Req      chan chan<- StreamLine
	Write    chan<- StreamLine
}

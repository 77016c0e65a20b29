package services

import (
	"container/list"
	"encoding/json"
	"sync"
	"time"

	"github.com/montoya-e/laked/internal/core/domain"
)

func NewLogStream(capacity uint) *domain.LogStream {
	writer := make(chan domain.StreamLine, 1024)
	h := &domain.LogStream{
		List:     list.New(),
		Capacity: capacity,
		Req:      make(chan chan<- domain.StreamLine),
		Write:    writer,
	}

	go func(write <-chan domain.StreamLine) {
		for {
			select {
			case res := <-h.Req:
				for e := h.List.Front(); e != nil; e = e.Next() {
					res <- e.Value.(domain.StreamLine)
				}
				close(res)
			case in, ok := <-write:
				push := func(in domain.StreamLine, ok bool) bool {
					if !ok {
						return false
					}
					if h.List.Len() >= int(h.Capacity) {
						h.List.Remove(h.List.Front())
					}
					h.List.PushBack(in)
					return true
				}
				push(in, ok)

				//empty entire write queue
			drain:
				for {
					select {
					case in, ok = <-write:
						if !push(in, ok) {
							break drain
						}
					default:
						break drain
					}
				}
			}
		}
	}(writer)

	return h
}

// LogManager keeps one bounded stream per pipeline job and fans every
// line out to websocket subscribers.
type LogManager struct {
	mu      sync.Mutex
	streams map[string]*domain.LogStream
	hub     *domain.StreamHub
}

func NewLogManager() *LogManager {
	lm := &LogManager{
		streams: make(map[string]*domain.LogStream),
		hub:     domain.NewStreamHub(),
	}
	go lm.hub.Run()
	return lm
}

func (lm *LogManager) AddLine(stream string, line string) {
	streamLine := domain.StreamLine{
		Stream: stream,
		Time:   time.Now(),
		Line:   line,
	}

	lm.mu.Lock()
	if _, ok := lm.streams[stream]; !ok {
		lm.streams[stream] = NewLogStream(100)
	}
	lm.streams[stream].Write <- streamLine
	lm.mu.Unlock()

	if payload, err := json.Marshal(streamLine); err == nil {
		select {
		case lm.hub.Broadcast <- payload:
		default:
		}
	}
}

func (lm *LogManager) GetStreams() map[string]*domain.LogStream {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	streams := make(map[string]*domain.LogStream, len(lm.streams))
	for name, stream := range lm.streams {
		streams[name] = stream
	}
	return streams
}

// GetLines snapshots the retained lines of one stream.
func (lm *LogManager) GetLines(stream string) []domain.StreamLine {
	lm.mu.Lock()
	logStream, ok := lm.streams[stream]
	lm.mu.Unlock()
	if !ok {
		return nil
	}

	res := make(chan domain.StreamLine)
	logStream.Req <- res

	var lines []domain.StreamLine
	for line := range res {
		lines = append(lines, line)
	}
	return lines
}

func (lm *LogManager) Subscribe() chan *[]byte {
	subscription := make(chan *[]byte, 16)
	lm.hub.Register <- subscription
	return subscription
}

func (lm *LogManager) Unsubscribe(subscription chan *[]byte) {
	lm.hub.Unregister <- subscription
}

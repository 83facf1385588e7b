// Package mock provides the offline stand-ins used when the legal backend is
// unreachable: canned chat answers and a fixed staff credential table.
package mock

import (
	"context"
	"strings"
	"time"

	"ura-xlaw/internal/domain"
)

// DefaultReplyDelay simulates backend latency before a canned answer
const DefaultReplyDelay = 1500 * time.Millisecond

// Answer is a canned reply
type Answer struct {
	Text        string
	ContentType domain.ContentType
	Matched     bool
}

// Responder answers from the canned table
type Responder struct {
	delay time.Duration
}

// NewResponder creates a responder that waits delay before every answer
func NewResponder(delay time.Duration) *Responder {
	return &Responder{delay: delay}
}

// Respond returns the canned answer for query, or NoAnswer when there is none.
// The only error is a context ending during the simulated delay.
func (r *Responder) Respond(ctx context.Context, query string) (Answer, error) {
	if err := sleep(ctx, r.delay); err != nil {
		return Answer{}, err
	}
	return Lookup(query), nil
}

// Lookup matches query against the canned table without any delay
func Lookup(query string) Answer {
	if text, ok := cannedAnswers[strings.ToLower(query)]; ok {
		return Answer{Text: text, ContentType: domain.ContentHTML, Matched: true}
	}
	return Answer{Text: NoAnswer, ContentType: domain.ContentHTML}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

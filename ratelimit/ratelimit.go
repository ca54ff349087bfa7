// Package ratelimit paces outbound API calls so a long fetch stays
// under the remote per-minute quotas instead of tripping secondary
// rate limits.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter holds one token bucket per upstream the miner talks to.
type Limiter struct {
	gh *rate.Limiter
	ai *rate.Limiter
}

func New(githubReqPerMin, openaiReqPerMin int) *Limiter {
	return &Limiter{
		gh: perMinute(githubReqPerMin),
		ai: perMinute(openaiReqPerMin),
	}
}

// perMinute spreads a per-minute quota evenly over time, with a burst
// of one full minute so short fetches never block.
func perMinute(n int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(n)/60.0), n)
}

// WaitGithub blocks until the next GitHub page request may go out.
func (l *Limiter) WaitGithub(ctx context.Context) error {
	return l.gh.Wait(ctx)
}

// WaitOpenAI blocks until the next summarizer call may go out.
func (l *Limiter) WaitOpenAI(ctx context.Context) error {
	return l.ai.Wait(ctx)
}

package github

import (
	"time"

	"github.com/google/go-github/v74/github"

	"repominer/cache"
	"repominer/config"
	"repominer/ratelimit"
)

// Client fetches repository activity through the GitHub REST API,
// pacing requests with a limiter and caching normalized results.
type Client struct {
	gh      *github.Client
	limiter *ratelimit.Limiter
	cache   cache.Store
	cfg     *config.Config
}

// CommitRecord is one normalized row of commit history. Message holds
// only the first line of the full commit message.
type CommitRecord struct {
	SHA     string    `json:"sha"`
	Author  string    `json:"author"`
	Email   string    `json:"email"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
}

// IssueRecord is one normalized issue row. Pull requests are never
// represented here. ClosedAt is the zero time while the issue is open,
// in which case OpenDays is meaningless.
type IssueRecord struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	User      string    `json:"user"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	ClosedAt  time.Time `json:"closed_at"`
	Comments  int       `json:"comments"`
	OpenDays  int       `json:"open_duration_days"`
}

// Activity bundles the two record streams for summarize.
type Activity struct {
	Commits []CommitRecord
	Issues  []IssueRecord
}

// FetchOptions bounds a fetch. Max nil means "everything the source
// has"; zero is a valid bound yielding an empty result. State applies
// to issues only.
type FetchOptions struct {
	Max   *int
	State string
}

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"

	"repominer/cache"
)

// FetchCommits retrieves up to opts.Max commit records for owner/name,
// in the order the commit-listing endpoint returns them (newest
// first). The result is never nil on success; a repository with no
// commits yields an empty slice.
func (c *Client) FetchCommits(ctx context.Context, repoFullName string, opts FetchOptions) ([]CommitRecord, error) {
	owner, name, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}
	done, err := checkMax(opts.Max)
	if err != nil {
		return nil, err
	}
	if done {
		return []CommitRecord{}, nil
	}

	key := cacheKey("commits", repoFullName, opts.Max, "")
	var records []CommitRecord
	if hit(ctx, c.cache, key, &records) {
		return records, nil
	}

	records = []CommitRecord{}
	listOpts := github.ListOptions{PerPage: c.perPage(opts.Max)}
	for {
		if err := c.limiter.WaitGithub(ctx); err != nil {
			return nil, err
		}
		commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
			ListOptions: listOpts,
		})
		if err != nil {
			return nil, classify(err)
		}
		for _, rc := range commits {
			if rc == nil {
				continue
			}
			records = append(records, normalizeCommit(rc))
			if opts.Max != nil && len(records) >= *opts.Max {
				store(ctx, c.cache, key, records, c.cfg.CacheTTL)
				return records, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}

	store(ctx, c.cache, key, records, c.cfg.CacheTTL)
	return records, nil
}

// normalizeCommit flattens a REST commit object into a CommitRecord.
// Author name and email fall back to the committer when the author
// fields are absent, which happens for commits pushed via automation.
func normalizeCommit(rc *github.RepositoryCommit) CommitRecord {
	commit := rc.GetCommit()

	name := commit.GetAuthor().GetName()
	if name == "" {
		name = commit.GetCommitter().GetName()
	}
	email := commit.GetAuthor().GetEmail()
	if email == "" {
		email = commit.GetCommitter().GetEmail()
	}

	return CommitRecord{
		SHA:     rc.GetSHA(),
		Author:  name,
		Email:   email,
		Date:    commit.GetAuthor().GetDate().Time,
		Message: firstLine(commit.GetMessage()),
	}
}

// firstLine cuts a commit message at the first line break, tolerating
// CRLF endings.
func firstLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimRight(line, "\r")
}

func cacheKey(kind, repo string, max *int, state string) string {
	bound := "all"
	if max != nil {
		bound = fmt.Sprintf("%d", *max)
	}
	if state != "" {
		return fmt.Sprintf("%s:%s:%s:%s", kind, repo, state, bound)
	}
	return fmt.Sprintf("%s:%s:%s", kind, repo, bound)
}

// hit loads a cached fetch result into out; misses and undecodable
// entries both count as a miss.
func hit[T any](ctx context.Context, c cache.Store, key string, out *T) bool {
	data, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("cache: bad entry %s: %v", key, err)
		return false
	}
	return true
}

func store[T any](ctx context.Context, c cache.Store, key string, val T, ttl time.Duration) {
	data, err := json.Marshal(val)
	if err != nil {
		log.Printf("cache: marshal %s: %v", key, err)
		return
	}
	c.Set(ctx, key, data, ttl)
}

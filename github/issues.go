package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v74/github"
)

var issueStates = map[string]bool{"": true, "all": true, "open": true, "closed": true}

// FetchIssues retrieves up to opts.Max issue records for owner/name,
// filtered by opts.State (default "all"). Pull requests come back on
// the same endpoint but are skipped and never count toward the bound.
func (c *Client) FetchIssues(ctx context.Context, repoFullName string, opts FetchOptions) ([]IssueRecord, error) {
	owner, name, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}
	if !issueStates[opts.State] {
		return nil, fmt.Errorf("%w: state must be one of all, open, closed; got %q", ErrInvalidArgument, opts.State)
	}
	state := opts.State
	if state == "" {
		state = "all"
	}
	done, err := checkMax(opts.Max)
	if err != nil {
		return nil, err
	}
	if done {
		return []IssueRecord{}, nil
	}

	key := cacheKey("issues", repoFullName, opts.Max, state)
	var records []IssueRecord
	if hit(ctx, c.cache, key, &records) {
		return records, nil
	}

	records = []IssueRecord{}
	listOpts := github.ListOptions{PerPage: c.perPage(opts.Max)}
	for {
		if err := c.limiter.WaitGithub(ctx); err != nil {
			return nil, err
		}
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, name, &github.IssueListByRepoOptions{
			State:       state,
			ListOptions: listOpts,
		})
		if err != nil {
			return nil, classify(err)
		}
		for _, is := range issues {
			if is == nil || is.IsPullRequest() {
				continue
			}
			records = append(records, normalizeIssue(is))
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

// normalizeIssue flattens an issue into an IssueRecord. OpenDays is
// the closed-created delta floored to whole days, only meaningful once
// the issue is closed.
func normalizeIssue(is *github.Issue) IssueRecord {
	rec := IssueRecord{
		ID:        is.GetID(),
		Number:    is.GetNumber(),
		Title:     is.GetTitle(),
		User:      is.GetUser().GetLogin(),
		State:     is.GetState(),
		CreatedAt: is.GetCreatedAt().Time,
		ClosedAt:  is.GetClosedAt().Time,
		Comments:  is.GetComments(),
	}
	if !rec.ClosedAt.IsZero() && !rec.CreatedAt.IsZero() {
		rec.OpenDays = int(rec.ClosedAt.Sub(rec.CreatedAt).Hours() / 24)
	}
	return rec
}

package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v74/github"
	"github.com/jferrl/go-githubauth"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"repominer/cache"
	"repominer/config"
	"repominer/ratelimit"
)

// NewClient builds an authenticated Client from config. A personal
// access token wins over GitHub App credentials when both are set;
// neither being set is an authentication failure up front, before any
// request is made.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	src, err := tokenSource(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = cfg.HTTPClientTimeout
	gh := github.NewClient(httpClient)

	if cfg.GithubAPIURL != "" {
		base, err := url.Parse(cfg.GithubAPIURL)
		if err != nil {
			return nil, fmt.Errorf("%w: github api url %q: %v", ErrInvalidArgument, cfg.GithubAPIURL, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		gh.BaseURL = base
	}

	st, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		gh:      gh,
		limiter: ratelimit.New(cfg.GithubRateLimit, cfg.OpenaiRateLimit),
		cache:   st,
		cfg:     cfg,
	}, nil
}

func tokenSource(cfg *config.Config) (oauth2.TokenSource, error) {
	if cfg.GithubToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GithubToken}), nil
	}
	if cfg.GithubPrivateKey != "" && cfg.GithubClientID != "" && cfg.GithubInstallationID != 0 {
		appSrc, err := githubauth.NewApplicationTokenSource(cfg.GithubClientID, []byte(cfg.GithubPrivateKey))
		if err != nil {
			return nil, fmt.Errorf("%w: github app credential: %v", ErrAuthentication, err)
		}
		return githubauth.NewInstallationTokenSource(cfg.GithubInstallationID, appSrc), nil
	}
	return nil, fmt.Errorf("%w: no GitHub credential configured (set GITHUB_TOKEN)", ErrAuthentication)
}

func newStore(cfg *config.Config) (cache.Store, error) {
	if cfg.RedisURL != "" {
		store, err := cache.ConnectRedis(cfg.RedisURL, cfg.RedisConnTimeout)
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		return store, nil
	}
	return cache.NewMemory(cfg.CacheSize)
}

// splitRepo validates an owner/name identifier.
func splitRepo(repoFullName string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repoFullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: repository must be owner/name, got %q", ErrInvalidArgument, repoFullName)
	}
	return owner, name, nil
}

// checkMax validates the optional record bound. done reports whether
// the bound is already satisfied without fetching anything.
func checkMax(max *int) (done bool, err error) {
	if max == nil {
		return false, nil
	}
	if *max < 0 {
		return false, fmt.Errorf("%w: max must not be negative, got %d", ErrInvalidArgument, *max)
	}
	return *max == 0, nil
}

// perPage clamps the configured page size to the record bound, so a
// small fetch costs a single small request.
func (c *Client) perPage(max *int) int {
	n := c.cfg.GithubPageSize
	if max != nil && *max < n {
		n = *max
	}
	return n
}

// FetchActivity retrieves commits and issues for one repository in
// parallel. Issue state defaults to "all".
func (c *Client) FetchActivity(ctx context.Context, repoFullName string, opts FetchOptions) (Activity, error) {
	var act Activity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		commits, err := c.FetchCommits(gctx, repoFullName, opts)
		if err != nil {
			return err
		}
		act.Commits = commits
		return nil
	})
	g.Go(func() error {
		issues, err := c.FetchIssues(gctx, repoFullName, opts)
		if err != nil {
			return err
		}
		act.Issues = issues
		return nil
	})
	if err := g.Wait(); err != nil {
		return Activity{}, err
	}
	return act, nil
}

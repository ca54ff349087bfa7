package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repominer/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		GithubToken:       "test-token",
		GithubAPIURL:      srv.URL,
		GithubPageSize:    2,
		GithubRateLimit:   6000,
		OpenaiRateLimit:   6000,
		CacheSize:         16,
		CacheTTL:          time.Minute,
		RedisConnTimeout:  time.Second,
		HTTPClientTimeout: 5 * time.Second,
	}
	client, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	return client
}

func intPtr(n int) *int { return &n }

func commitJSON(sha, name, email, date, message string) string {
	return fmt.Sprintf(`{"sha":%q,"commit":{"author":{"name":%q,"email":%q,"date":%q},"message":%q}}`,
		sha, name, email, date, message)
}

func TestFetchCommitsSinglePage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/Hello-World/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "[%s,%s,%s]",
			commitJSON("c3", "Alice", "alice@example.com", "2024-03-03T10:00:00Z", "third"),
			commitJSON("c2", "Bob", "bob@example.com", "2024-03-02T10:00:00Z", "second"),
			commitJSON("c1", "Alice", "alice@example.com", "2024-03-01T10:00:00Z", "first"),
		)
	})
	client := newTestClient(t, mux)

	records, err := client.FetchCommits(context.Background(), "octocat/Hello-World", FetchOptions{Max: intPtr(10)})
	require.NoError(t, err)

	// Fewer commits than the bound is not an error.
	require.Len(t, records, 3)
	assert.Equal(t, "c3", records[0].SHA)
	assert.Equal(t, "Alice", records[0].Author)
	assert.Equal(t, "alice@example.com", records[0].Email)
	assert.Equal(t, time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC), records[0].Date.UTC())
	assert.Equal(t, []string{"c3", "c2", "c1"}, []string{records[0].SHA, records[1].SHA, records[2].SHA})
}

func TestFetchCommitsPagination(t *testing.T) {
	var requests int
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/Hello-World/commits", func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", `<https://api.github.com/repos/octocat/Hello-World/commits?page=2>; rel="next"`)
			fmt.Fprintf(w, "[%s,%s]",
				commitJSON("c4", "Alice", "a@example.com", "2024-03-04T10:00:00Z", "four"),
				commitJSON("c3", "Alice", "a@example.com", "2024-03-03T10:00:00Z", "three"),
			)
		case "2":
			fmt.Fprintf(w, "[%s]",
				commitJSON("c2", "Bob", "b@example.com", "2024-03-02T10:00:00Z", "two"),
			)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	client := newTestClient(t, mux)

	records, err := client.FetchCommits(context.Background(), "octocat/Hello-World", FetchOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 2, requests)
	assert.Equal(t, "c2", records[2].SHA)
}

func TestFetchCommitsMaxStopsPaging(t *testing.T) {
	var requests int
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/Hello-World/commits", func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Link", `<https://api.github.com/repos/octocat/Hello-World/commits?page=2>; rel="next"`)
		fmt.Fprintf(w, "[%s,%s]",
			commitJSON("c2", "Alice", "a@example.com", "2024-03-02T10:00:00Z", "two"),
			commitJSON("c1", "Alice", "a@example.com", "2024-03-01T10:00:00Z", "one"),
		)
	})
	client := newTestClient(t, mux)

	records, err := client.FetchCommits(context.Background(), "octocat/Hello-World", FetchOptions{Max: intPtr(2)})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, requests, "bound reached mid-listing must not fetch the next page")
}

func TestFetchCommitsMaxZero(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	records, err := client.FetchCommits(context.Background(), "octocat/Hello-World", FetchOptions{Max: intPtr(0)})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
	assert.Zero(t, requests, "max=0 must not hit the API")
}

func TestFetchCommitsFirstLineOnly(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"single line", "fix parser", "fix parser"},
		{"multi line", "fix parser\n\nlong body\nmore", "fix parser"},
		{"trailing newline", "fix parser\n", "fix parser"},
		{"crlf", "fix parser\r\nbody", "fix parser"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/o/r/commits", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, "[%s]", commitJSON("sha1", "A", "a@example.com", "2024-01-01T00:00:00Z", tt.message))
			})
			client := newTestClient(t, mux)

			records, err := client.FetchCommits(context.Background(), "o/r", FetchOptions{})
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Message)
		})
	}
}

func TestFetchCommitsCommitterFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"sha":"s1","commit":{"author":{"date":"2024-01-01T00:00:00Z"},"committer":{"name":"CI Bot","email":"ci@example.com"},"message":"automated"}}]`)
	})
	client := newTestClient(t, mux)

	records, err := client.FetchCommits(context.Background(), "o/r", FetchOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CI Bot", records[0].Author)
	assert.Equal(t, "ci@example.com", records[0].Email)
}

func TestFetchCommitsEmptyRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/empty/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	client := newTestClient(t, mux)

	records, err := client.FetchCommits(context.Background(), "o/empty", FetchOptions{})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFetchCommitsErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		headers map[string]string
		want    error
	}{
		{"not found", http.StatusNotFound, nil, ErrNotFound},
		{"bad credentials", http.StatusUnauthorized, nil, ErrAuthentication},
		{"forbidden", http.StatusForbidden, nil, ErrAuthentication},
		{"server error", http.StatusInternalServerError, nil, ErrTransient},
		{"rate limited", http.StatusForbidden, map[string]string{
			"X-Ratelimit-Limit":     "60",
			"X-Ratelimit-Remaining": "0",
			"X-Ratelimit-Reset":     "2524608000",
		}, ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message":"nope"}`)
			}))

			_, err := client.FetchCommits(context.Background(), "no/such-repo", FetchOptions{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFetchCommitsInvalidArguments(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	for _, repo := range []string{"", "justowner", "owner/", "/name", "a/b/c"} {
		_, err := client.FetchCommits(context.Background(), repo, FetchOptions{})
		assert.ErrorIs(t, err, ErrInvalidArgument, "repo %q", repo)
	}

	_, err := client.FetchCommits(context.Background(), "o/r", FetchOptions{Max: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFetchCommitsMissingCredential(t *testing.T) {
	cfg := &config.Config{
		GithubPageSize:    100,
		GithubRateLimit:   80,
		OpenaiRateLimit:   50,
		CacheSize:         16,
		CacheTTL:          time.Minute,
		RedisConnTimeout:  time.Second,
		HTTPClientTimeout: 5 * time.Second,
	}
	_, err := NewClient(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestFetchCommitsCached(t *testing.T) {
	var requests int
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/commits", func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprintf(w, "[%s]", commitJSON("s1", "A", "a@example.com", "2024-01-01T00:00:00Z", "one"))
	})
	client := newTestClient(t, mux)

	first, err := client.FetchCommits(context.Background(), "o/r", FetchOptions{})
	require.NoError(t, err)
	second, err := client.FetchCommits(context.Background(), "o/r", FetchOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, requests, "second fetch must come from cache")
}

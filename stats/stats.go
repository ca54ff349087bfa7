// Package stats computes activity summaries over fetched commit and
// issue records.
package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"repominer/github"
)

type CommitterCount struct {
	Author  string
	Commits int
}

// DayActivity counts commits authored and issues opened on one day.
type DayActivity struct {
	Day           string // YYYY-MM-DD
	Commits       int
	IssuesCreated int
}

type Summary struct {
	TopCommitters []CommitterCount
	TotalIssues   int
	ClosedIssues  int
	CloseRate     float64
	AvgOpenDays   float64
	HasAvgOpen    bool
	ByDay         []DayActivity
}

const topCommitterCount = 5

// Summarize derives the activity report: top committers by commit
// count, issue close rate, and average open duration of closed issues.
func Summarize(commits []github.CommitRecord, issues []github.IssueRecord) Summary {
	var s Summary

	counts := make(map[string]int)
	for _, c := range commits {
		counts[c.Author]++
	}
	for author, n := range counts {
		s.TopCommitters = append(s.TopCommitters, CommitterCount{Author: author, Commits: n})
	}
	sort.Slice(s.TopCommitters, func(i, j int) bool {
		a, b := s.TopCommitters[i], s.TopCommitters[j]
		if a.Commits != b.Commits {
			return a.Commits > b.Commits
		}
		return a.Author < b.Author
	})
	if len(s.TopCommitters) > topCommitterCount {
		s.TopCommitters = s.TopCommitters[:topCommitterCount]
	}

	s.TotalIssues = len(issues)
	var openDaySum float64
	var closedWithDates int
	for _, is := range issues {
		if strings.EqualFold(is.State, "closed") {
			s.ClosedIssues++
		}
		if !is.ClosedAt.IsZero() && !is.CreatedAt.IsZero() {
			openDaySum += is.ClosedAt.Sub(is.CreatedAt).Hours() / 24
			closedWithDates++
		}
	}
	if s.TotalIssues > 0 {
		s.CloseRate = float64(s.ClosedIssues) / float64(s.TotalIssues)
	}
	if closedWithDates > 0 {
		s.AvgOpenDays = openDaySum / float64(closedWithDates)
		s.HasAvgOpen = true
	}

	s.ByDay = activityByDay(commits, issues)
	return s
}

func activityByDay(commits []github.CommitRecord, issues []github.IssueRecord) []DayActivity {
	byDay := make(map[string]*DayActivity)
	get := func(day string) *DayActivity {
		d, ok := byDay[day]
		if !ok {
			d = &DayActivity{Day: day}
			byDay[day] = d
		}
		return d
	}

	for _, c := range commits {
		if c.Date.IsZero() {
			continue
		}
		get(c.Date.UTC().Format("2006-01-02")).Commits++
	}
	for _, is := range issues {
		if is.CreatedAt.IsZero() {
			continue
		}
		get(is.CreatedAt.UTC().Format("2006-01-02")).IssuesCreated++
	}

	days := make([]DayActivity, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days
}

// Render prints the human-readable report.
func Render(w io.Writer, s Summary) {
	fmt.Fprintln(w, "Top 5 committers")
	if len(s.TopCommitters) == 0 {
		fmt.Fprintln(w, "- (no commits)")
	}
	for _, cc := range s.TopCommitters {
		fmt.Fprintf(w, "- %s: %d commits\n", cc.Author, cc.Commits)
	}

	fmt.Fprintf(w, "Issue close rate: %.2f\n", s.CloseRate)

	if s.HasAvgOpen {
		fmt.Fprintf(w, "Avg. issue open duration: %.2f days\n", s.AvgOpenDays)
	} else {
		fmt.Fprintln(w, "Avg. issue open duration: N/A")
	}
}

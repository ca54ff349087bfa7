// Package export renders fetched records to CSV and reads them back.
// Files are built in memory and written in a single call, so a failed
// fetch or render never leaves a partial file behind.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"repominer/github"
)

var (
	CommitColumns = []string{"sha", "author", "email", "date", "message"}
	IssueColumns  = []string{"id", "number", "title", "user", "state", "created_at", "closed_at", "comments", "open_duration_days"}
)

// WriteCommits writes records to path with the fixed commit header.
// Dates are rendered as RFC 3339; a zero date renders empty.
func WriteCommits(path string, records []github.CommitRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.SHA, r.Author, r.Email, formatTime(r.Date), r.Message})
	}
	return writeFile(path, CommitColumns, rows)
}

// WriteIssues writes records to path with the fixed issue header.
// closed_at and open_duration_days are empty for open issues.
func WriteIssues(path string, records []github.IssueRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		closed, openDays := "", ""
		if !r.ClosedAt.IsZero() {
			closed = formatTime(r.ClosedAt)
			openDays = strconv.Itoa(r.OpenDays)
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			strconv.Itoa(r.Number),
			r.Title,
			r.User,
			r.State,
			formatTime(r.CreatedAt),
			closed,
			strconv.Itoa(r.Comments),
			openDays,
		})
	}
	return writeFile(path, IssueColumns, rows)
}

// ReadCommits parses a commits CSV produced by WriteCommits.
func ReadCommits(path string) ([]github.CommitRecord, error) {
	rows, err := readFile(path, CommitColumns)
	if err != nil {
		return nil, err
	}
	records := make([]github.CommitRecord, 0, len(rows))
	for _, row := range rows {
		date, err := parseTime(row[3])
		if err != nil {
			return nil, fmt.Errorf("%s: bad date %q: %w", path, row[3], err)
		}
		records = append(records, github.CommitRecord{
			SHA:     row[0],
			Author:  row[1],
			Email:   row[2],
			Date:    date,
			Message: row[4],
		})
	}
	return records, nil
}

// ReadIssues parses an issues CSV produced by WriteIssues.
func ReadIssues(path string) ([]github.IssueRecord, error) {
	rows, err := readFile(path, IssueColumns)
	if err != nil {
		return nil, err
	}
	records := make([]github.IssueRecord, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad id %q: %w", path, row[0], err)
		}
		number, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("%s: bad number %q: %w", path, row[1], err)
		}
		comments, err := strconv.Atoi(row[7])
		if err != nil {
			return nil, fmt.Errorf("%s: bad comments %q: %w", path, row[7], err)
		}
		created, err := parseTime(row[5])
		if err != nil {
			return nil, fmt.Errorf("%s: bad created_at %q: %w", path, row[5], err)
		}
		closed, err := parseTime(row[6])
		if err != nil {
			return nil, fmt.Errorf("%s: bad closed_at %q: %w", path, row[6], err)
		}
		rec := github.IssueRecord{
			ID:        id,
			Number:    number,
			Title:     row[2],
			User:      row[3],
			State:     row[4],
			CreatedAt: created,
			ClosedAt:  closed,
			Comments:  comments,
		}
		if row[8] != "" {
			rec.OpenDays, err = strconv.Atoi(row[8])
			if err != nil {
				return nil, fmt.Errorf("%s: bad open_duration_days %q: %w", path, row[8], err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeFile(path string, columns []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("csv render: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("csv render: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readFile(path string, columns []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("read %s: missing header row", path)
	}
	if len(all[0]) != len(columns) {
		return nil, fmt.Errorf("read %s: expected %d columns, got %d", path, len(columns), len(all[0]))
	}
	return all[1:], nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

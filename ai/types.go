package ai

import "repominer/github"

// ReportJob is the input handed to the summarizer model.
type ReportJob struct {
	Repo    string                `json:"repo"`
	Commits []github.CommitRecord `json:"commits"`
	Issues  []github.IssueRecord  `json:"issues"`
}

type Contributor struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Commits int    `json:"commits"`
}

// Report is the structured narrative the model emits through the
// function tool.
type Report struct {
	Repo         string        `json:"repo"`
	Headline     string        `json:"headline"`
	Highlights   []string      `json:"highlights"`
	Contributors []Contributor `json:"contributors"`
}

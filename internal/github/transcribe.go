package github

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	maxTitleLength = 100
	rule           = "================================================================================"
)

// ContentSource is what the transcriber needs from the API
type ContentSource interface {
	OpenPullRequests(ctx context.Context) ([]PullRequest, error)
	PullFiles(ctx context.Context, number int) ([]PullFile, error)
	RawContent(ctx context.Context, rawURL string) (string, error)
}

// Transcriber writes one text file per open pull request
type Transcriber struct {
	source ContentSource
	outDir string
	logger *log.Logger
}

// NewTranscriber creates a new transcriber writing into outDir
func NewTranscriber(source ContentSource, outDir string) *Transcriber {
	return &Transcriber{
		source: source,
		outDir: outDir,
		logger: log.New(os.Stdout, "", 0),
	}
}

// SetLogger sets a custom logger
func (t *Transcriber) SetLogger(logger *log.Logger) {
	t.logger = logger
}

// Run transcribes every open pull request and returns the written paths.
// A failure to list a pull request's files aborts the run.
func (t *Transcriber) Run(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(t.outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	prs, err := t.source.OpenPullRequests(ctx)
	if err != nil {
		return nil, err
	}
	t.logger.Printf("Found %d open PRs", len(prs))

	var written []string
	for _, pr := range prs {
		t.logger.Printf("\nProcessing PR #%d: %s", pr.Number, pr.Title)

		files, err := t.source.PullFiles(ctx, pr.Number)
		if err != nil {
			return written, err
		}
		t.logger.Printf("  Found %d changed file(s)", len(files))

		path := filepath.Join(t.outDir, PullFileName(pr))
		if err := os.WriteFile(path, []byte(t.render(ctx, pr, files)), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
		t.logger.Printf("  ✓ Saved to: %s", path)
	}

	t.logger.Printf("\nAll PRs processed! Files saved in '%s/' folder", t.outDir)
	return written, nil
}

func (t *Transcriber) render(ctx context.Context, pr PullRequest, files []PullFile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== PULL REQUEST #%d ===\n", pr.Number)
	fmt.Fprintf(&sb, "Title: %s\n", pr.Title)
	fmt.Fprintf(&sb, "URL: %s\n", pr.HTMLURL)
	fmt.Fprintf(&sb, "Files changed: %d\n", len(files))
	sb.WriteString(rule + "\n\n")

	for _, f := range files {
		t.logger.Printf("    - %s", f.Filename)

		fmt.Fprintf(&sb, "\n%s\n", rule)
		fmt.Fprintf(&sb, "FILE: %s\n", f.Filename)
		fmt.Fprintf(&sb, "%s\n\n", rule)

		switch {
		case f.RawURL != "":
			content, err := t.source.RawContent(ctx, f.RawURL)
			if err != nil {
				content = fmt.Sprintf("[Error fetching content: %v]", err)
			}
			sb.WriteString(content)
		case f.Patch != "":
			fmt.Fprintf(&sb, "[PATCH/DIFF CONTENT]:\n%s\n", f.Patch)
		default:
			sb.WriteString("[No content available]\n")
		}

		sb.WriteString("\n\n")
	}

	return sb.String()
}

// PullFileName returns the output file name for a pull request
func PullFileName(pr PullRequest) string {
	return fmt.Sprintf("PR_%d_%s.txt", pr.Number, SanitizeTitle(pr.Title))
}

// SanitizeTitle keeps letters, digits, '-' and '_', turns every other
// character into '_' and caps the result at 100 characters
func SanitizeTitle(title string) string {
	var sb strings.Builder
	n := 0
	for _, r := range title {
		if n == maxTitleLength {
			break
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
		n++
	}
	return sb.String()
}

// Package format renders summaries into the textual representations the
// notifier delivers: a markdown rich text and a markup-free plain text,
// plus a simplified variant for constrained transports.
package format

import (
	"fmt"
	"strings"

	"ainews/internal/model"
)

// Limits bounds a simplified summary. Zero values mean "no cap" for the
// list fields and "no truncation" for the narrative.
type Limits struct {
	NarrativeChars int
	MaxKeyPoints   int
	MaxSources     int
}

// RichText renders the summary as markdown for email-capable endpoints.
func RichText(s *model.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# AI News Summary - %s\n\n", s.GeneratedAt.Format("January 2, 2006"))
	fmt.Fprintf(&b, "**Generated at:** %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "**Articles analyzed:** %d\n\n", s.ArticleCount)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "%s\n\n", s.Narrative)

	if len(s.KeyPoints) > 0 {
		b.WriteString("## Key Points\n\n")
		for i, point := range s.KeyPoints {
			fmt.Fprintf(&b, "%d. %s\n", i+1, point)
		}
		b.WriteString("\n")
	}

	if len(s.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		for i, src := range s.Sources {
			fmt.Fprintf(&b, "%d. **%s** - %s (%s)\n", i+1, src.Title, src.Source, src.PublishedAt.Format("2006-01-02"))
			fmt.Fprintf(&b, "   %s\n\n", src.URL)
		}
	}

	return b.String()
}

// PlainText renders the summary without any markup.
func PlainText(s *model.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "AI News Summary - %s\n", s.GeneratedAt.Format("January 2, 2006"))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Generated at: %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Articles analyzed: %d\n\n", s.ArticleCount)

	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	fmt.Fprintf(&b, "%s\n\n", s.Narrative)

	if len(s.KeyPoints) > 0 {
		b.WriteString("KEY POINTS\n")
		b.WriteString(strings.Repeat("-", 20) + "\n")
		for i, point := range s.KeyPoints {
			fmt.Fprintf(&b, "%d. %s\n", i+1, point)
		}
		b.WriteString("\n")
	}

	if len(s.Sources) > 0 {
		b.WriteString("SOURCES\n")
		b.WriteString(strings.Repeat("-", 20) + "\n")
		for i, src := range s.Sources {
			fmt.Fprintf(&b, "%d. %s - %s (%s)\n", i+1, src.Title, src.Source, src.PublishedAt.Format("2006-01-02"))
			fmt.Fprintf(&b, "   %s\n\n", src.URL)
		}
	}

	return b.String()
}

// Simplify produces a lighter copy of the summary for retry on constrained
// transports: truncated narrative, capped key points and sources. The
// original identity is preserved.
func Simplify(s *model.Summary, limits Limits) *model.Summary {
	out := &model.Summary{
		ID:           s.ID,
		Narrative:    Truncate(s.Narrative, limits.NarrativeChars),
		KeyPoints:    capStrings(s.KeyPoints, limits.MaxKeyPoints),
		Sources:      capSources(s.Sources, limits.MaxSources),
		GeneratedAt:  s.GeneratedAt,
		ArticleCount: s.ArticleCount,
	}
	return out
}

// Truncate cuts text to at most max runes, appending an ellipsis marker when
// anything was cut. max <= 0 means no truncation.
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func capStrings(in []string, max int) []string {
	if max <= 0 || len(in) <= max {
		return in
	}
	return in[:max]
}

func capSources(in []model.SourceRef, max int) []model.SourceRef {
	if max <= 0 || len(in) <= max {
		return in
	}
	return in[:max]
}

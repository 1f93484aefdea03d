package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/jamesprial/graw/pkg/types"
)

const topAuthorCount = 5

// commentStats summarises the comments of one thread.
type commentStats struct {
	TotalComments   int
	TotalScore      int
	AverageScore    float64
	MaxScore        int
	MinScore        int
	MaxDepth        int
	UniqueAuthors   int
	DeletedComments int
	TopAuthors      []authorStat
}

// authorStat is one author's activity within a thread.
type authorStat struct {
	Author       string
	CommentCount int
	TotalScore   int
}

// calculateStats computes statistics over comments. depth is the depth of
// the reply tree they came from.
func calculateStats(comments []*types.Comment, depth int) commentStats {
	stats := commentStats{MaxDepth: depth}
	authors := make(map[string]*authorStat)

	for _, c := range comments {
		if c == nil {
			continue
		}
		if stats.TotalComments == 0 || c.Score > stats.MaxScore {
			stats.MaxScore = c.Score
		}
		if stats.TotalComments == 0 || c.Score < stats.MinScore {
			stats.MinScore = c.Score
		}
		stats.TotalComments++
		stats.TotalScore += c.Score

		if c.Author == "[deleted]" {
			stats.DeletedComments++
			continue
		}
		a, ok := authors[c.Author]
		if !ok {
			a = &authorStat{Author: c.Author}
			authors[c.Author] = a
		}
		a.CommentCount++
		a.TotalScore += c.Score
	}

	if stats.TotalComments > 0 {
		stats.AverageScore = float64(stats.TotalScore) / float64(stats.TotalComments)
	}
	stats.UniqueAuthors = len(authors)

	for _, a := range authors {
		stats.TopAuthors = append(stats.TopAuthors, *a)
	}
	slices.SortFunc(stats.TopAuthors, func(a, b authorStat) int {
		if c := cmp.Compare(b.CommentCount, a.CommentCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Author, b.Author)
	})
	if len(stats.TopAuthors) > topAuthorCount {
		stats.TopAuthors = stats.TopAuthors[:topAuthorCount]
	}
	return stats
}

// engagement classifies a thread by comments per author.
func (s commentStats) engagement() string {
	if s.UniqueAuthors == 0 {
		return "No discussion"
	}
	switch perAuthor := float64(s.TotalComments) / float64(s.UniqueAuthors); {
	case perAuthor > 3.0:
		return "Highly engaged discussion"
	case perAuthor > 1.5:
		return "Moderate engagement"
	default:
		return "Many one-time commenters"
	}
}

func (s commentStats) write(w io.Writer) {
	fmt.Fprintln(w, "Comment Analysis:")
	fmt.Fprintln(w, "-----------------")
	fmt.Fprintf(w, "Total Comments: %d\n", s.TotalComments)
	fmt.Fprintf(w, "Unique Authors: %d\n", s.UniqueAuthors)
	if s.TotalComments > 0 {
		fmt.Fprintf(w, "Deleted Comments: %d (%.1f%%)\n",
			s.DeletedComments, float64(s.DeletedComments)/float64(s.TotalComments)*100)
	}
	fmt.Fprintf(w, "Deepest Reply Level: %d\n", s.MaxDepth)

	fmt.Fprintln(w, "\nScore Statistics:")
	fmt.Fprintf(w, "  Total Score: %d\n", s.TotalScore)
	fmt.Fprintf(w, "  Average Score: %.2f\n", s.AverageScore)
	fmt.Fprintf(w, "  Highest Score: %d\n", s.MaxScore)
	fmt.Fprintf(w, "  Lowest Score: %d\n", s.MinScore)

	fmt.Fprintln(w, "\nMost Active Commenters:")
	for i, a := range s.TopAuthors {
		fmt.Fprintf(w, "  %d. u/%s - %d comments (total score: %d)\n", i+1, a.Author, a.CommentCount, a.TotalScore)
	}
	fmt.Fprintf(w, "\nAssessment: %s\n", s.engagement())
}

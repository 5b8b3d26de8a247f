package play

import (
	"fmt"
	"hash/fnv"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/prepsom/levelplay/internal/level"
)

func renderHeader(w io.Writer, lvl level.Level, answered, total, points int) {
	name := lvl.Name
	if name == "" {
		name = lvl.ID
	}
	fmt.Fprintf(w, "\n== %s ==  %d/%d answered, %d points\n", name, answered, total, points)
}

func renderQuestion(w io.Writer, state level.State, q level.QuestionDetail) {
	fmt.Fprintf(w, "\n[%s] %s\n", state, q.Title)
	switch q.Kind {
	case level.KindMCQ:
		for i, opt := range q.Options {
			fmt.Fprintf(w, "  %d) %s\n", i+1, opt.Value)
		}
	case level.KindFillInBlank:
		fmt.Fprintf(w, "  %s\n", sentence(q.Segments))
	case level.KindMatching:
		rights := shuffledRights(q)
		for i, p := range q.Pairs {
			fmt.Fprintf(w, "  %d. %s\n", i+1, p.Left)
		}
		for i, r := range rights {
			fmt.Fprintf(w, "  %c) %s\n", 'a'+i, r)
		}
	}
}

// sentence renders segments with numbered blanks.
func sentence(segs []level.Segment) string {
	parts := make([]string, 0, len(segs))
	blank := 0
	for _, s := range segs {
		if s.IsBlank {
			blank++
			parts = append(parts, fmt.Sprintf("____(%d)", blank))
			continue
		}
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

// shuffledRights returns the right-hand items in an order fixed per question id, so a
// re-offered question reads the same.
func shuffledRights(q level.QuestionDetail) []string {
	rights := make([]string, len(q.Pairs))
	for i, p := range q.Pairs {
		rights[i] = p.Right
	}
	h := fnv.New64a()
	h.Write([]byte(q.ID))
	rng := rand.New(rand.NewPCG(h.Sum64(), 0x70726570))
	rng.Shuffle(len(rights), func(i, j int) { rights[i], rights[j] = rights[j], rights[i] })
	return rights
}

func renderFeedback(w io.Writer, q level.QuestionDetail, sub level.Submission) {
	if sub.Response.IsCorrect {
		fmt.Fprintf(w, "Correct! +%d points (total %d)\n", sub.Response.PointsEarned, sub.TotalPoints)
	} else {
		fmt.Fprintf(w, "Not quite. (total %d)\n", sub.TotalPoints)
		if hint := correctText(q, sub.Response.CorrectData); hint != "" {
			fmt.Fprintf(w, "Correct answer: %s\n", hint)
		}
	}
	if sub.StoreErr != nil {
		fmt.Fprintln(w, "Note: progress could not be saved locally; it is still recorded on the server.")
	}
}

func renderCompletion(w io.Writer, res level.CompletionResult) {
	fmt.Fprintln(w)
	if !res.Success {
		fmt.Fprintf(w, "Level not completed: %s\n", res.Message)
		return
	}
	verdict := "PASSED"
	if !res.IsComplete {
		verdict = "NOT PASSED"
	}
	fmt.Fprintf(w, "Level %s: %d/%d correct (%.0f%%)\n", verdict, res.CorrectCount, res.TotalCount, res.Percentage)
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "%s:\n", title)
		for _, it := range items {
			fmt.Fprintf(w, "  - %s\n", it)
		}
	}
	list("Strengths", res.Strengths)
	list("Weaknesses", res.Weaknesses)
	list("Recommendations", res.Recommendations)
}

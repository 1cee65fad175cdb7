package reasoning

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/engine/scoring"
)

// minChunkChars is the shortest chunk of reasoning sent for rewording.
const minChunkChars = 50

// paraphrasing is the per-attempt state of paraphrased solving.
type paraphrasing struct {
	solver       *Solver
	doneThinking bool
	steps        []domain.ParaphraseStep
}

func (p *paraphrasing) hook(ctx context.Context, a *attempt) (string, bool, error) {
	if p.doneThinking {
		return a.last.Content, true, nil
	}

	original, done := SplitChunk(a.last.Content)
	reworded, err := p.solver.paraphraser.Reword(ctx, RewordSystemPrompt, RewordPrefix+original)
	if err != nil {
		return "", false, err
	}
	if done {
		reworded += ClosingMarkers
	}

	p.doneThinking = done
	p.steps = append(p.steps, domain.ParaphraseStep{Original: original, Reworded: reworded})

	// A stop inside the reasoning span only ends this chunk, not the answer.
	a.last.FinishReason = ""
	return reworded, done, nil
}

// SplitChunk takes whole lines from the start of content until they hold at least
// 50 characters of non-blank text, dropping the rest. If the taken lines contain an
// end-of-reasoning marker, the chunk is cut at the last one and done is true.
func SplitChunk(content string) (chunk string, done bool) {
	sections := strings.Split(content, "\n")

	var b strings.Builder
	for strings.TrimSpace(b.String()) == "" || utf8.RuneCountInString(b.String()) < minChunkChars {
		if len(sections) == 0 {
			break
		}
		b.WriteString(sections[0])
		b.WriteByte('\n')
		sections = sections[1:]
	}

	chunk = b.String()
	if i := strings.LastIndex(chunk, scoring.ThinkEnd); i != -1 {
		done = true
		chunk = chunk[:i]
	}
	if i := strings.LastIndex(chunk, scoring.EndOfThinking); i != -1 {
		done = true
		chunk = chunk[:i]
	}
	return chunk, done
}

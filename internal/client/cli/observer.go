package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/iqube-labs/iqube-api/internal/client/orchestrator"
	"github.com/iqube-labs/iqube-api/internal/domain/entity"
)

// terminalObserver prints generation progress as it happens
type terminalObserver struct {
	out io.Writer
}

var _ orchestrator.Observer = terminalObserver{}

func (o terminalObserver) PhaseChanged(phase orchestrator.Phase) {
	if phase == orchestrator.PhaseIdle || phase == orchestrator.PhaseError {
		return
	}
	fmt.Fprintln(o.out, phase.ProgressText())
}

func (o terminalObserver) QuestionAdded(q entity.GeneratedQuestion, loaded, expected int) {
	fmt.Fprintf(o.out, "  [%d/%d] %s\n", loaded, expected, headline(q))
}

func (o terminalObserver) QuestionReplaced(_ string, q entity.GeneratedQuestion) {
	fmt.Fprintf(o.out, "Replaced with: %s\n", headline(q))
}

func headline(q entity.GeneratedQuestion) string {
	return fmt.Sprintf("(%s) %s", q.Difficulty, q.Question)
}

// printQuestion renders one card with its options and answer
func printQuestion(w io.Writer, n int, q entity.GeneratedQuestion) {
	fmt.Fprintf(w, "%d. %s\n", n, headline(q))
	for i, opt := range q.Options {
		fmt.Fprintf(w, "     %c) %s\n", 'A'+rune(i), opt)
	}
	if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
		fmt.Fprintf(w, "     Answer: %c\n", 'A'+rune(q.CorrectAnswer))
	}
	if explanation := strings.TrimSpace(q.Explanation); explanation != "" {
		fmt.Fprintf(w, "     %s\n", explanation)
	}
}

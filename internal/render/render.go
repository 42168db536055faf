// Package render draws the uploader state and match results on a terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"

	"github.com/spigell/cv-matcher/internal/candidate"
	"github.com/spigell/cv-matcher/internal/matching"
	"github.com/spigell/cv-matcher/internal/uploader"
	"github.com/spigell/cv-matcher/internal/utils"
)

const barWidth = 30

var (
	styleHigh   = promptui.Styler(promptui.FGGreen, promptui.FGBold)
	styleMedium = promptui.Styler(promptui.FGYellow, promptui.FGBold)
	styleLow    = promptui.Styler(promptui.FGRed, promptui.FGBold)
	styleTitle  = promptui.Styler(promptui.FGBold)
	styleError  = promptui.Styler(promptui.FGRed)
	styleNotice = promptui.Styler(promptui.FGCyan)
	styleFaint  = promptui.Styler(promptui.FGFaint)
)

// Terminal renders to out. It is safe to use as an uploader OnChange callback.
type Terminal struct {
	out io.Writer
	// Plain disables ANSI colors.
	Plain bool

	mu      sync.Mutex
	drawing bool
}

func New(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Update redraws the progress line. The bar is visible only while the
// progress is strictly between 0 and 100.
func (t *Terminal) Update(st uploader.State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st.Progress > 0 && st.Progress < 100 {
		filled := barWidth * st.Progress / 100
		bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
		fmt.Fprintf(t.out, "\rProcessing: [%s] %d%%", bar, st.Progress)
		t.drawing = true
		return
	}

	if t.drawing {
		fmt.Fprintf(t.out, "\r%s\r", strings.Repeat(" ", barWidth+20))
		t.drawing = false
	}
}

// Candidate prints the selected file summary.
func (t *Terminal) Candidate(file *candidate.File) {
	if file == nil {
		return
	}

	line := fmt.Sprintf("%s (%s", file.Name, utils.HumanSize(file.Size))
	if file.Pages > 0 {
		line += fmt.Sprintf(", %d pages", file.Pages)
	}
	line += ")"

	fmt.Fprintln(t.out, t.style(styleTitle, line))
}

// Outcome prints whatever the last transition left to show: an error, a
// notice or the results.
func (t *Terminal) Outcome(st uploader.State) {
	switch {
	case st.Error != "":
		fmt.Fprintln(t.out, t.style(styleError, st.Error))
		fmt.Fprintln(t.out, t.style(styleFaint, "Please check the file or try again later"))
	case st.Notice != "":
		fmt.Fprintln(t.out, t.style(styleNotice, st.Notice))
	case len(st.Results) > 0:
		t.Matches(st.Results)
	}
}

// Matches prints the result list in the order received.
func (t *Terminal) Matches(matches []*matching.Match) {
	fmt.Fprintf(t.out, "\n%s\n\n", t.style(styleTitle, fmt.Sprintf("Top %d matching positions", len(matches))))

	for idx, m := range matches {
		t.card(idx, m, true)
	}
}

// Details prints one match with its full reasoning.
func (t *Terminal) Details(idx int, m *matching.Match) {
	t.card(idx, m, false)
}

func (t *Terminal) card(idx int, m *matching.Match, brief bool) {
	rating := Rate(m.SemanticScore)
	score := t.style(toneStyle(rating.Tone), fmt.Sprintf("%s  %s", FormatScore(m.SemanticScore), rating.Label))

	fmt.Fprintf(t.out, "#%d %s  %s\n", idx+1, t.style(styleTitle, m.JobTitle), score)

	reasoning := m.Reasoning
	if brief {
		reasoning = utils.TruncateForLog(reasoning, 160)
	}
	if reasoning != "" {
		fmt.Fprintf(t.out, "   Assessment: %s\n", reasoning)
	}

	if len(m.Strengths) > 0 {
		fmt.Fprintf(t.out, "   Strengths:  %s\n", tags("✓", m.Strengths))
	}
	if len(m.SkillGaps) > 0 {
		fmt.Fprintf(t.out, "   To improve: %s\n", tags("+", m.SkillGaps))
	}

	fmt.Fprintln(t.out)
}

// FormatScore prints a score without trailing zeros.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func tags(marker string, items []string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, marker+" "+item)
	}
	return strings.Join(out, ", ")
}

func toneStyle(tone Tone) func(interface{}) string {
	switch tone {
	case ToneHigh:
		return styleHigh
	case ToneMedium:
		return styleMedium
	default:
		return styleLow
	}
}

func (t *Terminal) style(fn func(interface{}) string, s string) string {
	if t.Plain {
		return s
	}
	return fn(s)
}

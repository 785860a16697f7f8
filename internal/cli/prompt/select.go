// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/clilog/pkg/level"
)

// Sentinel errors for level selection.
var (
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// FindFunc picks one of levels and returns its index.
type FindFunc func(header string, levels []level.Level) (int, error)

// Selector handles interactive level selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
	find   FindFunc
}

// NewSelector creates a Selector that uses the fuzzy finder on the terminal.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
		find:   FuzzyFind,
	}
}

// NewSelectorWithIO creates a line-based Selector with custom reader and
// writer, for non-terminal input and tests.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// WithFinder replaces the picker used instead of the line-based prompt.
func (s *Selector) WithFinder(fn FindFunc) *Selector {
	s.find = fn
	return s
}

// SelectLevel prompts for a level, def being preselected.
//
// Returns:
//   - def if the line-based prompt gets an empty answer
//   - ErrInvalidSelection for numbers out of range or unknown names
//   - ErrSelectionCancelled on EOF or when the finder is aborted
func (s *Selector) SelectLevel(header string, def level.Level) (level.Level, error) {
	levels := level.All()

	if s.find != nil {
		idx, err := s.find(header, levels)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return def, ErrSelectionCancelled
			}
			return def, errors.Wrap(err, "level picker failed")
		}
		if idx < 0 || idx >= len(levels) {
			return def, errors.Wrapf(ErrInvalidSelection, "index %d", idx)
		}
		return levels[idx], nil
	}

	fmt.Fprintf(s.writer, "%s\n", header)
	defIdx := 0
	for i, l := range levels {
		marker := " "
		if l == def {
			marker = "*"
			defIdx = i + 1
		}
		fmt.Fprintf(s.writer, " %s[%d] %-5s  %s\n", marker, i+1, l.Name(), l.Description())
	}
	fmt.Fprintf(s.writer, "Select [%d]: ", defIdx)

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		if errors.Is(err, io.EOF) {
			return def, ErrSelectionCancelled
		}
		return def, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return def, nil
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(levels) {
			return def, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(levels))
		}
		return levels[n-1], nil
	}

	l, err := level.Parse(input)
	if err != nil {
		return def, errors.Wrapf(ErrInvalidSelection, "%q is not a level", input)
	}
	return l, nil
}

// FuzzyFind runs the terminal fuzzy finder over levels.
func FuzzyFind(header string, levels []level.Level) (int, error) {
	return fuzzyfinder.Find(
		levels,
		func(i int) string {
			return levels[i].Name()
		},
		fuzzyfinder.WithHeader(header),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return fmt.Sprintf("%s\n\n%s", levels[i], levels[i].Description())
		}),
	)
}

package extract

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// splitRule is one separator heuristic. Rules are evaluated in order; the
// first rule that partitions the content wins.
type splitRule struct {
	name string
	re   *regexp.Regexp
}

// Separator heuristics, strongest first: explicit separator lines and
// blank-line-delimited header blocks, then repeated sender labels.
var (
	explicitSeparators = splitRule{
		name: "explicit_separator",
		re: regexp.MustCompile(
			`(?mi)(?:^[-=]{3,}[ \t]*$|\n\n(?:From:[ \t]+[^\n]+@[^\n]+\.[^\n]+|De:[ \t]+[^\n]+@[^\n]+\.[^\n]+|Message-ID:[ \t]+<[^>]+>))`),
	}
	repeatedSenderLabel = splitRule{
		name: "repeated_sender_label",
		re:   regexp.MustCompile(`(?mi)^From:\s`),
	}
	leadingSeparatorLine = regexp.MustCompile(`(?m)^[-=]{3,}[ \t]*$`)
)

// Splitter partitions a submission into individual emails. The output list is
// never empty and preserves source order; when no heuristic applies, the
// whole input is one unit.
type Splitter struct {
	logger      *zap.Logger
	minFragment int
}

// NewSplitter creates a splitter. Fragments shorter than minFragment are
// discarded as accidental splits.
func NewSplitter(logger *zap.Logger, minFragment int) *Splitter {
	if minFragment <= 0 {
		minFragment = 50
	}
	return &Splitter{
		logger:      logger,
		minFragment: minFragment,
	}
}

// Split returns the individual emails found in content, in order of
// appearance.
func (s *Splitter) Split(content string) []string {
	if units := s.splitAtSeparators(content); units != nil {
		if len(units) > 1 {
			s.logDetected(explicitSeparators.name, len(units))
		}
		return units
	}

	if units := s.splitAtSenderLabels(content); units != nil {
		if len(units) > 1 {
			s.logDetected(repeatedSenderLabel.name, len(units))
		}
		return units
	}

	return []string{strings.TrimSpace(content)}
}

// splitAtSeparators cuts the content at each explicit separator match. The
// matched separator stays attached to the start of the following segment so
// each unit keeps its own header, then gets trimmed away with the
// surrounding whitespace.
func (s *Splitter) splitAtSeparators(content string) []string {
	matches := explicitSeparators.re.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	bounds := make([]int, 0, len(matches)+2)
	bounds = append(bounds, 0)
	for _, m := range matches {
		bounds = append(bounds, m[0])
	}
	bounds = append(bounds, len(content))

	units := make([]string, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		unit := s.cleanUnit(content[bounds[i]:bounds[i+1]])
		if len(unit) > s.minFragment {
			units = append(units, unit)
		}
	}
	if len(units) == 0 {
		return []string{strings.TrimSpace(content)}
	}
	return units
}

// splitAtSenderLabels cuts at every "From:" line when at least two are
// present; each unit spans from its label line up to the next label line.
func (s *Splitter) splitAtSenderLabels(content string) []string {
	matches := repeatedSenderLabel.re.FindAllStringIndex(content, -1)
	if len(matches) < 2 {
		return nil
	}

	units := make([]string, 0, len(matches))
	for i, m := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		unit := strings.TrimSpace(content[m[0]:end])
		if len(unit) > s.minFragment {
			units = append(units, unit)
		}
	}
	if len(units) == 0 {
		return []string{strings.TrimSpace(content)}
	}
	return units
}

// cleanUnit strips any reattached separator lines from the start of a unit
func (s *Splitter) cleanUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	for {
		loc := leadingSeparatorLine.FindStringIndex(unit)
		if loc == nil || loc[0] != 0 {
			return unit
		}
		unit = strings.TrimSpace(unit[loc[1]:])
	}
}

func (s *Splitter) logDetected(rule string, count int) {
	if s.logger != nil {
		s.logger.Info("Multiple emails detected in submission",
			zap.String("rule", rule),
			zap.Int("count", count))
	}
}

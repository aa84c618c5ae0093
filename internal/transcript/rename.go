package transcript

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Replacement reports how many speaker headers were renamed.
type Replacement struct {
	Old   string
	New   string
	Count int
}

func (r Replacement) String() string {
	return fmt.Sprintf("%s -> %s (%d occurrences)", r.Old, r.New, r.Count)
}

// RenameSpeakers replaces speaker labels in the header lines of the
// transcript at path and rewrites the file. Body text is never touched, and
// all names are swapped in one pass so {"Speaker 1": "Speaker 2",
// "Speaker 2": "Speaker 1"} exchanges them.
func RenameSpeakers(path string, mapping map[string]string) ([]Replacement, error) {
	content, err := Read(path)
	if err != nil {
		return nil, err
	}

	updated, reps := RenameInText(content, mapping)
	if len(reps) == 0 {
		return nil, nil
	}
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}
	return reps, nil
}

// RenameInText is RenameSpeakers on an in-memory transcript. Replacements
// are returned in sorted label order, only for labels that matched.
func RenameInText(content string, mapping map[string]string) (string, []Replacement) {
	olds := make([]string, 0, len(mapping))
	for old := range mapping {
		if old != "" {
			olds = append(olds, old)
		}
	}
	if len(olds) == 0 {
		return content, nil
	}
	// Longest first so "Speaker 10" is not shadowed by "Speaker 1".
	sort.Slice(olds, func(i, j int) bool {
		if len(olds[i]) != len(olds[j]) {
			return len(olds[i]) > len(olds[j])
		}
		return olds[i] < olds[j]
	})

	quoted := make([]string, len(olds))
	for i, o := range olds {
		quoted[i] = regexp.QuoteMeta(o)
	}
	re := regexp.MustCompile(`(?m)^(` + strings.Join(quoted, "|") + `)([ \t]*\(\d+:\d{2}\)[ \t]*\r?)$`)

	counts := make(map[string]int)
	var sb strings.Builder
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
		old := content[m[2]:m[3]]
		sb.WriteString(content[last:m[2]])
		sb.WriteString(mapping[old])
		last = m[3]
		counts[old]++
	}
	sb.WriteString(content[last:])

	var reps []Replacement
	for old, n := range counts {
		reps = append(reps, Replacement{Old: old, New: mapping[old], Count: n})
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i].Old < reps[j].Old })

	return sb.String(), reps
}

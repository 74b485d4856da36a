package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/napolitain/solver-geode/internal/models"
)

var (
	// ErrMalformedBlueprint is returned for any entry that does not match the blueprint grammar
	ErrMalformedBlueprint = errors.New("loader: malformed blueprint")

	// ErrDuplicateBlueprint is returned when two blueprints share an id
	ErrDuplicateBlueprint = errors.New("loader: duplicate blueprint id")

	// ErrNoBlueprints is returned when the input holds no blueprint at all
	ErrNoBlueprints = errors.New("loader: no blueprints in input")
)

// Precompiled regex for the puzzle sentence form
var blueprintRegex = regexp.MustCompile(`^Blueprint (\d+): ` +
	`Each ore robot costs (\d+) ore\. ` +
	`Each clay robot costs (\d+) ore\. ` +
	`Each obsidian robot costs (\d+) ore and (\d+) clay\. ` +
	`Each geode robot costs (\d+) ore and (\d+) obsidian\.$`)

// entry is one blueprint's text, possibly wrapped over several lines
type entry struct {
	line int
	text string
}

// LoadBlueprints loads blueprints from a file. Files ending in .json are read as JSON,
// anything else as puzzle text. "-" reads puzzle text from stdin.
func LoadBlueprints(path string) ([]*models.Blueprint, error) {
	if path == "-" {
		return ParseBlueprints(os.Stdin)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return ParseBlueprintsJSON(data)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	blueprints, err := ParseBlueprints(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return blueprints, nil
}

// ParseBlueprints parses puzzle text. A blueprint starts on a line beginning with
// "Blueprint" and may continue on following lines; blank lines are ignored.
// Any malformed entry fails the whole parse.
func ParseBlueprints(r io.Reader) ([]*models.Blueprint, error) {
	entries, err := splitEntries(r)
	if err != nil {
		return nil, err
	}

	blueprints := make([]*models.Blueprint, 0, len(entries))
	for _, e := range entries {
		bp, err := parseEntry(e)
		if err != nil {
			return nil, err
		}
		blueprints = append(blueprints, bp)
	}

	return checkBlueprints(blueprints)
}

// ParseBlueprint parses a single blueprint sentence
func ParseBlueprint(line string) (*models.Blueprint, error) {
	bp, err := parseEntry(entry{line: 1, text: line})
	if err != nil {
		return nil, err
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return bp, nil
}

func splitEntries(r io.Reader) ([]entry, error) {
	var entries []entry
	var current *entry

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "Blueprint") {
			entries = append(entries, entry{line: lineNum, text: line})
			current = &entries[len(entries)-1]
			continue
		}

		// Continuation of a wrapped blueprint
		if current == nil {
			return nil, fmt.Errorf("%w: line %d: text before first blueprint: %q", ErrMalformedBlueprint, lineNum, line)
		}
		current.text += " " + line
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blueprints: %w", err)
	}

	return entries, nil
}

func parseEntry(e entry) (*models.Blueprint, error) {
	text := strings.Join(strings.Fields(e.text), " ")
	m := blueprintRegex.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedBlueprint, e.line, text)
	}

	nums := make([]int, len(m)-1)
	for i, s := range m[1:] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedBlueprint, e.line, err)
		}
		nums[i] = n
	}

	return models.NewStandardBlueprint(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5], nums[6]), nil
}

// checkBlueprints rejects empty input, duplicate ids and unusable cost tables
func checkBlueprints(blueprints []*models.Blueprint) ([]*models.Blueprint, error) {
	if len(blueprints) == 0 {
		return nil, ErrNoBlueprints
	}

	seen := make(map[int]bool, len(blueprints))
	for _, bp := range blueprints {
		if seen[bp.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateBlueprint, bp.ID)
		}
		seen[bp.ID] = true

		if err := bp.Validate(); err != nil {
			return nil, err
		}
	}

	return blueprints, nil
}

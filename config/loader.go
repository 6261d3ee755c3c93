// Package config loads an engine.Config from a line-based key=value
// file, for processes that want to externalize the two tunables
// docs/ADR/ADR-0101-access-decision-engine.md §6 exposes ("process-wide, immutable after init") instead of
// wiring engine.WithMaxDepth/WithAllResourcesGroupID by hand.
//
// The format is the same line-based, stdlib-only style used elsewhere
// in this codebase's ancestry: comments start with '#', blank lines
// are skipped, everything else is "key = value".
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/canonkit/authzkernel/internal/engine"
)

// ParseError reports a malformed line, with its 1-based line number.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parse error at line %d: %s", e.Line, e.Message)
}

// LoadFromFile reads an engine.Config from path. Fields absent from
// the file keep engine.DefaultConfig's values.
func LoadFromFile(path string) (engine.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	return Load(file)
}

// Load reads an engine.Config from r.
func Load(r io.Reader) (engine.Config, error) {
	cfg := engine.DefaultConfig()

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return engine.Config{}, &ParseError{Line: lineNum, Message: "expected 'key = value'"}
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "max_depth":
			depth, err := strconv.Atoi(value)
			if err != nil || depth <= 0 {
				return engine.Config{}, &ParseError{Line: lineNum, Message: "max_depth must be a positive integer"}
			}
			cfg.MaxDepth = depth
		case "all_resources_group_id":
			if value == "" {
				return engine.Config{}, &ParseError{Line: lineNum, Message: "all_resources_group_id must not be empty"}
			}
			cfg.AllResourcesGroupID = value
		default:
			return engine.Config{}, &ParseError{Line: lineNum, Message: "unknown key: " + key}
		}
	}
	if err := scanner.Err(); err != nil {
		return engine.Config{}, fmt.Errorf("config: read: %w", err)
	}

	return cfg, nil
}

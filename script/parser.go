package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmptyScript is returned for a script without the frame count line.
var ErrEmptyScript = errors.New("script: missing frame count")

// A ParseError reports a malformed line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("script: line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a whole script. Blank lines before the frame count are skipped;
// after it, a blank line is a bitmap request like any other unknown command.
func Parse(r io.Reader) (*Script, error) {
	scanner := bufio.NewScanner(r)
	s := &Script{}
	lineNo := 0
	sawHeader := false

	for scanner.Scan() {
		lineNo++
		text := strings.TrimRight(scanner.Text(), "\r")

		if !sawHeader {
			if strings.TrimSpace(text) == "" {
				continue
			}

			n, err := parseHex(strings.TrimSpace(text))
			if err != nil {
				return nil, &ParseError{Line: lineNo, Text: text, Err: err}
			}

			s.NumFrames = n
			sawHeader = true

			continue
		}

		cmd, err := ParseCommand(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Err: err}
		}

		cmd.Line = lineNo
		s.Commands = append(s.Commands, cmd)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !sawHeader {
		return nil, ErrEmptyScript
	}

	return s, nil
}

// ParseCommand parses a single command line. The line number of the result
// is left 0.
func ParseCommand(text string) (Command, error) {
	cmd := Command{Text: text}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		cmd.Op = OpShowBitmap
		return cmd, nil
	}

	switch {
	case strings.Contains(fields[0], "G"):
		cmd.Op = OpAllocate
	case strings.Contains(fields[0], "F"):
		cmd.Op = OpFree
	default:
		cmd.Op = OpShowBitmap
		return cmd, nil
	}

	if len(fields) < 3 {
		return cmd, fmt.Errorf("%s needs an owner and a count", cmd.Op)
	}

	owner, err := parseHex(fields[1])
	if err != nil {
		return cmd, fmt.Errorf("owner: %w", err)
	}

	count, err := parseHex(fields[2])
	if err != nil {
		return cmd, fmt.Errorf("count: %w", err)
	}

	cmd.Owner = owner
	cmd.Count = count

	return cmd, nil
}

func parseHex(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	v, err := strconv.ParseUint(s, 16, 31)
	if err != nil {
		return 0, err
	}

	return int(v), nil
}

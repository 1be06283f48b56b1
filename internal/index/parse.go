package index

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/lisaguthrie/sipdash/constants"
)

// The district's appendix lists schools as free text under level headings:
//
//	Appendix: High School Improvement Plans
//	Eastlake High School pp. 1-9
//	Juanita High School pp. 9-18
var (
	appendixHeadingRe = regexp.MustCompile(`^Appendix: (\w+) School`)
	appendixEntryRe   = regexp.MustCompile(`^(.+?)\s+pp\.\s*(\d+)\s*-\s*(\d+)`)
)

// ParseAppendix converts the published appendix text into a school index.
// Lines under an unrecognized heading are dropped; lines that match no
// pattern are ignored. The appendix is known to drift from the actual
// PDFs, so the result is a starting point for hand edits, not gospel.
func ParseAppendix(r io.Reader) (Index, error) {
	ix := Index{}
	var current constants.Level
	inSection := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := appendixHeadingRe.FindStringSubmatch(line); m != nil {
			level, ok := constants.ParseLevel(m[1])
			current, inSection = level, ok
			continue
		}
		if !inSection {
			continue
		}

		m := appendixEntryRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start, _ := strconv.Atoi(m[2])
		end, _ := strconv.Atoi(m[3])
		ix[current] = append(ix[current], Entry{
			School: strings.TrimSpace(m[1]),
			Start:  start,
			End:    end,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read appendix: %w", err)
	}
	if err := ix.Validate(); err != nil {
		return nil, fmt.Errorf("appendix: %w", err)
	}
	return ix, nil
}

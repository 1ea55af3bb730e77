package chart

import (
	"bytes"
	"strings"

	"github.com/sageflow/ptbrecover/internal/model"
)

// Record-layout heuristics reported by Candidates.
const (
	StrategyLengthPrefixed = "length_prefixed"
	StrategyRecordMarker   = "record_marker"
	StrategyAnchor         = "anchor"
)

const (
	anchorLookBehind = 50
	anchorMaxName    = 45
)

// DefaultAnchors are account names common enough in Peachtree charts to
// locate a record by.
func DefaultAnchors() []string {
	return []string{
		"Cash on hand", "Petty cash", "Bank", "Accounts Receivable", "Accounts Payable",
		"Sales", "Office", "Equipment", "Inventory", "Rent",
	}
}

// Candidates runs the record-layout heuristics over a CHART buffer: Btrieve
// length-prefixed strings, the 04 00 record marker before a four-digit
// number, and known account names with a number shortly before them. They
// are cruder than Classify and are only reported for review. A number found
// by an earlier heuristic is not reported again.
func Candidates(buf []byte, opts Options) []model.ChartCandidate {
	c := &collector{seen: make(map[string]bool)}
	c.lengthPrefixed(buf)
	c.recordMarkers(buf)
	c.anchored(buf, opts.Anchors)
	return c.out
}

type collector struct {
	seen map[string]bool
	out  []model.ChartCandidate
}

func (c *collector) add(number, name string, offset int, strategy string) {
	if c.seen[number] {
		return
	}
	c.seen[number] = true
	c.out = append(c.out, model.ChartCandidate{
		Number:   number,
		Name:     name,
		Type:     InferType(number),
		Offset:   offset,
		Strategy: strategy,
	})
}

// lengthPrefixed looks for a length byte followed by an account number, then
// for a length-prefixed name within the next 20 bytes.
func (c *collector) lengthPrefixed(buf []byte) {
	for i := 0; i < len(buf)-100; i++ {
		n := int(buf[i])
		if n < 4 || n > 50 {
			continue
		}
		text, ok := asciiText(clamp(buf, i+1, n))
		num := strings.TrimSpace(text)
		if !ok || len(num) < 4 || !IsAccountNumber(num) {
			continue
		}
		names := clamp(buf, i+1+n, 100)
		for j := 0; j < min(20, len(names)-5); j++ {
			l := int(names[j])
			if l < 5 || l > 45 {
				continue
			}
			name, ok := asciiText(clamp(names, j+1, l))
			if ok && letters(name) >= 3 {
				c.add(num, strings.TrimSpace(name), i+1, StrategyLengthPrefixed)
				break
			}
		}
	}
}

// recordMarkers looks for 04 00 followed by four ASCII digits. The first
// plausible length byte 8 to 79 bytes later introduces the name, which may
// start up to four bytes after it.
func (c *collector) recordMarkers(buf []byte) {
	for i := 0; i < len(buf)-100; i++ {
		if buf[i] != 0x04 || buf[i+1] != 0x00 {
			continue
		}
		num := buf[i+2 : i+6]
		if !isDigits(num) || c.seen[string(num)] {
			continue
		}
		for j := 8; j < 80 && i+j < len(buf); j++ {
			l := int(buf[i+j])
			if l < 5 || l > 45 {
				continue
			}
			for off := 1; off <= 4; off++ {
				start := i + j + off
				if start+l > len(buf) {
					continue
				}
				name, ok := asciiText(buf[start : start+l])
				if ok && letters(name) >= 3 {
					c.add(string(num), strings.TrimSpace(name), i+2, StrategyRecordMarker)
					break
				}
			}
			break
		}
	}
}

// anchored finds each anchor name and takes the closest four-digit run
// before it as the account number. The name is the printable run starting
// at the anchor.
func (c *collector) anchored(buf []byte, anchors []string) {
	for _, anchor := range anchors {
		pat := []byte(anchor)
		if len(pat) == 0 {
			continue
		}
		for from := 0; from < len(buf); {
			idx := bytes.Index(buf[from:], pat)
			if idx < 0 {
				break
			}
			pos := from + idx
			if at := digitsOffset(buf, pos, anchorLookBehind); at >= 0 {
				if name := strings.TrimSpace(printableRun(buf, pos, anchorMaxName)); name != "" {
					c.add(string(buf[at:at+4]), name, at, StrategyAnchor)
				}
			}
			from = pos + 1
		}
	}
}

// asciiText drops non-ASCII bytes and reports whether the rest is printable.
func asciiText(b []byte) (string, bool) {
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x80 {
			continue
		}
		if c < 0x20 || c == 0x7F {
			return "", false
		}
		sb.WriteByte(c)
	}
	return sb.String(), true
}

func printableRun(buf []byte, pos, limit int) string {
	end := pos
	for end < len(buf) && end-pos < limit && buf[end] >= 0x20 && buf[end] < 0x7F {
		end++
	}
	return string(buf[pos:end])
}

func letters(s string) int {
	n := 0
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			n++
		}
	}
	return n
}

func clamp(b []byte, start, n int) []byte {
	if start >= len(b) {
		return nil
	}
	return b[start:min(start+n, len(b))]
}

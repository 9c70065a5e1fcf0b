// File: format.go
// Role: the line-record encoding/decoding shared by writer.go and reader.go.
package brainfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytewave/bytewave/bytegraph"
)

// formatFloat renders f rounded to 6 decimals, the round-trip tolerance
// the format allows.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// encodeSequence renders a pattern's node sequence as a quoted string: BLANK
// as "_", bytes >= 0x80 as "\xNN", and the two characters that would
// otherwise break the quoting ('"' and '\\') backslash-escaped.
func encodeSequence(seq []bytegraph.NodeID) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, id := range seq {
		switch {
		case id == bytegraph.Blank:
			b.WriteByte('_')
		case id >= 0x80:
			fmt.Fprintf(&b, "\\x%02X", byte(id))
		case id == '"' || id == '\\':
			b.WriteByte('\\')
			b.WriteByte(byte(id))
		default:
			b.WriteByte(byte(id))
		}
	}
	b.WriteByte('"')
	return b.String()
}

// decodeSequence parses the quoted form encodeSequence produces back into a
// node sequence.
func decodeSequence(s string) ([]bytegraph.NodeID, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return nil, fmt.Errorf("brainfile: malformed sequence %q", s)
	}
	inner := s[1 : len(s)-1]
	out := make([]bytegraph.NodeID, 0, len(inner))
	for i := 0; i < len(inner); {
		c := inner[i]
		switch {
		case c == '\\' && i+1 < len(inner) && (inner[i+1] == 'x' || inner[i+1] == 'X'):
			if i+4 > len(inner) {
				return nil, fmt.Errorf("brainfile: truncated hex escape in %q", s)
			}
			v, err := strconv.ParseUint(inner[i+2:i+4], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("brainfile: bad hex escape in %q: %w", s, err)
			}
			out = append(out, bytegraph.NodeID(v))
			i += 4
		case c == '\\' && i+1 < len(inner):
			out = append(out, bytegraph.NodeID(inner[i+1]))
			i += 2
		case c == '_':
			out = append(out, bytegraph.Blank)
			i++
		default:
			out = append(out, bytegraph.NodeID(c))
			i++
		}
	}
	return out, nil
}

// encodeNodeID renders a single node reference (used by the pred record) as
// a decimal integer, or "_" for bytegraph.Blank, matching the numeric style
// node/edge records already use for every other ID field.
func encodeNodeID(id bytegraph.NodeID) string {
	if id == bytegraph.Blank {
		return "_"
	}
	return strconv.Itoa(int(id))
}

func decodeNodeID(s string) (bytegraph.NodeID, error) {
	if s == "_" {
		return bytegraph.Blank, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("brainfile: bad node id %q: %w", s, err)
	}
	return bytegraph.NodeID(v), nil
}

// splitFields tokenizes a record line on spaces, treating a double-quoted
// region (escaped backslashes honored) as a single field even if it
// contains raw spaces — needed because a pattern's sequence can itself
// contain the space byte.
func splitFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			cur.WriteByte(c)
			inQuote = !inQuote
		case c == '\\' && inQuote && i+1 < len(line):
			cur.WriteByte(c)
			cur.WriteByte(line[i+1])
			i++
		case c == ' ' && !inQuote:
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}

// field splits a "key:value" token in two. ok is false if there is no colon.
func field(tok string) (key, value string, ok bool) {
	idx := strings.IndexByte(tok, ':')
	if idx < 0 {
		return "", "", false
	}
	return tok[:idx], tok[idx+1:], true
}

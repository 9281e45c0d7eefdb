package device

import (
	"strconv"
	"strings"

	"github.com/nkarlsen/lyngctl/internal/models"
	"github.com/nkarlsen/lyngctl/internal/protocol"
)

// Entry is one item of a discovered list (sources, focus positions,
// voicings, audio modes)
type Entry struct {
	Index int
	Name  string
}

// parseInt extracts the integer argument from a reply of the form
// PREFIX(n)
func parseInt(reply, prefix string) (int, error) {
	arg, err := parseArg(reply, prefix)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, &protocol.ProtocolError{Line: reply, Message: "argument is not an integer"}
	}
	return n, nil
}

// parseIndexName extracts index and quoted label from a reply of the
// form PREFIX(n)"name"
func parseIndexName(reply, prefix string) (int, string, error) {
	n, err := parseInt(reply, prefix)
	if err != nil {
		return 0, "", err
	}
	name := ""
	if i := strings.IndexByte(reply, '"'); i >= 0 {
		if j := strings.IndexByte(reply[i+1:], '"'); j >= 0 {
			name = reply[i+1 : i+1+j]
		}
	}
	return n, name, nil
}

// parseArg extracts the raw text between the parentheses of
// PREFIX(arg)
func parseArg(reply, prefix string) (string, error) {
	rest, ok := strings.CutPrefix(reply, prefix)
	if !ok || !strings.HasPrefix(rest, "(") {
		return "", &protocol.ProtocolError{Line: reply, Message: "expected " + prefix + "(...)"}
	}
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return "", &protocol.ProtocolError{Line: reply, Message: "unterminated argument"}
	}
	return rest[1:end], nil
}

// parseList converts discovery reply lines of the form PREFIX(n)"name"
// into entries, in the order the processor listed them. Lines that do
// not match are skipped; the processor intermixes echoes and unrelated
// chatter with list output.
func parseList(lines []string, prefix string) []Entry {
	var entries []Entry
	for _, line := range lines {
		idx, name, err := parseIndexName(line, prefix)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Index: idx, Name: name})
	}
	return entries
}

// parseDB extracts a volume-style argument and converts it to dB
func parseDB(reply, prefix string) (float64, error) {
	n, err := parseInt(reply, prefix)
	if err != nil {
		return 0, err
	}
	return models.ProtocolToDB(n), nil
}

// parseBool extracts a 0/1 argument
func parseBool(reply, prefix string) (bool, error) {
	n, err := parseInt(reply, prefix)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

package object

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signature identifies the author or committer of a commit.
type Signature struct {
	Name  string
	Email string
	When  int64  // unix seconds
	TZ    string // "+HHMM" or "-HHMM"
}

// NewSignature builds a Signature stamped with the current time in UTC.
func NewSignature(name, email string) Signature {
	return Signature{
		Name:  name,
		Email: email,
		When:  time.Now().Unix(),
		TZ:    "+0000",
	}
}

// String formats the signature as "Name <email> timestamp timezone".
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When, s.TZ)
}

// ParseSignature parses "Name <email> timestamp timezone". Fields are split
// from the right: names may contain spaces, so the email is located via the
// last <...> pair after peeling off timezone and timestamp.
func ParseSignature(input string) (Signature, error) {
	rest := strings.TrimSpace(input)

	tzIdx := strings.LastIndexByte(rest, ' ')
	if tzIdx < 0 {
		return Signature{}, fmt.Errorf("parse signature %q: missing timezone: %w", input, ErrDecode)
	}
	tz := rest[tzIdx+1:]
	rest = rest[:tzIdx]

	tsIdx := strings.LastIndexByte(rest, ' ')
	if tsIdx < 0 {
		return Signature{}, fmt.Errorf("parse signature %q: missing timestamp: %w", input, ErrDecode)
	}
	when, err := strconv.ParseInt(rest[tsIdx+1:], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("parse signature %q: bad timestamp: %w", input, ErrDecode)
	}
	rest = rest[:tsIdx]

	open := strings.LastIndexByte(rest, '<')
	close_ := strings.LastIndexByte(rest, '>')
	if open < 0 || close_ < 0 || open >= close_ {
		return Signature{}, fmt.Errorf("parse signature %q: malformed email: %w", input, ErrDecode)
	}

	return Signature{
		Name:  strings.TrimSpace(rest[:open]),
		Email: rest[open+1 : close_],
		When:  when,
		TZ:    tz,
	}, nil
}

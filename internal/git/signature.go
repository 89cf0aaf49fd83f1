package git

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Signature is an identity plus a timestamp, attached to commits and
// reflog entries. It is an ordinary owned value.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// NewSignature validates name and email and stamps them with when.
// Angle brackets and newlines are rejected because the engine stores
// signatures as "Name <email> seconds zone".
func NewSignature(name, email string, when time.Time) (*Signature, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, newError(CodeInvalidSpec, ClassInvalid, "signature name is empty")
	}
	for _, s := range []string{name, email} {
		if strings.ContainsAny(s, "<>\n") {
			return nil, newError(CodeInvalidSpec, ClassInvalid, "signature field %q contains '<', '>' or a newline", s)
		}
	}
	return &Signature{Name: name, Email: email, When: when}, nil
}

// NowSignature is NewSignature stamped with the current time.
func NowSignature(name, email string) (*Signature, error) {
	return NewSignature(name, email, time.Now())
}

// String renders the signature the way the engine stores it.
func (s *Signature) String() string {
	return fmt.Sprintf("%s <%s> %s", s.Name, s.Email, engineDate(s.When))
}

// engineDate formats t in the engine's internal "seconds ±hhmm" form.
func engineDate(t time.Time) string {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%d %c%02d%02d", t.Unix(), sign, offset/3600, (offset%3600)/60)
}

// authorEnv and committerEnv pass a signature to the engine.
func authorEnv(s *Signature) []string {
	if s == nil {
		return nil
	}
	return []string{
		"GIT_AUTHOR_NAME=" + s.Name,
		"GIT_AUTHOR_EMAIL=" + s.Email,
		"GIT_AUTHOR_DATE=" + engineDate(s.When),
	}
}

func committerEnv(s *Signature) []string {
	if s == nil {
		return nil
	}
	return []string{
		"GIT_COMMITTER_NAME=" + s.Name,
		"GIT_COMMITTER_EMAIL=" + s.Email,
		"GIT_COMMITTER_DATE=" + engineDate(s.When),
	}
}

var signatureZone = regexp.MustCompile(`^([+-])(\d{2})(\d{2})$`)

// parseSignature reads "Name <email> seconds ±hhmm" from a commit header.
// Only the angle brackets are required. A missing or unreadable time
// becomes the Unix epoch and a missing or unreadable zone becomes UTC.
func parseSignature(line string) (*Signature, error) {
	open := strings.IndexByte(line, '<')
	end := strings.LastIndexByte(line, '>')
	if open < 0 || end < open {
		return nil, fmt.Errorf("malformed signature %q", line)
	}
	sig := &Signature{
		Name:  strings.TrimSpace(line[:open]),
		Email: line[open+1 : end],
		When:  time.Unix(0, 0).UTC(),
	}

	fields := strings.Fields(line[end+1:])
	if len(fields) == 0 {
		return sig, nil
	}
	secs, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return sig, nil
	}
	sig.When = time.Unix(secs, 0).UTC()
	if len(fields) < 2 {
		return sig, nil
	}
	if m := signatureZone.FindStringSubmatch(fields[1]); m != nil {
		hours, _ := strconv.Atoi(m[2])
		mins, _ := strconv.Atoi(m[3])
		offset := hours*3600 + mins*60
		if m[1] == "-" {
			offset = -offset
		}
		sig.When = sig.When.In(time.FixedZone(m[0], offset))
	}
	return sig, nil
}

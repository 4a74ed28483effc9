package corpus

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

// TEINamespace is the namespace of utterance elements in session files.
const TEINamespace = "http://www.tei-c.org/ns/1.0"

// ErrNoSessionDate is returned when a session file carries no
// setting-scoped date element.
var ErrNoSessionDate = errors.New("no session date element found")

// ParseSession reads one session file, extracting the session date from
// the date element under the setting metadata element and every
// TEI-namespaced utterance in document order. The text of an utterance is
// the concatenation of all non-blank character data under it; whitespace
// padding between elements is dropped. Utterances by the same speaker are
// not merged.
func ParseSession(path string) (model.Session, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to open session file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only session file.
			_ = cerr
		}
	}()

	var session model.Session
	dateFound := false
	var stack []string

	decoder := xml.NewDecoder(file)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Session{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			if !dateFound && t.Name.Local == "date" && parent == "setting" {
				date, err := parseSessionDate(t)
				if err != nil {
					return model.Session{}, fmt.Errorf("%s: %w", path, err)
				}
				session.Date = date
				dateFound = true
			}
			if t.Name.Local == "u" && t.Name.Space == TEINamespace {
				utterance, err := readUtterance(decoder, t)
				if err != nil {
					return model.Session{}, fmt.Errorf("failed to parse %s: %w", path, err)
				}
				session.Utterances = append(session.Utterances, utterance)
				continue
			}
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !dateFound {
		return model.Session{}, fmt.Errorf("%s: %w", path, ErrNoSessionDate)
	}
	return session, nil
}

func parseSessionDate(elem xml.StartElement) (time.Time, error) {
	when := attrValue(elem, "when")
	if when == "" {
		return time.Time{}, fmt.Errorf("session date element has no when attribute")
	}
	date, err := time.Parse(model.DateLayout, when)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed session date %q: %w", when, err)
	}
	return date, nil
}

// readUtterance consumes tokens until the utterance's end element,
// concatenating character data. Character data directly following an end
// tag (element tails) and whitespace-only segments are dropped, matching
// the corpus convention that all speech text lives inside seg children.
func readUtterance(decoder *xml.Decoder, start xml.StartElement) (model.Utterance, error) {
	utterance := model.Utterance{Speaker: attrValue(start, "who")}

	var text strings.Builder
	depth := 1
	afterStart := true
	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			return model.Utterance{}, fmt.Errorf("unterminated utterance: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			afterStart = true
		case xml.EndElement:
			depth--
			afterStart = false
		case xml.CharData:
			if afterStart && strings.TrimSpace(string(t)) != "" {
				text.Write(t)
			}
		}
	}
	utterance.Text = text.String()
	return utterance, nil
}

func attrValue(elem xml.StartElement, name string) string {
	for _, attr := range elem.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// Package scraper crawls verb conjugation tables from conjugare.ro.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
)

// DefaultBaseURL is the conjugation site queried for each verb.
const DefaultBaseURL = "https://conjugare.ro"

// Page markers and tags of the conjugation markup.
const (
	verbNotFoundMarker = "Verbul nu a fost găsit."
	contentBoxClass    = "box_conj"
	formNameTag        = "b"
	verbFormTag        = "div"
	verbFormClass      = "cont_conj"
	emptyFormMarker    = "-"
)

// ErrVerbNotFound is returned when the site has no conjugation table for
// a verb. Callers skip the verb and move on.
var ErrVerbNotFound = errors.New("verb not found")

// Client fetches and parses conjugation pages.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a Client for the given base URL; an empty base URL
// selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
	}
}

// FetchConjugations fetches and parses the conjugation table for a verb.
// It returns ErrVerbNotFound when the site does not know the verb.
func (c *Client) FetchConjugations(ctx context.Context, verb string) ([]model.Conjugation, error) {
	pageURL := fmt.Sprintf("%s/romana.php?conjugare=%s", c.baseURL, url.QueryEscape(verb))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status for %s: %s", verb, resp.Status)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page for %s: %w", verb, err)
	}
	return ParsePage(verb, root)
}

// ParsePage extracts the conjugation rows from a parsed page. Each
// content box contributes one mood/tense name and its inflected forms;
// placeholder cells ("-") are skipped.
func ParsePage(verb string, root *html.Node) ([]model.Conjugation, error) {
	if containsText(root, verbNotFoundMarker) {
		return nil, fmt.Errorf("%s: %w", verb, ErrVerbNotFound)
	}

	var conjugations []model.Conjugation
	for _, box := range findContentBoxes(root) {
		mood, forms := parseContentBox(box)
		if mood == "" {
			continue
		}
		for i, form := range forms {
			conjugations = append(conjugations, model.Conjugation{
				Verb:     verb,
				Mood:     mood,
				Position: i,
				Text:     form,
			})
		}
	}
	return conjugations, nil
}

// parseContentBox reads one conjugation box: the form name from its b
// child, the inflected forms from its cont_conj div children.
func parseContentBox(box *html.Node) (string, []string) {
	var mood string
	var forms []string
	for child := box.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if isFormName(child) {
			mood = strings.TrimSpace(nodeText(child))
		}
		if isVerbForm(child) {
			text := strings.TrimSpace(nodeText(child))
			if text != emptyFormMarker {
				forms = append(forms, text)
			}
		}
	}
	return mood, forms
}

func isFormName(n *html.Node) bool {
	return strings.EqualFold(n.Data, formNameTag)
}

func isVerbForm(n *html.Node) bool {
	if !strings.EqualFold(n.Data, verbFormTag) {
		return false
	}
	return strings.Contains(strings.ToLower(attrValue(n, "class")), verbFormClass)
}

func findContentBoxes(root *html.Node) []*html.Node {
	var boxes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == verbFormTag && hasClassToken(n, contentBoxClass) {
			boxes = append(boxes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return boxes
}

func hasClassToken(n *html.Node, token string) bool {
	for _, field := range strings.Fields(attrValue(n, "class")) {
		if field == token {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// nodeText concatenates all text under a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func containsText(root *html.Node, marker string) bool {
	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.TextNode && strings.Contains(n.Data, marker) {
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

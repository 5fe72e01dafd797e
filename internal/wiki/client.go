// Package wiki is the encyclopedic sense resource: Wikipedia disambiguation
// pages and page summaries fetched through the MediaWiki APIs.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"github.com/mohammad-safakhou/wsd/config"
	"golang.org/x/net/html"
)

// ErrNotFound is returned for titles without an article.
var ErrNotFound = errors.New("page not found")

// Page is the subset of the REST page summary used for sense candidates.
type Page struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (p Page) URL() string { return p.ContentURLs.Desktop.Page }

func (p Page) IsDisambiguation() bool { return p.Type == "disambiguation" }

// Client talks to the Action API (page HTML) and the REST API (summaries).
type Client struct {
	http    *HTTPClient
	apiURL  string
	restURL string
	headers map[string]string
}

func NewClient(cfg config.WikiConfig) *Client {
	return &Client{
		http:    NewHTTPClient(cfg.Timeout, cfg.Retries, 0),
		apiURL:  cfg.APIURL,
		restURL: strings.TrimRight(cfg.RESTURL, "/"),
		headers: map[string]string{
			"User-Agent": cfg.UserAgent,
			"Accept":     "application/json",
		},
	}
}

// Summary fetches the summary of title, following redirects.
func (c *Client) Summary(ctx context.Context, title string) (Page, error) {
	endpoint := c.restURL + "/page/summary/" + url.PathEscape(pathTitle(title))
	var p Page
	if err := c.http.DoJSON(ctx, http.MethodGet, endpoint, c.headers, nil, &p); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return Page{}, fmt.Errorf("%w: %s", ErrNotFound, title)
		}
		return Page{}, err
	}
	return p, nil
}

type parseResponse struct {
	Parse struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// DisambiguationEntries lists the article titles linked from the list items of
// the disambiguation page title, in page order.
func (c *Client) DisambiguationEntries(ctx context.Context, title string) ([]string, error) {
	q := url.Values{}
	q.Set("action", "parse")
	q.Set("page", title)
	q.Set("prop", "text")
	q.Set("redirects", "1")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	var resp parseResponse
	if err := c.http.DoJSON(ctx, http.MethodGet, c.apiURL+"?"+q.Encode(), c.headers, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		if resp.Error.Code == "missingtitle" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
		}
		return nil, fmt.Errorf("parse %s: %s: %s", title, resp.Error.Code, resp.Error.Info)
	}
	self := title
	if resp.Parse.Title != "" {
		self = resp.Parse.Title
	}
	return ExtractEntries(resp.Parse.Text, self)
}

var (
	contentSel = cascadia.MustCompile(".mw-parser-output")
	itemSel    = cascadia.MustCompile("li")
	linkSel    = cascadia.MustCompile(`a[href^="/wiki/"]`)
	skipSel    = cascadia.MustCompile(".toc, .navbox, .reflist, .mw-references-wrap")
)

// ExtractEntries returns the first article link of every list item in the page
// body. Namespaced links, red links, links back to self and repeats are dropped.
func ExtractEntries(pageHTML, self string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}
	root := doc
	if n := cascadia.Query(doc, contentSel); n != nil {
		root = n
	}
	skipped := make(map[*html.Node]struct{})
	for _, n := range cascadia.QueryAll(root, skipSel) {
		skipped[n] = struct{}{}
	}

	selfKey := titleKey(self)
	seen := map[string]struct{}{selfKey: {}}
	entries := make([]string, 0)
	for _, li := range cascadia.QueryAll(root, itemSel) {
		if inside(li, skipped) {
			continue
		}
		title, ok := firstArticleLink(li)
		if !ok {
			continue
		}
		key := titleKey(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, title)
	}
	return entries, nil
}

func inside(n *html.Node, set map[*html.Node]struct{}) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}

func firstArticleLink(li *html.Node) (string, bool) {
	for _, a := range cascadia.QueryAll(li, linkSel) {
		// links of nested list items belong to those items
		if nestedItem(a, li) {
			continue
		}
		if hasClass(a, "new") {
			return "", false
		}
		href := attr(a, "href")
		raw := strings.TrimPrefix(href, "/wiki/")
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}
		name, err := url.PathUnescape(raw)
		if err != nil || name == "" {
			continue
		}
		if strings.Contains(name, ":") {
			continue
		}
		if t := attr(a, "title"); t != "" {
			return t, true
		}
		return strings.ReplaceAll(name, "_", " "), true
	}
	return "", false
}

func nestedItem(n, li *html.Node) bool {
	for p := n.Parent; p != nil && p != li; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "li" {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// titleKey compares titles the way MediaWiki does: underscores are spaces and
// the first letter is case-insensitive.
func titleKey(t string) string {
	return canonicalTitle(strings.ReplaceAll(strings.TrimSpace(t), "_", " "))
}

// canonicalTitle upper-cases the first letter, as MediaWiki does for article titles.
func canonicalTitle(t string) string {
	r, size := utf8.DecodeRuneInString(t)
	if r == utf8.RuneError {
		return t
	}
	return string(unicode.ToUpper(r)) + t[size:]
}

func pathTitle(t string) string {
	return strings.ReplaceAll(canonicalTitle(strings.TrimSpace(t)), " ", "_")
}

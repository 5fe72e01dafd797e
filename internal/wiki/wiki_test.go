package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mohammad-safakhou/wsd/config"
	"github.com/mohammad-safakhou/wsd/internal/lesk"
	"github.com/mohammad-safakhou/wsd/internal/textnorm"
)

const bankPage = `<div class="mw-content-ltr mw-parser-output" lang="en" dir="ltr">
<p><b>Bank</b> may refer to:</p>
<div class="toc"><ul><li><a href="#Geography">Geography</a></li></ul></div>
<ul>
<li><a href="/wiki/Bank_(geography)" title="Bank (geography)">Bank (geography)</a>, land alongside a body of water</li>
<li><a href="/wiki/Bank" title="Bank">Bank</a>, a financial institution</li>
<li><a href="/wiki/Bank_(broken)" title="Bank (broken)">Bank (broken)</a></li>
<li><a href="/w/index.php?title=Bank_(missing)&amp;action=edit&amp;redlink=1" class="new" title="Bank (missing) (page does not exist)">Bank (missing)</a></li>
<li><a href="/wiki/File:Bank.jpg">image</a> <a href="/wiki/Bank_(geography)" title="Bank (geography)">again</a></li>
<li><a href="/wiki/Bank_(disambiguation)" title="Bank (disambiguation)">self</a></li>
<li><a href="/wiki/Bank_(aviation)" title="Bank (aviation)">Bank (aviation)</a>, the tilt of an aircraft
  <ul><li><a href="/wiki/Slip_(aerodynamics)" title="Slip (aerodynamics)">Slip</a></li></ul></li>
</ul>
<div class="navbox"><ul><li><a href="/wiki/Finance" title="Finance">Finance</a></li></ul></div>
</div>`

func summary(typ, title, extract string) Page {
	var p Page
	p.Type, p.Title, p.Extract = typ, title, extract
	p.ContentURLs.Desktop.Page = "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(title, " ", "_")
	return p
}

type fakeWiki struct {
	srv   *httptest.Server
	mu    sync.Mutex
	hits  map[string]int
	pages map[string]Page
}

func newFakeWiki(t *testing.T) *fakeWiki {
	t.Helper()
	f := &fakeWiki{
		hits: make(map[string]int),
		pages: map[string]Page{
			"Bank_(disambiguation)": summary("disambiguation", "Bank (disambiguation)", "Bank may refer to:"),
			"Bank_(geography)":      summary("standard", "Bank (geography)", "In geography, a bank is the land alongside a body of water such as a river."),
			"Bank":                  summary("standard", "Bank", "A bank is a financial institution that accepts deposits from the public."),
			"Bank_(aviation)":       summary("standard", "Bank (aviation)", "Banking is the tilt of an aircraft during a turn."),
			"Photosynthesis":        summary("standard", "Photosynthesis", "Photosynthesis is a process used by plants to convert light into energy."),
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/page/summary/", func(w http.ResponseWriter, r *http.Request) {
		title := strings.TrimPrefix(r.URL.Path, "/rest/page/summary/")
		f.hit(title)
		if title == "Bank_(broken)" {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
			return
		}
		p, ok := f.pages[title]
		if !ok {
			http.Error(w, `{"type":"not_found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		f.hit("parse:" + page)
		resp := map[string]any{}
		if page == "Bank (disambiguation)" {
			resp["parse"] = map[string]string{"title": page, "text": bankPage}
		} else {
			resp["error"] = map[string]string{"code": "missingtitle", "info": "The page you specified doesn't exist."}
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeWiki) hit(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[key]++
}

func (f *fakeWiki) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeWiki) client(retries int) *Client {
	return NewClient(config.WikiConfig{
		APIURL:    f.srv.URL + "/w/api.php",
		RESTURL:   f.srv.URL + "/rest/",
		UserAgent: "wsd-test",
		Timeout:   2 * time.Second,
		Retries:   retries,
	})
}

func TestExtractEntries(t *testing.T) {
	got, err := ExtractEntries(bankPage, "Bank_(disambiguation)")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []string{"Bank (geography)", "Bank", "Bank (broken)", "Bank (aviation)", "Slip (aerodynamics)"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("entries = %q, want %q", got, want)
	}
}

func TestExtractEntriesWithoutWrapper(t *testing.T) {
	got, err := ExtractEntries(`<ul><li><a href="/wiki/Mercury_(planet)" title="Mercury (planet)">x</a></li></ul>`, "Mercury")
	if err != nil || len(got) != 1 || got[0] != "Mercury (planet)" {
		t.Fatalf("entries = %v, err %v", got, err)
	}
	got, _ = ExtractEntries(`<p>no list here</p>`, "Mercury")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestSummaryNotFound(t *testing.T) {
	f := newFakeWiki(t)
	_, err := f.client(2).Summary(context.Background(), "qwzx")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := f.count("Qwzx"); n != 1 {
		t.Fatalf("404 must not be retried, got %d hits", n)
	}
}

func TestSummaryRetriesServerErrors(t *testing.T) {
	f := newFakeWiki(t)
	c := f.client(2)
	c.http.backoff = time.Millisecond
	_, err := c.Summary(context.Background(), "Bank (broken)")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 StatusError, got %v", err)
	}
	if n := f.count("Bank_(broken)"); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestAdapterDisambiguationPage(t *testing.T) {
	f := newFakeWiki(t)
	a := NewAdapter(f.client(0), 0)
	set, err := a.Candidates(context.Background(), "bank", "")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	var ids []string
	for _, c := range set.Candidates {
		ids = append(ids, c.ID)
	}
	if strings.Join(ids, "|") != "Bank (geography)|Bank|Bank (aviation)" {
		t.Fatalf("candidates = %v", ids)
	}
	// Bank (broken) fails with 500, Slip (aerodynamics) has no summary
	if set.Skipped != 2 {
		t.Fatalf("skipped = %d", set.Skipped)
	}
	if set.Candidates[0].URL != "https://en.wikipedia.org/wiki/Bank_(geography)" {
		t.Fatalf("url = %q", set.Candidates[0].URL)
	}
}

func TestAdapterCap(t *testing.T) {
	f := newFakeWiki(t)
	set, err := NewAdapter(f.client(0), 2).Candidates(context.Background(), "bank", "")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(set.Candidates) != 2 || set.Skipped != 0 {
		t.Fatalf("unexpected set %+v", set)
	}
}

func TestAdapterPlainArticleAndMissing(t *testing.T) {
	f := newFakeWiki(t)
	a := NewAdapter(f.client(0), 0)
	set, err := a.Candidates(context.Background(), "photosynthesis", "")
	if err != nil || len(set.Candidates) != 1 || set.Candidates[0].ID != "Photosynthesis" {
		t.Fatalf("unexpected set %+v, err %v", set, err)
	}
	set, err = a.Candidates(context.Background(), "qwzx", "")
	if err != nil {
		t.Fatalf("missing word: %v", err)
	}
	if set.Candidates == nil || len(set.Candidates) != 0 {
		t.Fatalf("expected empty candidates, got %#v", set.Candidates)
	}
}

func TestAdapterUnavailable(t *testing.T) {
	f := newFakeWiki(t)
	c := f.client(0)
	f.srv.Close()
	_, err := NewAdapter(c, 0).Candidates(context.Background(), "bank", "")
	if !errors.Is(err, lesk.ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestLeskOverWikipedia(t *testing.T) {
	f := newFakeWiki(t)
	d := lesk.NewDisambiguator(NewAdapter(f.client(0), 0), textnorm.New(nil))
	res, err := d.Disambiguate(context.Background(), lesk.Request{
		Sentence: "He sat on the bank of the river watching the water",
		Target:   "bank",
	})
	if err != nil {
		t.Fatalf("disambiguate: %v", err)
	}
	if !res.Found() || res.Best.ID != "Bank (geography)" {
		t.Fatalf("best = %+v", res.Best)
	}
	if strings.Join(res.Best.Overlaps, ",") != "river,water" {
		t.Fatalf("overlaps = %v", res.Best.Overlaps)
	}
	if res.Skipped != 2 {
		t.Fatalf("skipped = %d", res.Skipped)
	}
	if res.Best.SemanticScore != nil {
		t.Fatalf("wikipedia candidates carry no semantic score")
	}
}

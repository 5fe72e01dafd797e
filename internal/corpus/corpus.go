// Package corpus reads the AQUAINT newswire collection: a directory tree of SGML
// files, each holding one or more <DOC> elements.
package corpus

import (
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is one <DOC> of a corpus file.
type Document struct {
	File  string `json:"file"`
	DocID string `json:"doc_id"`
	Text  string `json:"-"`
}

// Source is a corpus rooted at a directory.
type Source struct {
	root string
}

func NewSource(root string) *Source { return &Source{root: root} }

func (s *Source) Root() string { return s.root }

// Files returns up to limit corpus files as slash-separated paths relative to
// the root, in lexicographic order. Hidden files and directories are skipped.
func (s *Source) Files(limit int) ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != s.root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", s.root, err)
	}
	sort.Strings(files)
	if limit >= 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

// Read parses the documents of one file. A file without <DOC> markup is a
// single document identified by its path. Gzipped files are decompressed.
func (s *Source) Read(rel string) ([]Document, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(rel, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		defer gz.Close()
		r = gz
	}
	docs, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	for i := range docs {
		docs[i].File = rel
		if docs[i].DocID == "" {
			docs[i].DocID = rel
		}
	}
	return docs, nil
}

var (
	docSel   = cascadia.MustCompile("doc")
	docnoSel = cascadia.MustCompile("docno")
	textSel  = cascadia.MustCompile("text")
	bodySel  = cascadia.MustCompile("body")
)

// Parse splits SGML newswire markup into documents. The text of a <DOC> is the
// content of its <TEXT> elements, or of the whole element when it has none.
// Entities such as &AMP; are decoded.
func Parse(r io.Reader) ([]Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	docs := cascadia.QueryAll(root, docSel)
	if len(docs) == 0 {
		body := cascadia.Query(root, bodySel)
		if body == nil {
			body = root
		}
		return []Document{{Text: collapse(textContent(body))}}, nil
	}
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		var doc Document
		if n := cascadia.Query(d, docnoSel); n != nil {
			doc.DocID = strings.TrimSpace(textContent(n))
		}
		texts := cascadia.QueryAll(d, textSel)
		if len(texts) == 0 {
			doc.Text = collapse(textContent(d))
		} else {
			parts := make([]string, 0, len(texts))
			for _, t := range texts {
				parts = append(parts, textContent(t))
			}
			doc.Text = collapse(strings.Join(parts, " "))
		}
		out = append(out, doc)
	}
	return out, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package posts строит индекс markdown-постов для /posts.json:
// frontmatter каждого файла плюс slug, число слов и время чтения.
package posts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pribylovaa/blog-engagement/internal/config"
	"github.com/pribylovaa/blog-engagement/internal/pkg/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

const defaultWPM = 200

// Entry — элемент индекса: все ключи frontmatter + slug, wordCount, readingTimeMinutes.
type Entry map[string]any

// Slug возвращает slug записи.
func (e Entry) Slug() string {
	s, _ := e["slug"].(string)
	return s
}

// Index читает каталог постов на каждый вызов List (без кэша в процессе).
type Index struct {
	dir    string
	wpm    int
	md     goldmark.Markdown
	strict *bluemonday.Policy
}

// New создаёт индекс по настройкам cfg. Пустой cfg.Dir — индекс всегда пуст.
func New(cfg config.PostsConfig) *Index {
	wpm := cfg.WordsPerMinute
	if wpm <= 0 {
		wpm = defaultWPM
	}

	return &Index{
		dir:    cfg.Dir,
		wpm:    wpm,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		strict: bluemonday.StrictPolicy(),
	}
}

// List возвращает записи всех *.md/*.mdx каталога, новые сверху (по date из frontmatter).
// Файлы с битым frontmatter пропускаются с предупреждением.
func (i *Index) List(ctx context.Context) ([]Entry, error) {
	const op = "posts/index/List"

	out := []Entry{}
	if i.dir == "" {
		return out, nil
	}

	lg := log.From(ctx).With("op", op, "dir", i.dir)

	files, err := os.ReadDir(i.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			lg.Warn("posts dir does not exist")
			return out, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if f.IsDir() {
			continue
		}

		slug, ok := slugOf(f.Name())
		if !ok {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(i.dir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: read %s: %w", op, f.Name(), err)
		}

		entry, err := i.Parse(slug, raw)
		if err != nil {
			lg.Warn("skip post with broken frontmatter", "file", f.Name(), "err", err)
			continue
		}

		out = append(out, entry)
	}

	sortByDateDesc(out)
	return out, nil
}

// Parse строит запись индекса из содержимого файла.
func (i *Index) Parse(slug string, raw []byte) (Entry, error) {
	front, body := splitFrontmatter(raw)

	entry := Entry{}
	if len(front) > 0 {
		if err := yaml.Unmarshal(front, &entry); err != nil {
			return nil, fmt.Errorf("frontmatter: %w", err)
		}
	}

	words := i.CountWords(body)
	entry["slug"] = slug
	entry["wordCount"] = words
	entry["readingTimeMinutes"] = ReadingTime(words, i.wpm)

	return entry, nil
}

// CountWords считает слова в markdown: текст абзацев, заголовков, списков,
// таблиц и подписей ссылок. Код (блоки и inline) и изображения не считаются,
// из HTML-блоков учитывается только текст без тегов.
func (i *Index) CountWords(src []byte) int {
	doc := i.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if n.Type() == ast.TypeBlock {
			buf.WriteByte(' ')
		}

		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan, *ast.Image, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			var html bytes.Buffer
			lines := node.Lines()
			for j := 0; j < lines.Len(); j++ {
				seg := lines.At(j)
				html.Write(seg.Value(src))
			}
			if node.HasClosure() {
				html.Write(node.ClosureLine.Value(src))
			}
			buf.WriteByte(' ')
			buf.Write(i.strict.SanitizeBytes(html.Bytes()))
			buf.WriteByte(' ')
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		}

		return ast.WalkContinue, nil
	})

	return len(strings.Fields(buf.String()))
}

// ReadingTime — минуты чтения: ceil(words/wpm), минимум 1 для непустого текста.
func ReadingTime(words, wpm int) int {
	if words <= 0 {
		return 0
	}

	if wpm <= 0 {
		wpm = defaultWPM
	}

	return int(math.Max(1, math.Ceil(float64(words)/float64(wpm))))
}

func slugOf(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".md" && ext != ".mdx" {
		return "", false
	}

	return strings.TrimSuffix(name, filepath.Ext(name)), true
}

// splitFrontmatter отделяет YAML между ведущими строками "---" от тела.
// Без закрывающего "---" весь файл считается телом.
func splitFrontmatter(raw []byte) (front, body []byte) {
	src := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(src, []byte("---\n")) {
		return nil, src
	}

	rest := src[len("---\n"):]

	if bytes.HasPrefix(rest, []byte("---\n")) {
		return nil, rest[len("---\n"):]
	}

	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")], nil
		}

		return nil, src
	}

	return rest[:end], rest[end+len("\n---\n"):]
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// dateOf разбирает date из frontmatter; неизвестный формат — нулевое время.
func dateOf(e Entry) time.Time {
	switch v := e["date"].(type) {
	case time.Time:
		return v
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}

	return time.Time{}
}

// sortByDateDesc — новые сверху, без даты в конце, при равенстве порядок slug.
func sortByDateDesc(entries []Entry) {
	sort.SliceStable(entries, func(a, b int) bool {
		da, db := dateOf(entries[a]), dateOf(entries[b])
		if !da.Equal(db) {
			return da.After(db)
		}

		return entries[a].Slug() < entries[b].Slug()
	})
}

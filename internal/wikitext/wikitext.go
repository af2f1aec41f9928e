// Package wikitext разбирает MediaWiki-разметку ровно настолько, насколько
// это нужно классификатору: списки верхнего уровня и их пункты.
package wikitext

import (
	"regexp"
	"strings"
)

var commentRe = regexp.MustCompile(`(?s)<!--.*?(-->|$)`)

// Item - пункт списка первого уровня. Вложенные строки (** / *# ...) лежат в Nested.
type Item struct {
	Text   string
	Nested []string
}

// List - блок подряд идущих строк списка с одним и тем же типом маркера
type List struct {
	Marker byte
	Items  []Item
}

func (l List) Len() int {
	return len(l.Items)
}

type Document struct {
	lists []List
}

// Lists возвращает блоки списков в порядке появления в тексте
func (d *Document) Lists() []List {
	if d == nil {
		return nil
	}
	return d.lists
}

// Parse никогда не возвращает ошибку: любая строка, не похожая на пункт, просто закрывает текущий блок.
func Parse(raw string) *Document {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = stripComments(raw)

	doc := &Document{}
	var current *List

	flush := func() {
		if current != nil {
			doc.lists = append(doc.lists, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		prefix := markerPrefix(line)
		if prefix == "" {
			flush()
			continue
		}

		kind := markerKind(prefix[0])
		if current != nil && markerKind(current.Marker) != kind {
			flush()
		}

		text := strings.TrimSpace(line[len(prefix):])

		if len(prefix) == 1 {
			if current == nil {
				current = &List{Marker: prefix[0]}
			}
			current.Items = append(current.Items, Item{Text: text})
			continue
		}

		// Вложенная строка без родителя открывает блок, но пунктом не считается
		if current == nil {
			current = &List{Marker: prefix[0]}
		}
		if n := len(current.Items); n > 0 {
			current.Items[n-1].Nested = append(current.Items[n-1].Nested, prefix+" "+text)
		}
	}
	flush()

	return doc
}

func markerPrefix(line string) string {
	i := 0
	for i < len(line) && isMarker(line[i]) {
		i++
	}
	return line[:i]
}

func isMarker(c byte) bool {
	return c == '*' || c == '#' || c == ':' || c == ';'
}

// ':' и ';' - один список определений
func markerKind(c byte) byte {
	if c == ';' {
		return ':'
	}
	return c
}

// stripComments вырезает HTML-комментарии, сохраняя переводы строк внутри них
func stripComments(raw string) string {
	return commentRe.ReplaceAllStringFunc(raw, func(c string) string {
		return strings.Repeat("\n", strings.Count(c, "\n"))
	})
}

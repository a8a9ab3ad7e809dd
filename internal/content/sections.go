// Package content turns health tip articles written in a small markdown subset into
// ordered heading, paragraph and list sections.
//
// Nested emphasis, links, code blocks and ordered lists are not supported: their
// markers are either stripped or kept as plain paragraph text.
package content

import (
	"regexp"
	"strings"
)

type SectionKind string

const (
	SectionHeading   SectionKind = "heading"
	SectionParagraph SectionKind = "paragraph"
	SectionList      SectionKind = "list"
)

const maxHeadingLevel = 6

// Section is one block of an article. Headings use Level and Content; paragraphs
// and lists keep one entry in Items per source line.
type Section struct {
	Kind    SectionKind `json:"kind"`
	Level   int         `json:"level,omitempty"`
	Content string      `json:"content,omitempty"`
	Items   []string    `json:"items,omitempty"`
}

var (
	boldPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern     = regexp.MustCompile(`\*(.+?)\*`)
	underscorePattern = regexp.MustCompile(`_(.+?)_`)
	strayMarkers      = strings.NewReplacer("#", "", "*", "", "_", "")
)

// StripEmphasis removes bold, italic and underscore markers and any stray '#', '*'
// or '_' characters, keeping the inner text.
func StripEmphasis(text string) string {
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = underscorePattern.ReplaceAllString(text, "$1")
	return strings.TrimSpace(strayMarkers.Replace(text))
}

// Sectionize scans raw line by line in a single pass.
func Sectionize(raw string) []Section {
	sections := make([]Section, 0)
	var current *Section

	flush := func() {
		if current != nil && len(current.Items) > 0 {
			sections = append(sections, *current)
		}
		current = nil
	}
	appendItem := func(kind SectionKind, item string) {
		if current != nil && current.Kind != kind {
			flush()
		}
		if current == nil {
			current = &Section{Kind: kind, Items: []string{}}
		}
		if item != "" {
			current.Items = append(current.Items, item)
		}
	}

	for _, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(rawLine, "\r"))
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#"):
			flush()
			level := len(line) - len(strings.TrimLeft(line, "#"))
			if level > maxHeadingLevel {
				level = maxHeadingLevel
			}
			if heading := StripEmphasis(strings.TrimLeft(line, "#")); heading != "" {
				sections = append(sections, Section{Kind: SectionHeading, Level: level, Content: heading})
			}
		case strings.HasPrefix(line, "* "):
			appendItem(SectionList, StripEmphasis(line[2:]))
		default:
			appendItem(SectionParagraph, StripEmphasis(line))
		}
	}
	flush()

	return sections
}

// Flatten renders sections back into the markdown subset Sectionize reads.
func Flatten(sections []Section) string {
	blocks := make([]string, 0, len(sections))
	for _, section := range sections {
		switch section.Kind {
		case SectionHeading:
			level := section.Level
			if level < 1 {
				level = 1
			}
			blocks = append(blocks, strings.Repeat("#", level)+" "+section.Content)
		case SectionParagraph:
			blocks = append(blocks, strings.Join(section.Items, "\n"))
		case SectionList:
			lines := make([]string, 0, len(section.Items))
			for _, item := range section.Items {
				lines = append(lines, "* "+item)
			}
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// PlainText joins the text of every section, one line per heading or item.
func PlainText(sections []Section) string {
	lines := make([]string, 0)
	for _, section := range sections {
		if section.Kind == SectionHeading {
			lines = append(lines, section.Content)
			continue
		}
		lines = append(lines, section.Items...)
	}
	return strings.Join(lines, "\n")
}

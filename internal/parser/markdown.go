// Package parser reads species documents: Markdown with YAML frontmatter.
// Frontmatter keys keep their declared order so fields render in the order
// the author wrote them.
package parser

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Shadojus/amorph/internal/models"
	"gopkg.in/yaml.v3"
)

// MarkdownDoc represents a parsed Markdown document.
type MarkdownDoc struct {
	// Frontmatter entries in declaration order.
	Frontmatter []models.Field

	// Title extracted from frontmatter or the first h1
	Title string

	// Main content (after frontmatter)
	Content string

	// Intro is the text before the first heading.
	Intro string

	// Structured content by heading
	Sections []Section
}

// Section represents a heading and its content.
type Section struct {
	Level   int    // 1-6 for h1-h6
	Heading string // The heading text
	Path    string // Full path like "## Ecology > ### Habitat"
	Content string // Content under this heading
	Start   int    // Line number where section starts
	End     int    // Line number where section ends
}

var (
	h1Regex      = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	headingRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
)

// ParseMarkdown parses a Markdown document into structured form. Malformed
// frontmatter is an error: a species file without its fields is useless.
func ParseMarkdown(content string) (*MarkdownDoc, error) {
	doc := &MarkdownDoc{}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	remaining := content
	if strings.HasPrefix(content, "---\n") {
		endIdx := strings.Index(content[4:], "\n---")
		if endIdx >= 0 {
			frontmatterYAML := content[4 : 4+endIdx]
			remaining = strings.TrimPrefix(content[4+endIdx+4:], "\n")

			fields, err := decodeFrontmatter([]byte(frontmatterYAML))
			if err != nil {
				return nil, err
			}
			doc.Frontmatter = fields
		}
	}

	doc.Content = remaining
	doc.Title = extractTitle(doc.Frontmatter, remaining)
	doc.Intro, doc.Sections = parseSections(remaining)

	return doc, nil
}

// Get returns a frontmatter value.
func (d *MarkdownDoc) Get(key string) (any, bool) {
	for _, f := range d.Frontmatter {
		if f.Name == key {
			return f.Value, true
		}
	}
	return nil, false
}

// GetString extracts a string from frontmatter.
func (d *MarkdownDoc) GetString(key string) string {
	v, _ := d.Get(key)
	s, _ := v.(string)
	return s
}

// GetStringSlice extracts a string slice from frontmatter. A single string
// is returned as a one-element slice.
func (d *MarkdownDoc) GetStringSlice(key string) []string {
	v, _ := d.Get(key)
	switch x := v.(type) {
	case []any:
		result := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case string:
		if x != "" {
			return []string{x}
		}
	}
	return nil
}

func extractTitle(fm []models.Field, content string) string {
	for _, key := range []string{"name", "title"} {
		for _, f := range fm {
			if f.Name == key {
				if s, ok := f.Value.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	if match := h1Regex.FindStringSubmatch(content); len(match) > 1 {
		return strings.TrimSpace(match[1])
	}
	return ""
}

// parseSections splits content at headings. Text before the first heading
// is returned as intro.
func parseSections(content string) (string, []Section) {
	var sections []Section
	var intro strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	var currentPath []string
	var currentLevels []int

	var currentSection *Section
	var contentBuilder strings.Builder

	flushSection := func(endLine int) {
		if currentSection != nil {
			currentSection.Content = strings.TrimSpace(contentBuilder.String())
			currentSection.End = endLine
			sections = append(sections, *currentSection)
			contentBuilder.Reset()
		}
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if match := headingRegex.FindStringSubmatch(line); len(match) > 0 {
			flushSection(lineNum - 1)

			level := len(match[1])
			heading := strings.TrimSpace(match[2])

			for len(currentLevels) > 0 && currentLevels[len(currentLevels)-1] >= level {
				currentPath = currentPath[:len(currentPath)-1]
				currentLevels = currentLevels[:len(currentLevels)-1]
			}
			currentPath = append(currentPath, match[1]+" "+heading)
			currentLevels = append(currentLevels, level)

			currentSection = &Section{
				Level:   level,
				Heading: heading,
				Path:    strings.Join(currentPath, " > "),
				Start:   lineNum,
			}
		} else if currentSection != nil {
			contentBuilder.WriteString(line)
			contentBuilder.WriteString("\n")
		} else {
			intro.WriteString(line)
			intro.WriteString("\n")
		}
	}

	flushSection(lineNum)

	return strings.TrimSpace(intro.String()), sections
}

// decodeFrontmatter decodes a YAML mapping into ordered fields. Values take
// the shapes JSON decoding would produce: numbers are float64, mappings are
// map[string]any.
func decodeFrontmatter(data []byte) ([]models.Field, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse frontmatter: expected a mapping, got %s", kindName(node.Kind))
	}
	fields := make([]models.Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		v, err := nodeValue(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("parse frontmatter %q: %w", node.Content[i].Value, err)
		}
		fields = append(fields, models.Field{Name: node.Content[i].Value, Value: v})
	}
	return fields, nil
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	case yaml.ScalarNode:
		return scalarValue(n)
	}
	return nil, fmt.Errorf("unsupported node %s", kindName(n.Kind))
}

func scalarValue(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			// Out-of-range integers stay textual.
			return n.Value, nil
		}
		return f, nil
	}
	// Timestamps and everything else keep their literal text.
	return n.Value, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "kind " + strconv.Itoa(int(k))
}

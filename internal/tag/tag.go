package tag

import (
	"fmt"
	"strings"

	"github.com/viant/parsly"
)

// Tag represents an xml like tag embedded in a text, e.g.
//
//	<item name="comment" type="string">approved</item>
//	<model version="1.0.0" event="20"/>
type Tag struct {
	Name       string
	Attributes map[string]string
	Content    string
	SelfClosed bool
	Start      int
	End        int
}

// Attribute returns an attribute value, falling back to the content of a child tag with the same name
func (t *Tag) Attribute(name string) string {
	if value, ok := t.Attributes[strings.ToLower(name)]; ok {
		return value
	}
	if t.SelfClosed {
		return ""
	}
	children, err := Find(t.Content, name)
	if err != nil || len(children) == 0 {
		return ""
	}
	return strings.TrimSpace(children[0].Content)
}

// HasAttribute returns true if the attribute or child tag is defined
func (t *Tag) HasAttribute(name string) bool {
	if _, ok := t.Attributes[strings.ToLower(name)]; ok {
		return true
	}
	if t.SelfClosed {
		return false
	}
	children, _ := Find(t.Content, name)
	return len(children) > 0
}

// Find returns all tags with the supplied name, names are case-insensitive.
// A tag that is not self-closed and has no matching close tag is an error.
func Find(text, name string) ([]*Tag, error) {
	lowerText := strings.ToLower(text)
	open := "<" + strings.ToLower(name)
	var ret []*Tag
	for offset := 0; offset < len(text); {
		index := strings.Index(lowerText[offset:], open)
		if index == -1 {
			break
		}
		start := offset + index
		end := start + len(open)
		if end < len(text) && isNameByte(text[end]) {
			offset = end
			continue
		}
		tag, next, err := parse(text, lowerText, start, end)
		if err != nil {
			return nil, err
		}
		tag.Name = name
		tag.Start, tag.End = start, next
		ret = append(ret, tag)
		offset = next
	}
	return ret, nil
}

// Replace replaces every tag with the supplied name by the text returned by fn
func Replace(text, name string, fn func(tag *Tag) (string, error)) (string, error) {
	tags, err := Find(text, name)
	if err != nil || len(tags) == 0 {
		return text, err
	}
	var builder strings.Builder
	offset := 0
	for _, tag := range tags {
		replacement, err := fn(tag)
		if err != nil {
			return "", err
		}
		builder.WriteString(text[offset:tag.Start])
		builder.WriteString(replacement)
		offset = tag.End
	}
	builder.WriteString(text[offset:])
	return builder.String(), nil
}

func parse(text, lowerText string, start, pos int) (*Tag, int, error) {
	cursor := parsly.NewCursor("", []byte(text), 0)
	cursor.Pos = pos
	tag := &Tag{Attributes: map[string]string{}}
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, selfCloseToken, closeToken, nameToken)
		switch matched.Code {
		case selfCloseCode:
			tag.SelfClosed = true
			return tag, cursor.Pos, nil
		case closeCode:
			return closeTag(tag, text, lowerText, start, cursor.Pos)
		case nameCode:
			attribute := strings.ToLower(matched.Text(cursor))
			if cursor.MatchAfterOptional(whitespaceToken, assignToken).Code != assignCode {
				tag.Attributes[attribute] = ""
				continue
			}
			value := cursor.MatchAfterOptional(whitespaceToken, quotedToken)
			if value.Code != quotedCode {
				return nil, 0, fmt.Errorf("invalid tag at %d: %w", start, cursor.NewError(quotedToken))
			}
			quoted := value.Text(cursor)
			tag.Attributes[attribute] = quoted[1 : len(quoted)-1]
		case parsly.EOF:
			return nil, 0, fmt.Errorf("invalid tag at %d: unexpected end of text", start)
		default:
			return nil, 0, fmt.Errorf("invalid tag at %d: %w", start, cursor.NewError(nameToken, closeToken, selfCloseToken))
		}
	}
}

func closeTag(tag *Tag, text, lowerText string, start, pos int) (*Tag, int, error) {
	name := lowerText[start+1 : start+1+nameLength(lowerText[start+1:])]
	closing := "</" + name
	index := strings.Index(lowerText[pos:], closing)
	if index == -1 {
		return nil, 0, fmt.Errorf("invalid tag at %d: missing closing tag </%s>", start, name)
	}
	end := pos + index
	tag.Content = text[pos:end]
	next := end + len(closing)
	closeIndex := strings.IndexByte(text[next:], '>')
	if closeIndex == -1 {
		return nil, 0, fmt.Errorf("invalid tag at %d: unterminated closing tag </%s", start, name)
	}
	return tag, next + closeIndex + 1, nil
}

func nameLength(text string) int {
	for i := 0; i < len(text); i++ {
		if !isNameByte(text[i]) {
			return i
		}
	}
	return len(text)
}

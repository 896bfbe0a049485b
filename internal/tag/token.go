package tag

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceCode = iota + 1
	nameCode
	assignCode
	quotedCode
	selfCloseCode
	closeCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	nameToken       = parsly.NewToken(nameCode, "Name", &nameMatcher{})
	assignToken     = parsly.NewToken(assignCode, "=", matcher.NewByte('='))
	quotedToken     = parsly.NewToken(quotedCode, "Quoted", &quotedMatcher{})
	selfCloseToken  = parsly.NewToken(selfCloseCode, "/>", matcher.NewFragment("/>"))
	closeToken      = parsly.NewToken(closeCode, ">", matcher.NewByte('>'))
)

// nameMatcher matches tag and attribute names, e.g. item, $file, mail.subject
type nameMatcher struct{}

func (m *nameMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if !isNameByte(cursor.Input[i]) {
			break
		}
		matched++
	}
	return matched
}

// quotedMatcher matches a single or double quoted value including quotes
type quotedMatcher struct{}

func (m *quotedMatcher) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize {
		return 0
	}
	quote := cursor.Input[cursor.Pos]
	if quote != '"' && quote != '\'' {
		return 0
	}
	for i := cursor.Pos + 1; i < cursor.InputSize; i++ {
		if cursor.Input[i] == quote {
			return i - cursor.Pos + 1
		}
	}
	return 0
}

func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '_', '-', '.', ':', '$':
		return true
	}
	return false
}

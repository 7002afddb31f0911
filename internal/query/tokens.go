package query

import (
	"unicode"

	"github.com/orilang/oricore/internal/ast"
)

// TokenKind discriminates a Token. This is a deliberately small, generic
// lexical vocabulary — lexing a real source language is out of scope for
// this module (spec.md §1 Non-goals) — kept only so the query engine has a
// concrete TokenList to exercise the position-independent cutoff property
// (spec.md §8 "Tokens cutoff").
type TokenKind uint8

const (
	TokIdent TokenKind = iota
	TokInt
	TokFloat
	TokString
	TokSymbol
	TokEOF
)

// Token is one lexical unit: its kind, its text, and the span it occupied
// in the source that produced it.
type Token struct {
	Kind TokenKind
	Text string
	Span ast.Span
}

// TokenList is the output of Tokenize over one file.
type TokenList []Token

// Equal reports whether two TokenLists are the same sequence of
// (Kind, Text) pairs, ignoring Span. Two edits that only shift spans
// (whitespace-only changes) produce position-independent
// equal TokenLists, which is the signal the query engine uses for early
// cutoff: a byte-for-byte different source text can still re-tokenize to an
// Equal TokenList, in which case nothing downstream needs to re-run.
func (t TokenList) Equal(other TokenList) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i].Kind != other[i].Kind || t[i].Text != other[i].Text {
			return false
		}
	}
	return true
}

// Tokenize splits text into a minimal TokenList: runs of identifier
// characters, runs of digits (with at most one '.'), quoted strings, and
// single-character symbols, with a File/Offset-tracked Span per token.
// This is a stand-in tokenizer, not a lexer for any real surface
// language — it exists purely to give the query engine's tokens stage a
// concrete, cheap-to-recompute input.
func Tokenize(file, text string) TokenList {
	var out TokenList
	runes := []rune(text)
	line, col := 1, 1
	pos := 0

	advance := func(n int) {
		for i := 0; i < n; i++ {
			if runes[pos+i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		pos += n
	}

	posOf := func(offset int) ast.Pos {
		return ast.Pos{Line: line, Column: col, File: file, Offset: offset}
	}

	for pos < len(runes) {
		start := pos
		startPos := posOf(pos)
		r := runes[pos]

		switch {
		case unicode.IsSpace(r):
			advance(1)
			continue

		case unicode.IsLetter(r) || r == '_':
			for pos < len(runes) && (unicode.IsLetter(runes[pos]) || unicode.IsDigit(runes[pos]) || runes[pos] == '_') {
				advance(1)
			}
			out = append(out, Token{
				Kind: TokIdent,
				Text: string(runes[start:pos]),
				Span: ast.Span{Start: startPos, End: posOf(pos)},
			})

		case unicode.IsDigit(r):
			kind := TokInt
			for pos < len(runes) && (unicode.IsDigit(runes[pos]) || (runes[pos] == '.' && kind == TokInt)) {
				if runes[pos] == '.' {
					kind = TokFloat
				}
				advance(1)
			}
			out = append(out, Token{
				Kind: kind,
				Text: string(runes[start:pos]),
				Span: ast.Span{Start: startPos, End: posOf(pos)},
			})

		case r == '"':
			advance(1)
			for pos < len(runes) && runes[pos] != '"' {
				advance(1)
			}
			if pos < len(runes) {
				advance(1) // closing quote
			}
			out = append(out, Token{
				Kind: TokString,
				Text: string(runes[start:pos]),
				Span: ast.Span{Start: startPos, End: posOf(pos)},
			})

		default:
			advance(1)
			out = append(out, Token{
				Kind: TokSymbol,
				Text: string(runes[start:pos]),
				Span: ast.Span{Start: startPos, End: posOf(pos)},
			})
		}
	}

	out = append(out, Token{Kind: TokEOF, Span: ast.Span{Start: posOf(pos), End: posOf(pos)}})
	return out
}

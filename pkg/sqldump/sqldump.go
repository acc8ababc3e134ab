// Package sqldump extracts row tuples from MySQL-style INSERT statements
// without a full SQL parser.
package sqldump

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// Row is one parenthesized value list from a VALUES clause.
// Quoted literals are unescaped; unquoted tokens are kept raw.
type Row []sql.NullString

// Field returns the i-th field, or a null value when the row is shorter.
func (r Row) Field(i int) sql.NullString {
	if i < 0 || i >= len(r) {
		return sql.NullString{}
	}
	return r[i]
}

// Text returns the i-th field as a string; null becomes "".
func (r Row) Text(i int) string {
	return r.Field(i).String
}

// Warning describes a statement that was skipped, or a table that had none.
type Warning struct {
	Table     string
	Statement int // 1-based; 0 when the warning concerns the whole table
	Message   string
}

func (w Warning) String() string {
	if w.Statement == 0 {
		return fmt.Sprintf("%s: %s", w.Table, w.Message)
	}
	return fmt.Sprintf("%s: statement %d: %s", w.Table, w.Statement, w.Message)
}

// Result is the outcome of parsing one table out of a dump.
type Result struct {
	Table      string
	Rows       []Row
	Statements int
	Warnings   []Warning
}

var (
	anyInsert     = regexp.MustCompile(`(?i)\bINSERT\s+INTO\s+`)
	insertPrefix  = regexp.MustCompile(`(?i)^INSERT\s+INTO\s`)
	valuesKeyword = regexp.MustCompile(`(?i)\bVALUES\b`)
)

func tablePattern(table string) *regexp.Regexp {
	return regexp.MustCompile("(?i)\\bINSERT\\s+INTO\\s+`?" + regexp.QuoteMeta(table) + "\\b`?")
}

// Parse returns the rows of every INSERT statement for table found in text,
// in source order. Malformed statements are skipped and reported as warnings.
// Parse never fails.
func Parse(text, table string) Result {
	table = strings.Trim(strings.TrimSpace(table), "`")
	res := Result{Table: table}
	pattern := tablePattern(table)

	// pos is where the previous statement ended; matches before it sit
	// inside that statement's string literals.
	for pos := 0; pos < len(text); {
		loc := pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		head := pos + loc[1]
		res.Statements++
		n := res.Statements

		// The column list holds no strings, so any INSERT bounds the keyword search.
		header := text[head:nextInsert(text, head)]
		kw := valuesKeyword.FindStringIndex(header)
		if kw == nil {
			res.Warnings = append(res.Warnings, Warning{Table: table, Statement: n, Message: "missing VALUES keyword"})
			pos = head
			continue
		}
		body := head + kw[1]
		rows, end, ok := scanValues(text[body:])
		pos = body + end
		if !ok {
			res.Warnings = append(res.Warnings, Warning{Table: table, Statement: n, Message: "missing terminating ';'"})
			continue
		}
		res.Rows = append(res.Rows, rows...)
	}
	if res.Statements == 0 {
		res.Warnings = append(res.Warnings, Warning{Table: table, Message: "no INSERT statements found"})
	}
	return res
}

func nextInsert(text string, after int) int {
	if loc := anyInsert.FindStringIndex(text[after:]); loc != nil {
		return after + loc[0]
	}
	return len(text)
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// startsInsert reports whether an INSERT INTO keyword begins at body[i].
func startsInsert(body string, i int) bool {
	if i > 0 && isWordByte(body[i-1]) {
		return false
	}
	return insertPrefix.MatchString(body[i:])
}

// scanValues tokenizes "(a,'b'),(c,d);" up to the first ';' outside a string
// and returns the offset just past it. Reaching another INSERT INTO outside a
// string, or the end of body, means the statement is unterminated: ok is false
// and end is where scanning stopped.
func scanValues(body string) (rows []Row, end int, ok bool) {
	var (
		row      Row
		raw      strings.Builder
		str      strings.Builder
		quoted   bool
		inString bool
		escape   bool
		depth    int
	)

	endField := func() {
		if quoted {
			row = append(row, sql.NullString{String: str.String(), Valid: true})
		} else {
			tok := strings.TrimSpace(raw.String())
			if tok == "" || strings.EqualFold(tok, "NULL") {
				row = append(row, sql.NullString{})
			} else {
				row = append(row, sql.NullString{String: tok, Valid: true})
			}
		}
		raw.Reset()
		str.Reset()
		quoted = false
	}

	for i := 0; i < len(body); i++ {
		c := body[i]

		if inString {
			switch {
			case escape:
				str.WriteByte(unescape(c))
				escape = false
			case c == '\\':
				escape = true
			case c == '\'':
				if i+1 < len(body) && body[i+1] == '\'' {
					str.WriteByte('\'')
					i++
					continue
				}
				inString = false
			default:
				str.WriteByte(c)
			}
			continue
		}

		switch c {
		case ';':
			if depth == 0 {
				return rows, i + 1, true
			}
			raw.WriteByte(c)
		case '(':
			depth++
			if depth == 1 {
				row = nil
				raw.Reset()
				str.Reset()
				quoted = false
				continue
			}
			raw.WriteByte(c)
		case ')':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				endField()
				rows = append(rows, row)
				row = nil
				continue
			}
			raw.WriteByte(c)
		case ',':
			if depth == 1 {
				endField()
				continue
			}
			if depth > 1 {
				raw.WriteByte(c)
			}
		case '\'':
			if depth >= 1 {
				inString = true
				quoted = true
			}
		case 'I', 'i':
			if startsInsert(body, i) {
				return nil, i, false
			}
			if depth >= 1 {
				raw.WriteByte(c)
			}
		default:
			if depth >= 1 {
				raw.WriteByte(c)
			}
		}
	}
	return nil, len(body), false
}

// unescape maps the character after a backslash to the byte it encodes,
// following MySQL's string literal rules.
func unescape(c byte) byte {
	switch c {
	case '0':
		return 0
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'Z':
		return 0x1a
	default:
		return c
	}
}

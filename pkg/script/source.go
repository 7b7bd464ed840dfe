package script

import "strings"

// kwPrefix marks a string literal produced from a :keyword. The colon is
// kept, so a rewritten keyword reads the same as in the source.
const kwPrefix = ":"

// preprocessSource rewrites fuselage source into plain zygomys:
//
//   - :keyword becomes the string ":keyword", so keywords need no global
//     registration. := is left alone.
//   - A hyphen joining two words becomes an underscore (adjust-station ->
//     adjust_station); zygomys reads a bare hyphen as subtraction.
//   - ; line comments become // comments.
//
// String literals and raw strings are copied unchanged.
func preprocessSource(source string) string {
	r := rewriter{src: source}
	r.out.Grow(len(source) + len(source)/4)
	for r.pos < len(r.src) {
		switch c := r.src[r.pos]; {
		case c == '"':
			r.quoted()
		case c == '`':
			r.raw()
		case c == ';':
			r.comment()
		case c == ':' && r.at(1) == '=':
			r.copy(2)
		case c == ':' && isLetter(r.at(1)):
			r.keyword()
		case c == '-' && r.pos > 0 && isIdentChar(r.src[r.pos-1]) && isLetter(r.at(1)):
			r.out.WriteByte('_')
			r.pos++
		default:
			r.copy(1)
		}
	}
	return r.out.String()
}

type rewriter struct {
	src string
	pos int
	out strings.Builder
}

// at returns the byte off positions ahead, or 0 past the end.
func (r *rewriter) at(off int) byte {
	if r.pos+off < len(r.src) {
		return r.src[r.pos+off]
	}
	return 0
}

func (r *rewriter) copy(n int) {
	end := min(r.pos+n, len(r.src))
	r.out.WriteString(r.src[r.pos:end])
	r.pos = end
}

// quoted copies a "..." literal including escapes and the closing quote.
func (r *rewriter) quoted() {
	end := r.pos + 1
	for end < len(r.src) && r.src[end] != '"' {
		if r.src[end] == '\\' {
			end++
		}
		end++
	}
	r.copy(end + 1 - r.pos)
}

func (r *rewriter) raw() {
	end := strings.IndexByte(r.src[r.pos+1:], '`')
	if end < 0 {
		r.copy(len(r.src) - r.pos)
		return
	}
	r.copy(end + 2)
}

// comment folds a run of semicolons into // and copies the rest of the
// line.
func (r *rewriter) comment() {
	for r.pos < len(r.src) && r.src[r.pos] == ';' {
		r.pos++
	}
	r.out.WriteString("//")
	end := strings.IndexByte(r.src[r.pos:], '\n')
	if end < 0 {
		end = len(r.src) - r.pos
	}
	r.copy(end)
}

func (r *rewriter) keyword() {
	end := r.pos + 1
	for end < len(r.src) && isKWChar(r.src[end]) {
		end++
	}
	r.out.WriteByte('"')
	r.out.WriteString(kwPrefix)
	r.out.WriteString(r.src[r.pos+1 : end])
	r.out.WriteByte('"')
	r.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

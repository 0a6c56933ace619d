package rpc

// objectScanner finds the end of a JSON object in a byte stream by counting
// braces outside of string literals.
type objectScanner struct {
	depth    int
	inString bool
	escaped  bool
	started  bool
}

// scan consumes b and returns the index just past the end of the first
// complete top-level object, or -1 if more input is needed.
func (s *objectScanner) scan(b []byte) int {
	for i, c := range b {
		if s.inString {
			switch {
			case s.escaped:
				s.escaped = false
			case c == '\\':
				s.escaped = true
			case c == '"':
				s.inString = false
			}
			continue
		}
		switch c {
		case '"':
			s.inString = true
		case '{':
			s.depth++
			s.started = true
		case '}':
			s.depth--
			if s.started && s.depth == 0 {
				*s = objectScanner{}
				return i + 1
			}
		}
	}
	return -1
}

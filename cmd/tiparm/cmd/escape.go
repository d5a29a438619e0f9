package cmd

import (
	"fmt"
	"strings"
)

// unescape expands terminfo source escapes: \E and \e for ESC, \n \r \t \b
// \f \s, \^ \\ \, \: and three-digit octal. \0 alone is \200, as in tic.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("trailing backslash")
		}
		switch c = s[i]; c {
		case 'E', 'e':
			b.WriteByte(0x1b)
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 's':
			b.WriteByte(' ')
		case '^', '\\', ',', ':':
			b.WriteByte(c)
		case '0', '1', '2', '3':
			if i+2 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) {
				b.WriteByte((c-'0')<<6 | (s[i+1]-'0')<<3 | (s[i+2] - '0'))
				i += 2
			} else if c == '0' {
				b.WriteByte(0x80)
			} else {
				return "", fmt.Errorf("bad octal escape at offset %d", i-1)
			}
		default:
			return "", fmt.Errorf("unknown escape \\%c at offset %d", c, i-1)
		}
	}
	return b.String(), nil
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

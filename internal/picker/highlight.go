package picker

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/marcus/notry/internal/styles"
)

// Head reads up to n lines from the start of path.
func Head(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	sc := bufio.NewScanner(io.LimitReader(f, previewBytes))
	sc.Buffer(make([]byte, 0, 4096), previewBytes)
	for i := 0; i < n && sc.Scan(); i++ {
		b.WriteString(strings.ToValidUTF8(sc.Text(), "\uFFFD"))
		b.WriteByte('\n')
	}
	return b.String(), sc.Err()
}

// Highlight renders src with a lexer chosen from the file name. It falls
// back to the plain text when highlighting fails.
func Highlight(name, src string) string {
	lexer := lexers.Match(name)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get(styles.SyntaxTheme)
	if style == nil {
		style = chromastyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, it); err != nil {
		return src
	}
	return b.String()
}

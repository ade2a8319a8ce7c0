package search

import (
	"bufio"
	"strings"
)

// FlattenMarkdown reduces an article body to plain indexable text. Code
// fences are dropped wholesale (shell transcripts and hexdumps pollute the
// token space), table rows are flattened into standalone facts, and heading,
// emphasis, and link syntax is stripped.
//
// Notes:
//   - Avoids emitting a leading blank line.
//   - Paragraph boundaries (blank lines) are preserved.
func FlattenMarkdown(body string) string {
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	wroteBlank := true // start true to avoid a leading blank
	inFence := false

	writeFact := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		b.WriteString(s)
		b.WriteByte('\n')
		b.WriteByte('\n')
		wroteBlank = true
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if line == "" {
			if !wroteBlank {
				b.WriteByte('\n')
				wroteBlank = true
			}
			continue
		}

		// table row: "| ... |"
		if strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|") {
			raw := strings.Trim(line, "|")
			cols := strings.Split(raw, "|")

			allSep := true
			cleaned := make([]string, 0, len(cols))
			for _, c := range cols {
				cell := strings.TrimSpace(c)
				if cell != "" {
					cleaned = append(cleaned, cell)
				}
				tmp := strings.ReplaceAll(cell, ":", "")
				tmp = strings.ReplaceAll(tmp, "-", "")
				if strings.TrimSpace(tmp) != "" {
					allSep = false
				}
			}
			if allSep || len(cleaned) == 0 {
				continue
			}
			writeFact(stripInline(strings.Join(cleaned, " ")))
			continue
		}

		wroteBlank = false
		writeFact(stripInline(line))
	}

	return b.String()
}

// stripInline removes heading markers, emphasis, inline code, and link
// syntax from a single line, keeping the visible text.
func stripInline(s string) string {
	s = strings.TrimLeft(s, "#> ")
	s = strings.TrimPrefix(s, "- ")
	s = strings.TrimPrefix(s, "* ")

	// [text](url) -> text
	for {
		open := strings.Index(s, "[")
		if open < 0 {
			break
		}
		close := strings.Index(s[open:], "](")
		if close < 0 {
			break
		}
		end := strings.Index(s[open+close:], ")")
		if end < 0 {
			break
		}
		text := s[open+1 : open+close]
		s = s[:open] + text + s[open+close+end+1:]
	}

	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

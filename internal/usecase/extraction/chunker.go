package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitTranscript splits text into chunks of at most limit runes. Chunks break
// on line boundaries first and on sentence boundaries for overlong lines. A
// sentence longer than limit becomes a chunk of its own, so text is never cut
// mid-sentence. limit <= 0 disables chunking.
func SplitTranscript(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	p := packer{limit: limit}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= limit {
			p.add(line, "\n")
			continue
		}
		for i, sentence := range splitSentences(line) {
			sep := " "
			if i == 0 {
				sep = "\n"
			}
			p.add(sentence, sep)
		}
	}
	return p.done()
}

type packer struct {
	limit  int
	chunks []string
	cur    strings.Builder
	curLen int
}

func (p *packer) add(unit, sep string) {
	n := utf8.RuneCountInString(unit)
	if p.curLen > 0 && p.curLen+len(sep)+n <= p.limit {
		p.cur.WriteString(sep)
		p.cur.WriteString(unit)
		p.curLen += len(sep) + n
		return
	}
	p.flush()
	p.cur.WriteString(unit)
	p.curLen = n
}

func (p *packer) flush() {
	if p.curLen == 0 {
		return
	}
	p.chunks = append(p.chunks, p.cur.String())
	p.cur.Reset()
	p.curLen = 0
}

func (p *packer) done() []string {
	p.flush()
	return p.chunks
}

// splitSentences breaks s after '.', '!' or '?' followed by whitespace
func splitSentences(s string) []string {
	var out []string
	runes := []rune(s)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
					out = append(out, sentence)
				}
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}

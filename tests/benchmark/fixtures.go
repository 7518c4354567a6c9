package benchmark

import (
	"fmt"
	"strings"
)

var elementTypes = []string{"int", "string", "[]byte", "map[string]int", "*time.Time", "T"}

// GenerateTemplate generates a template declaring bufferCount buffers
func GenerateTemplate(bufferCount int) string {
	var sb strings.Builder

	sb.WriteString("//go:build ringgen\n\npackage bench\n\nimport \"time\"\n\n")

	for i := 0; i < bufferCount; i++ {
		elem := elementTypes[i%len(elementTypes)]
		typeParams := ""
		if elem == "T" {
			typeParams = "[T any]"
		}
		sb.WriteString(fmt.Sprintf(`// Buffer%d is fixture number %d.
//
//ringgen:buffer %d
type Buffer%d%s struct {
	data    []%s
	updated time.Time
	label   string `+"`json:\"label\"`"+`
}

`, i, i, i%64+1, i, typeParams, elem))
	}

	return sb.String()
}

// GenerateLargeTemplate generates a template with roughly targetLOC lines
func GenerateLargeTemplate(targetLOC int) string {
	// Each buffer is 8 lines
	bufferCount := targetLOC / 8
	if bufferCount < 1 {
		bufferCount = 1
	}

	return GenerateTemplate(bufferCount)
}

// CountLOC counts non-empty lines
func CountLOC(source string) int {
	count := 0
	for _, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

package extract

import (
	"fmt"
	"unicode/utf8"
)

func extractPlain(content []byte) ([]Page, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("content is not valid UTF-8")
	}
	return []Page{{Text: string(content)}}, nil
}

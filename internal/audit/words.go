// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// WordCount counts the words in an HTML fragment's text. Han characters
// count one each; other text counts whitespace-separated runs.
func WordCount(fragment string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return 0, err
	}
	return countWords(doc.Text()), nil
}

func countWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			count++
			inWord = false
		case unicode.IsSpace(r) || unicode.IsPunct(r):
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

package script

import (
	"fmt"
	"strings"

	"github.com/pashonic/globecast/providers"
)

const (
	DefaultExcerptChars = 400
	DefaultCaptionChars = 180
	ellipsis            = "..."
)

type Script struct {
	Text    string
	Caption string
}

// Generate expands the promotional template: hook, bounded excerpt, call
// to action. It is deterministic and never fails.
func Generate(subject, brand, excerpt string, excerptChars, captionChars int) Script {
	subject = strings.TrimSpace(subject)
	brand = strings.TrimSpace(brand)
	excerpt = strings.Join(strings.Fields(excerpt), " ")

	text := fmt.Sprintf(
		"Attention ! %s change tout ! Avec %s, profitez du meilleur. %s%s Chez %s, qualité, innovation et confiance.",
		subject, brand, providers.Truncate(excerpt, excerptChars), ellipsis, brand,
	)
	return Script{
		Text:    text,
		Caption: Caption(text, captionChars),
	}
}

// Caption takes a bounded prefix of the narration and always marks the cut
// with an ellipsis.
func Caption(text string, chars int) string {
	return providers.Truncate(text, chars) + ellipsis
}

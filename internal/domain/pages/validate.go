package pages

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate   = validator.New(validator.WithRequiredStructEnabled())
	htmlPolicy = bluemonday.UGCPolicy()

	// only plain source.path tokens are kept; anything else is sanitized as text
	bindingToken = regexp.MustCompile(`\{\{[\w. -]*\}\}`)

	ErrInvalidLayout = errors.New("invalid page layout")
)

// ValidateLayout checks segment/cell geometry and every block's content.
// Block ids must be unique within the page.
func ValidateLayout(segments []Segment) error {
	seen := map[string]bool{}
	for si, s := range segments {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("%w: segment %d: %v", ErrInvalidLayout, si, err)
		}
		for _, c := range s.Cells {
			if c.Column+c.ColSpan > s.Columns {
				return fmt.Errorf("%w: cell %s overflows %d columns", ErrInvalidLayout, c.ID, s.Columns)
			}
			for _, b := range c.Blocks {
				if err := validateBlock(b); err != nil {
					return err
				}
				if seen[b.ID] {
					return fmt.Errorf("%w: duplicate block id %s", ErrInvalidLayout, b.ID)
				}
				seen[b.ID] = true
			}
		}
	}
	return nil
}

func validateBlock(b Block) error {
	if b.ID == "" {
		return fmt.Errorf("%w: block without id", ErrInvalidLayout)
	}
	if b.Content == nil {
		return fmt.Errorf("%w: block %s has no content", ErrInvalidLayout, b.ID)
	}
	if b.Content.BlockType() != b.Type {
		return fmt.Errorf("%w: block %s is %s but carries %s content", ErrInvalidLayout, b.ID, b.Type, b.Content.BlockType())
	}
	if err := validate.Struct(b.Content); err != nil {
		return fmt.Errorf("%w: block %s: %v", ErrInvalidLayout, b.ID, err)
	}
	return nil
}

// SanitizeHTML runs every html block through the UGC policy in place.
// Binding tokens survive as written, including inside attributes, so the
// same pass works on stored templates and on bound output.
func SanitizeHTML(segments []Segment) {
	for si := range segments {
		for ci := range segments[si].Cells {
			for _, b := range segments[si].Cells[ci].Blocks {
				if h, ok := b.Content.(*HTMLContent); ok {
					h.HTMLContent = sanitizeKeepingTokens(h.HTMLContent)
				}
			}
		}
	}
}

// sanitizeKeepingTokens swaps each {{...}} token for a plain placeholder
// the policy leaves alone, sanitizes, then puts the tokens back.
func sanitizeKeepingTokens(html string) string {
	tokens := bindingToken.FindAllString(html, -1)
	if len(tokens) == 0 {
		return htmlPolicy.Sanitize(html)
	}

	mark := "sfbind"
	for strings.Contains(html, mark) {
		mark += "x"
	}
	i := 0
	masked := bindingToken.ReplaceAllStringFunc(html, func(string) string {
		ph := mark + strconv.Itoa(i) + mark
		i++
		return ph
	})

	pairs := make([]string, 0, 2*len(tokens))
	for i, tok := range tokens {
		pairs = append(pairs, mark+strconv.Itoa(i)+mark, tok)
	}
	return strings.NewReplacer(pairs...).Replace(htmlPolicy.Sanitize(masked))
}

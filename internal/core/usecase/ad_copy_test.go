package usecase

import (
	"testing"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

func TestValidateAdCopyAcceptsTwoLines(t *testing.T) {
	got, err := validateAdCopy(domain.AdCopy{
		Headline: " Close books faster ",
		Lines:    []string{"Automate invoicing.", " Built for CFOs. "},
		CTA:      "Book a demo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Headline != "Close books faster" || got.Lines[1] != "Built for CFOs." {
		t.Fatalf("expected trimmed copy, got %+v", got)
	}
}

func TestValidateAdCopyRejectsMalformed(t *testing.T) {
	cases := []domain.AdCopy{
		{Headline: "h", Lines: []string{"one"}, CTA: "c"},
		{Headline: "h", Lines: []string{"one", "two", "three"}, CTA: "c"},
		{Headline: "h", Lines: []string{"one", "  "}, CTA: "c"},
		{Headline: "", Lines: []string{"one", "two"}, CTA: "c"},
		{Headline: "h", Lines: []string{"one", "two"}},
	}
	for _, tc := range cases {
		if _, err := validateAdCopy(tc); !domain.IsKind(err, domain.ErrMalformedAdCopy) {
			t.Fatalf("expected malformed ad copy error for %+v, got %v", tc, err)
		}
	}
}

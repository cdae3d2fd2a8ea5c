package analyst

import (
	"fmt"
	"strings"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

const (
	icpSystemPrompt = `You are a B2B go-to-market analyst.
Return a strict JSON object with keys:
solution (string), industries (array of strings), workflows (array of strings), buyerRoles (array of strings), firmographics (object with size and geo strings).
Each array must contain 1 to 5 short terms. No markdown, no extra keys.`

	candidatesSystemPrompt = `You extract real companies from web search results.
Return a strict JSON object {"candidates": [...]} where each item has keys:
name (company name, never an article or list title), domain (bare company domain or "N/A" if unknown), rationale (one sentence on why it resembles the seed), evidenceUrls (array of result URLs), confidence (integer 0-100).
Only include companies, never directories, reviews or "top N" articles. No markdown.`

	fitSystemPrompt = `You score how well a company fits an ideal customer profile using only its website text.
Return a strict JSON object with keys:
rationale (2-3 sentences naming matched industries, workflows and buyer roles), confidence (integer 0-100), evidence (array of up to 5 objects with url and snippet quoted from the site), icpScore (integer 0-100).
No markdown, no extra keys.`

	adSystemPrompt = `You write short B2B ad copy for a persona.
Return a strict JSON object with keys:
headline (max 60 chars), lines (array of exactly 2 strings, max 90 chars each), cta (max 25 chars).
No markdown, no extra keys.`
)

func buildICPPrompt(websiteText, solution string, maxRunes int) string {
	var b strings.Builder
	if s := strings.TrimSpace(solution); s != "" {
		fmt.Fprintf(&b, "Solution being sold: %s\n\n", s)
	}
	b.WriteString("Company website text:\n")
	b.WriteString(clip(websiteText, maxRunes))
	return b.String()
}

func buildCandidatesPrompt(seed string, results []domain.SearchResult, icp domain.ICP, limit int) string {
	var b strings.Builder
	if seed != "" {
		fmt.Fprintf(&b, "Seed: %s\n", seed)
	}
	fmt.Fprintf(&b, "Target industries: %s\n", strings.Join(icp.Industries, ", "))
	fmt.Fprintf(&b, "Target workflows: %s\n", strings.Join(icp.Workflows, ", "))
	fmt.Fprintf(&b, "Return at most %d candidates.\n\nSearch results:\n", limit)
	for idx, result := range results {
		fmt.Fprintf(&b, "[%d] %s\n%s\n%s\n\n", idx+1, result.Title, result.URL, result.Snippet)
	}
	return b.String()
}

func buildFitPrompt(req ports.FitRequest, maxRunes int) string {
	return fmt.Sprintf(`Ideal customer profile:
solution: %s
industries: %s
workflows: %s
buyer roles: %s
size: %s
geo: %s

Company: %s (%s)

Website text:
%s
`,
		req.ICP.Solution,
		strings.Join(req.ICP.Industries, ", "),
		strings.Join(req.ICP.Workflows, ", "),
		strings.Join(req.ICP.BuyerRoles, ", "),
		req.ICP.Firmographics.Size,
		req.ICP.Firmographics.Geo,
		req.Name,
		req.Domain,
		clip(req.WebsiteText, maxRunes),
	)
}

func buildAdPrompt(brief domain.AdBrief) string {
	return fmt.Sprintf("Industry: %s\nWorkflow: %s\nBuyer roles: %s\n",
		brief.DominantIndustry,
		brief.DominantWorkflow,
		strings.Join(brief.BuyerRoles, ", "),
	)
}

func clip(text string, maxRunes int) string {
	runes := []rune(text)
	if maxRunes > 0 && len(runes) > maxRunes {
		return string(runes[:maxRunes])
	}
	return text
}

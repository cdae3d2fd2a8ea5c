package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

const defaultMaxTextRunes = 8000

// Completer is a JSON-mode language model backend.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Analyst turns language model completions into typed ICPs, candidates, fit
// assessments and ad copy. It applies no policy of its own.
type Analyst struct {
	llm          Completer
	maxTextRunes int
}

func New(llm Completer) *Analyst {
	return &Analyst{llm: llm, maxTextRunes: defaultMaxTextRunes}
}

func (a *Analyst) ExtractICP(ctx context.Context, websiteText, solution string) (domain.ICP, error) {
	var out struct {
		Solution      string               `json:"solution"`
		Industries    []string             `json:"industries"`
		Workflows     []string             `json:"workflows"`
		BuyerRoles    []string             `json:"buyerRoles"`
		Firmographics domain.Firmographics `json:"firmographics"`
	}
	if err := a.completeJSON(ctx, "extract icp", icpSystemPrompt, buildICPPrompt(websiteText, solution, a.maxTextRunes), &out); err != nil {
		return domain.ICP{}, err
	}
	if strings.TrimSpace(solution) != "" {
		out.Solution = solution
	}
	return domain.ICP{
		Solution:      out.Solution,
		Industries:    out.Industries,
		Workflows:     out.Workflows,
		BuyerRoles:    out.BuyerRoles,
		Firmographics: out.Firmographics,
	}.Normalized(), nil
}

// ExtractCandidates asks the model to pick companies out of raw search results.
func (a *Analyst) ExtractCandidates(ctx context.Context, seed string, results []domain.SearchResult, icp domain.ICP, limit int) ([]domain.Candidate, error) {
	if len(results) == 0 {
		return nil, nil
	}
	var out struct {
		Candidates []struct {
			Name         string   `json:"name"`
			Domain       string   `json:"domain"`
			Rationale    string   `json:"rationale"`
			EvidenceURLs []string `json:"evidenceUrls"`
			Confidence   float64  `json:"confidence"`
		} `json:"candidates"`
	}
	if err := a.completeJSON(ctx, "extract candidates", candidatesSystemPrompt, buildCandidatesPrompt(seed, results, icp, limit), &out); err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(out.Candidates))
	for _, item := range out.Candidates {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Name:         strings.TrimSpace(item.Name),
			Domain:       strings.TrimSpace(item.Domain),
			Rationale:    strings.TrimSpace(item.Rationale),
			EvidenceURLs: item.EvidenceURLs,
			Confidence:   toPercent(item.Confidence),
		})
		if limit > 0 && len(candidates) == limit {
			break
		}
	}
	return candidates, nil
}

// ScoreFit returns the model's raw assessment. Clamping happens in the caller.
func (a *Analyst) ScoreFit(ctx context.Context, req ports.FitRequest) (domain.FitAssessment, error) {
	var out struct {
		Rationale  string            `json:"rationale"`
		Confidence float64           `json:"confidence"`
		Evidence   []domain.Evidence `json:"evidence"`
		ICPScore   float64           `json:"icpScore"`
	}
	if err := a.completeJSON(ctx, "score fit", fitSystemPrompt, buildFitPrompt(req, a.maxTextRunes), &out); err != nil {
		return domain.FitAssessment{}, err
	}
	return domain.FitAssessment{
		Rationale:  out.Rationale,
		Confidence: toPercent(out.Confidence),
		Evidence:   out.Evidence,
		ICPScore:   toPercent(out.ICPScore),
	}, nil
}

func (a *Analyst) WriteAd(ctx context.Context, brief domain.AdBrief) (domain.AdCopy, error) {
	var out domain.AdCopy
	if err := a.completeJSON(ctx, "write ad", adSystemPrompt, buildAdPrompt(brief), &out); err != nil {
		return domain.AdCopy{}, err
	}
	return out, nil
}

func (a *Analyst) completeJSON(ctx context.Context, operation, system, prompt string, out any) error {
	raw, err := a.llm.Complete(ctx, system, prompt)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), out); err != nil {
		return fmt.Errorf("parse %s json: %w", operation, err)
	}
	return nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

// toPercent rounds a model-reported 0-100 score. Strict fractions in (0,1) are
// read as ratios; 1 stays 1.
func toPercent(v float64) int {
	if v > 0 && v < 1 {
		v *= 100
	}
	return int(math.Round(v))
}

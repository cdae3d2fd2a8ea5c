package usecase

import (
	"strings"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

// dedupCandidates keeps one candidate per normalized domain. The survivor is the
// highest-confidence entry; ties keep the first one seen. Output order follows
// the first occurrence of each domain.
func dedupCandidates(candidates []domain.Candidate) []domain.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	index := make(map[string]int, len(candidates))
	out := make([]domain.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		key := domain.NormalizeDomain(candidate.Domain)
		if key == "" {
			continue
		}
		candidate.Domain = key
		if pos, ok := index[key]; ok {
			if candidate.Confidence > out[pos].Confidence {
				out[pos] = candidate
			}
			continue
		}
		index[key] = len(out)
		out = append(out, candidate)
	}
	return out
}

// excludeKnownDomains drops candidates whose normalized domain is already in
// known. Running it twice with the same set is a no-op.
func excludeKnownDomains(candidates []domain.Candidate, known map[string]struct{}) ([]domain.Candidate, int) {
	if len(known) == 0 {
		return candidates, 0
	}
	out := make([]domain.Candidate, 0, len(candidates))
	dropped := 0
	for _, candidate := range candidates {
		if _, ok := known[domain.NormalizeDomain(candidate.Domain)]; ok {
			dropped++
			continue
		}
		out = append(out, candidate)
	}
	return out, dropped
}

func domainSet(domains []string) map[string]struct{} {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		if normalized := domain.NormalizeDomain(d); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

// dedupEvidence drops evidence whose URL repeats an earlier item, compared
// case-insensitively after trimming. Items without a URL are dropped.
func dedupEvidence(items []domain.Evidence) []domain.Evidence {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.Evidence, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.URL))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		item.URL = strings.TrimSpace(item.URL)
		out = append(out, item)
	}
	return out
}

// truncateCandidate caps the evidence list and trims the rationale.
func truncateCandidate(candidate domain.Candidate, maxEvidence int) domain.Candidate {
	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.Rationale = strings.TrimSpace(candidate.Rationale)
	if maxEvidence > 0 && len(candidate.EvidenceURLs) > maxEvidence {
		candidate.EvidenceURLs = append([]string(nil), candidate.EvidenceURLs[:maxEvidence]...)
	}
	return candidate
}

func truncateRunes(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

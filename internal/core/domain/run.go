package domain

import "time"

type RunMode string

const (
	ModeSeedExpansion       RunMode = "seed_expansion"
	ModeCompetitorDiscovery RunMode = "competitor_discovery"
	ModeGenerateMore        RunMode = "generate_more"
)

type RunRequest struct {
	RunID         string     `json:"runId,omitempty"`
	OwnerID       string     `json:"ownerId"`
	Mode          RunMode    `json:"mode"`
	CompanyDomain string     `json:"companyDomain,omitempty"`
	Solution      string     `json:"solution,omitempty"`
	ICP           *ICP       `json:"icp,omitempty"`
	Customers     []Customer `json:"customers"`
	MaxProspects  int        `json:"maxProspects"`
	RequestedAt   time.Time  `json:"requestedAt"`
}

type GenerateMoreRequest struct {
	RunID     string `json:"runId,omitempty"`
	OwnerID   string `json:"ownerId"`
	ICP       ICP    `json:"icp"`
	BatchSize int    `json:"batchSize"`
}

type SkipReason string

const (
	SkipDuplicate       SkipReason = "duplicate"
	SkipInvalidDomain   SkipReason = "invalid_domain"
	SkipImplausibleName SkipReason = "implausible_name"
	SkipBelowThreshold  SkipReason = "below_threshold"
	SkipFetchFailed     SkipReason = "fetch_failed"
)

// RunSummary reports produced versus requested prospects and why the rest were
// dropped. Failed counts candidates lost to unexpected errors.
type RunSummary struct {
	Requested      int                `json:"requested"`
	Produced       int                `json:"produced"`
	Processed      int                `json:"processed"`
	Skipped        int                `json:"skipped"`
	SkippedReasons map[SkipReason]int `json:"skippedReasons"`
	Failed         int                `json:"failed"`
	FallbackScored int                `json:"fallbackScored"`
}

func NewRunSummary(requested int) RunSummary {
	return RunSummary{
		Requested:      requested,
		SkippedReasons: make(map[SkipReason]int),
	}
}

func (s *RunSummary) Skip(reason SkipReason) {
	s.Skipped++
	s.SkippedReasons[reason]++
}

type RunResult struct {
	RunID     string     `json:"runId"`
	Prospects []Company  `json:"prospects"`
	Clusters  []Cluster  `json:"clusters"`
	Ads       []Ad       `json:"ads"`
	ICP       ICP        `json:"icp"`
	MockData  bool       `json:"mockData"`
	Summary   RunSummary `json:"summary"`
}

// ImportResult counts import rows. Failed rows hit an unexpected store error;
// the rows around them are still imported.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// RunLimits bounds how much work one run may do.
type RunLimits struct {
	DefaultMaxProspects     int
	DefaultBatchSize        int
	CandidatesPerSeed       int
	MaxEvidenceSnippetRunes int
}

func DefaultRunLimits() RunLimits {
	return RunLimits{
		DefaultMaxProspects:     25,
		DefaultBatchSize:        10,
		CandidatesPerSeed:       10,
		MaxEvidenceSnippetRunes: 300,
	}
}

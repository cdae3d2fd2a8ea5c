package domain

import "time"

type Customer struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Notes  string `json:"notes,omitempty"`
}

// Candidate is an unpersisted prospect produced by expansion. It only lives for
// the duration of a run.
type Candidate struct {
	Name         string   `json:"name"`
	Domain       string   `json:"domain"`
	Rationale    string   `json:"rationale"`
	EvidenceURLs []string `json:"evidenceUrls"`
	Confidence   int      `json:"confidence"`
}

type Evidence struct {
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// FitAssessment is the outcome of scoring one candidate against the ICP.
type FitAssessment struct {
	Rationale  string     `json:"rationale"`
	Confidence int        `json:"confidence"`
	Evidence   []Evidence `json:"evidence"`
	ICPScore   int        `json:"icpScore"`
}

type CompanySource string

const (
	SourceExpanded CompanySource = "expanded"
	SourceImported CompanySource = "imported"
)

type CompanyStatus string

const (
	StatusNew         CompanyStatus = "New"
	StatusResearching CompanyStatus = "Researching"
	StatusContacted   CompanyStatus = "Contacted"
	StatusWon         CompanyStatus = "Won"
	StatusLost        CompanyStatus = "Lost"
)

// ProspectQuality is the user's rating of a persisted prospect. It is written by
// the UI and only read here by the learning loop.
type ProspectQuality string

const (
	QualityUnrated   ProspectQuality = ""
	QualityExcellent ProspectQuality = "excellent"
	QualityGood      ProspectQuality = "good"
	QualityFair      ProspectQuality = "fair"
	QualityPoor      ProspectQuality = "poor"
)

type Company struct {
	ID                   int64           `json:"id"`
	OwnerID              string          `json:"ownerId"`
	Name                 string          `json:"name"`
	Domain               string          `json:"domain"`
	Source               CompanySource   `json:"source"`
	SourceCustomerDomain string          `json:"sourceCustomerDomain"`
	ICPScore             int             `json:"icpScore"`
	Confidence           int             `json:"confidence"`
	Status               CompanyStatus   `json:"status"`
	Rationale            string          `json:"rationale"`
	Evidence             []Evidence      `json:"evidence"`
	Quality              ProspectQuality `json:"quality,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

package domain

type ClusterCriteria struct {
	AvgICPScore      float64 `json:"avgIcpScore"`
	AvgConfidence    float64 `json:"avgConfidence"`
	DominantIndustry string  `json:"dominantIndustry"`
	DominantWorkflow string  `json:"dominantWorkflow"`
	CompanyCount     int     `json:"companyCount"`
}

// Cluster groups prospects sharing an ICP-score band and dominant industry.
// Only the catch-all cluster may hold fewer than the minimum group size.
type Cluster struct {
	ID         int64           `json:"id"`
	OwnerID    string          `json:"ownerId"`
	RunID      string          `json:"runId"`
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	CatchAll   bool            `json:"catchAll"`
	Criteria   ClusterCriteria `json:"criteria"`
	CompanyIDs []int64         `json:"companyIds"`
}

// AdCopy is the raw copy returned by the copywriter. Lines must hold exactly two
// entries.
type AdCopy struct {
	Headline string   `json:"headline"`
	Lines    []string `json:"lines"`
	CTA      string   `json:"cta"`
}

type Ad struct {
	ID        int64    `json:"id"`
	ClusterID int64    `json:"clusterId"`
	Headline  string   `json:"headline"`
	Lines     []string `json:"lines"`
	CTA       string   `json:"cta"`
}

// AdBrief is what the copywriter receives for one cluster.
type AdBrief struct {
	DominantIndustry string
	DominantWorkflow string
	BuyerRoles       []string
}

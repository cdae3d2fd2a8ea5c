package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

// ratedProspectLimit bounds how many rated prospects feed one learning query.
const ratedProspectLimit = 50

type ProspectRepository struct {
	db *sql.DB
}

func NewProspectRepository(db *sql.DB) *ProspectRepository {
	return &ProspectRepository{db: db}
}

func (r *ProspectRepository) ListOwnerDomains(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT domain FROM companies WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner domains: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan owner domain: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owner domains: %w", err)
	}
	return out, nil
}

func (r *ProspectRepository) ListRatedProspects(ctx context.Context, ownerID string) ([]domain.Company, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, name, domain, source, source_customer_domain, icp_score, confidence, status, rationale, evidence, quality, created_at
FROM companies
WHERE owner_id = $1 AND quality <> ''
ORDER BY icp_score DESC, created_at DESC
LIMIT $2
`, ownerID, ratedProspectLimit)
	if err != nil {
		return nil, fmt.Errorf("list rated prospects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rated prospects: %w", err)
	}
	return out, nil
}

func (r *ProspectRepository) CreateCompany(ctx context.Context, company *domain.Company) error {
	evidence := company.Evidence
	if evidence == nil {
		evidence = []domain.Evidence{}
	}
	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	if company.CreatedAt.IsZero() {
		company.CreatedAt = time.Now().UTC()
	}

	err = r.db.QueryRowContext(ctx, `
INSERT INTO companies (
	owner_id, name, domain, source, source_customer_domain, icp_score, confidence, status, rationale, evidence, quality, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING id
`,
		company.OwnerID, company.Name, company.Domain, string(company.Source), company.SourceCustomerDomain,
		company.ICPScore, company.Confidence, string(company.Status), company.Rationale, evidenceJSON,
		string(company.Quality), company.CreatedAt,
	).Scan(&company.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrDuplicateProspect, "create company", fmt.Errorf("domain %s: %w", company.Domain, err))
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *ProspectRepository) CreateCluster(ctx context.Context, cluster *domain.Cluster) error {
	criteriaJSON, err := json.Marshal(cluster.Criteria)
	if err != nil {
		return fmt.Errorf("marshal criteria: %w", err)
	}
	ids := cluster.CompanyIDs
	if ids == nil {
		ids = []int64{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal company ids: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
INSERT INTO clusters (owner_id, run_id, key, label, catch_all, criteria, company_ids)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id
`, cluster.OwnerID, cluster.RunID, cluster.Key, cluster.Label, cluster.CatchAll, criteriaJSON, idsJSON).Scan(&cluster.ID)
	if err != nil {
		return fmt.Errorf("insert cluster: %w", err)
	}
	return nil
}

func (r *ProspectRepository) CreateAd(ctx context.Context, ad *domain.Ad) error {
	linesJSON, err := json.Marshal(ad.Lines)
	if err != nil {
		return fmt.Errorf("marshal ad lines: %w", err)
	}
	err = r.db.QueryRowContext(ctx, `
INSERT INTO ads (cluster_id, headline, lines, cta)
VALUES ($1,$2,$3,$4)
RETURNING id
`, ad.ClusterID, ad.Headline, linesJSON, ad.CTA).Scan(&ad.ID)
	if err != nil {
		return fmt.Errorf("insert ad: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var (
		company     domain.Company
		source      string
		status      string
		quality     string
		evidenceRaw []byte
	)
	err := row.Scan(
		&company.ID, &company.OwnerID, &company.Name, &company.Domain, &source, &company.SourceCustomerDomain,
		&company.ICPScore, &company.Confidence, &status, &company.Rationale, &evidenceRaw, &quality, &company.CreatedAt,
	)
	if err != nil {
		return domain.Company{}, fmt.Errorf("scan company: %w", err)
	}
	if len(evidenceRaw) > 0 {
		if err := json.Unmarshal(evidenceRaw, &company.Evidence); err != nil {
			return domain.Company{}, fmt.Errorf("unmarshal evidence: %w", err)
		}
	}
	company.Source = domain.CompanySource(source)
	company.Status = domain.CompanyStatus(status)
	company.Quality = domain.ProspectQuality(quality)
	return company, nil
}

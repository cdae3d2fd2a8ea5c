package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*ProspectRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewProspectRepository(db), mock, func() { _ = db.Close() }
}

func TestCreateCompanyReturnsIDFromInsert(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("INSERT INTO companies").
		WithArgs("owner-1", "Beta", "beta.io", "expanded", "acme.com", 72, 65, "New", "fits", sqlmock.AnyArg(), "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	company := &domain.Company{
		OwnerID:              "owner-1",
		Name:                 "Beta",
		Domain:               "beta.io",
		Source:               domain.SourceExpanded,
		SourceCustomerDomain: "acme.com",
		ICPScore:             72,
		Confidence:           65,
		Status:               domain.StatusNew,
		Rationale:            "fits",
	}
	if err := repo.CreateCompany(context.Background(), company); err != nil {
		t.Fatalf("CreateCompany() error = %v", err)
	}
	if company.ID != 42 {
		t.Fatalf("expected id 42, got %d", company.ID)
	}
	if company.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateCompanyMapsUniqueViolationToDuplicate(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("INSERT INTO companies").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "companies_owner_id_domain_key"})

	err := repo.CreateCompany(context.Background(), &domain.Company{OwnerID: "owner-1", Domain: "beta.io"})
	if !domain.IsKind(err, domain.ErrDuplicateProspect) {
		t.Fatalf("expected ErrDuplicateProspect, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateCompanyKeepsOtherErrorsUntyped(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("INSERT INTO companies").WillReturnError(errors.New("connection reset"))

	err := repo.CreateCompany(context.Background(), &domain.Company{OwnerID: "owner-1", Domain: "beta.io"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsKind(err, domain.ErrDuplicateProspect) {
		t.Fatalf("unexpected duplicate kind: %v", err)
	}
}

func TestListRatedProspectsDecodesEvidence(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "name", "domain", "source", "source_customer_domain", "icp_score", "confidence",
		"status", "rationale", "evidence", "quality", "created_at",
	}).AddRow(int64(7), "owner-1", "Beta", "beta.io", "expanded", "acme.com", 81, 70,
		"Contacted", "fits", []byte(`[{"url":"https://beta.io/pricing"}]`), "good", time.Now())

	mock.ExpectQuery("FROM companies").
		WithArgs("owner-1", ratedProspectLimit).
		WillReturnRows(rows)

	rated, err := repo.ListRatedProspects(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ListRatedProspects() error = %v", err)
	}
	if len(rated) != 1 {
		t.Fatalf("expected 1 prospect, got %d", len(rated))
	}
	got := rated[0]
	if got.Quality != domain.QualityGood || got.Status != domain.StatusContacted || len(got.Evidence) != 1 {
		t.Fatalf("unexpected prospect %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListOwnerDomains(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT domain FROM companies").
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"domain"}).AddRow("beta.io").AddRow("gamma.com"))

	domains, err := repo.ListOwnerDomains(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ListOwnerDomains() error = %v", err)
	}
	if len(domains) != 2 || domains[1] != "gamma.com" {
		t.Fatalf("unexpected domains %v", domains)
	}
}

func TestCreateClusterAndAd(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("INSERT INTO clusters").
		WithArgs("owner-1", "run-1", "high-saas", "High Saas", false, sqlmock.AnyArg(), []byte("[1,2]")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery("INSERT INTO ads").
		WithArgs(int64(3), "Headline", []byte(`["one","two"]`), "Book a demo").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	cluster := &domain.Cluster{OwnerID: "owner-1", RunID: "run-1", Key: "high-saas", Label: "High Saas", CompanyIDs: []int64{1, 2}}
	if err := repo.CreateCluster(context.Background(), cluster); err != nil {
		t.Fatalf("CreateCluster() error = %v", err)
	}
	ad := &domain.Ad{ClusterID: cluster.ID, Headline: "Headline", Lines: []string{"one", "two"}, CTA: "Book a demo"}
	if err := repo.CreateAd(context.Background(), ad); err != nil {
		t.Fatalf("CreateAd() error = %v", err)
	}
	if ad.ID != 9 {
		t.Fatalf("expected ad id 9, got %d", ad.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS companies").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

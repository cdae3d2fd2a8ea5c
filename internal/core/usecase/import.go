package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

// ImportCompaniesUseCase bulk-creates companies from an uploaded spreadsheet.
// Rows with unusable or already-known domains are skipped, not rejected. A row
// the store fails to write is counted as failed and the import continues; the
// error is returned only when no row was written.
type ImportCompaniesUseCase struct {
	reader ports.SpreadsheetReader
	store  ports.ProspectStore
}

func NewImportCompaniesUseCase(reader ports.SpreadsheetReader, store ports.ProspectStore) *ImportCompaniesUseCase {
	return &ImportCompaniesUseCase{reader: reader, store: store}
}

func (uc *ImportCompaniesUseCase) Import(ctx context.Context, ownerID string, body io.Reader) (*domain.ImportResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "import companies", errors.New("ownerId is required"))
	}

	rows, err := uc.reader.ReadCustomers(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	known, err := uc.store.ListOwnerDomains(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner domains: %w", err)
	}
	seen := domainSet(known)

	result := &domain.ImportResult{}
	var firstErr error
	for _, row := range rows {
		companyDomain := domain.NormalizeDomain(row.Domain)
		if !domain.IsValidDomain(companyDomain) {
			result.Skipped++
			continue
		}
		if _, ok := seen[companyDomain]; ok {
			result.Skipped++
			continue
		}
		seen[companyDomain] = struct{}{}

		name := strings.TrimSpace(row.Name)
		if name == "" {
			name = companyDomain
		}
		company := &domain.Company{
			OwnerID:   ownerID,
			Name:      name,
			Domain:    companyDomain,
			Source:    domain.SourceImported,
			Status:    domain.StatusNew,
			Rationale: strings.TrimSpace(row.Notes),
			Evidence:  []domain.Evidence{},
			CreatedAt: time.Now().UTC(),
		}
		if err := uc.store.CreateCompany(ctx, company); err != nil {
			if domain.IsKind(err, domain.ErrDuplicateProspect) {
				result.Skipped++
				continue
			}
			result.Failed++
			if firstErr == nil {
				firstErr = fmt.Errorf("create company %s: %w", companyDomain, err)
			}
			continue
		}
		result.Imported++
	}
	if result.Imported == 0 && firstErr != nil {
		return nil, firstErr
	}
	return result, nil
}

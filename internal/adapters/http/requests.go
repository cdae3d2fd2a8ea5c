package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

const maxJSONBodyBytes = 1 << 20

type customerDTO struct {
	Name   string `json:"name" validate:"omitempty,max=200"`
	Domain string `json:"domain" validate:"required,max=500"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

type icpDTO struct {
	Solution      string   `json:"solution" validate:"omitempty,max=500"`
	Workflows     []string `json:"workflows" validate:"required,min=1,max=20,dive,max=200"`
	Industries    []string `json:"industries" validate:"required,min=1,max=20,dive,max=200"`
	BuyerRoles    []string `json:"buyerRoles" validate:"required,min=1,max=20,dive,max=200"`
	Firmographics struct {
		Size string `json:"size" validate:"omitempty,max=200"`
		Geo  string `json:"geo" validate:"omitempty,max=200"`
	} `json:"firmographics"`
}

type analyzeRequest struct {
	OwnerID       string        `json:"ownerId" validate:"required,max=200"`
	Mode          string        `json:"mode" validate:"omitempty,oneof=seed_expansion competitor_discovery"`
	CompanyDomain string        `json:"companyDomain" validate:"omitempty,max=500"`
	Solution      string        `json:"solution" validate:"omitempty,max=500"`
	ICP           *icpDTO       `json:"icp"`
	Customers     []customerDTO `json:"customers" validate:"max=100,dive"`
	MaxProspects  int           `json:"maxProspects" validate:"gte=0,lte=500"`
}

type generateMoreRequest struct {
	OwnerID   string `json:"ownerId" validate:"required,max=200"`
	ICP       icpDTO `json:"icp"`
	BatchSize int    `json:"batchSize" validate:"gte=0,lte=200"`
}

func (d icpDTO) toDomain() domain.ICP {
	return domain.ICP{
		Solution:   d.Solution,
		Workflows:  d.Workflows,
		Industries: d.Industries,
		BuyerRoles: d.BuyerRoles,
		Firmographics: domain.Firmographics{
			Size: d.Firmographics.Size,
			Geo:  d.Firmographics.Geo,
		},
	}
}

func (r analyzeRequest) toDomain() domain.RunRequest {
	customers := make([]domain.Customer, 0, len(r.Customers))
	for _, c := range r.Customers {
		customers = append(customers, domain.Customer{Name: c.Name, Domain: c.Domain, Notes: c.Notes})
	}
	req := domain.RunRequest{
		OwnerID:       r.OwnerID,
		Mode:          domain.RunMode(r.Mode),
		CompanyDomain: r.CompanyDomain,
		Solution:      r.Solution,
		Customers:     customers,
		MaxProspects:  r.MaxProspects,
	}
	if r.ICP != nil {
		icp := r.ICP.toDomain()
		req.ICP = &icp
	}
	return req
}

func (r generateMoreRequest) toDomain() domain.GenerateMoreRequest {
	return domain.GenerateMoreRequest{
		OwnerID:   r.OwnerID,
		ICP:       r.ICP.toDomain(),
		BatchSize: r.BatchSize,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "-" || tag == "" {
			return fld.Name
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		return tag
	})
	return v
}

// decodeJSON reads a bounded JSON body into dst and validates it. Failures are
// returned as domain.ErrInvalidInput.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) error {
	const op = "decode request"
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.WrapError(domain.ErrInvalidInput, op, errors.New("request body is required"))
		}
		return domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("invalid json: %w", err))
	}
	if dec.More() {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("request body must hold a single json object"))
	}
	if err := v.Struct(dst); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, op, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, fe.Tag()))
	}
	return errors.New(strings.Join(problems, "; "))
}

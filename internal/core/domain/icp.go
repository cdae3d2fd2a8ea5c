package domain

import (
	"errors"
	"strings"
)

type Firmographics struct {
	Size string `json:"size" yaml:"size"`
	Geo  string `json:"geo" yaml:"geo"`
}

// ICP is the ideal customer profile every prospect is scored against. It is
// immutable for the duration of a run.
type ICP struct {
	Solution      string        `json:"solution"`
	Workflows     []string      `json:"workflows"`
	Industries    []string      `json:"industries"`
	BuyerRoles    []string      `json:"buyerRoles"`
	Firmographics Firmographics `json:"firmographics"`
}

// Validate checks the confirmed-ICP invariant: industries, workflows and
// buyer roles must each carry at least one non-blank term.
func (icp ICP) Validate() error {
	var problems []string
	if len(nonBlank(icp.Industries)) == 0 {
		problems = append(problems, "industries must not be empty")
	}
	if len(nonBlank(icp.Workflows)) == 0 {
		problems = append(problems, "workflows must not be empty")
	}
	if len(nonBlank(icp.BuyerRoles)) == 0 {
		problems = append(problems, "buyerRoles must not be empty")
	}
	if len(problems) > 0 {
		return WrapError(ErrInvalidInput, "validate icp", errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

// Normalized returns a copy with trimmed terms and blank entries removed.
func (icp ICP) Normalized() ICP {
	return ICP{
		Solution:   strings.TrimSpace(icp.Solution),
		Workflows:  nonBlank(icp.Workflows),
		Industries: nonBlank(icp.Industries),
		BuyerRoles: nonBlank(icp.BuyerRoles),
		Firmographics: Firmographics{
			Size: strings.TrimSpace(icp.Firmographics.Size),
			Geo:  strings.TrimSpace(icp.Firmographics.Geo),
		},
	}
}

func (icp ICP) FirstIndustry() string {
	if len(icp.Industries) == 0 {
		return ""
	}
	return icp.Industries[0]
}

func (icp ICP) FirstWorkflow() string {
	if len(icp.Workflows) == 0 {
		return ""
	}
	return icp.Workflows[0]
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package usecase

import (
	"strings"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

const (
	maxLearningExamples = 3
	goodScoreFloor      = 70
)

// buildLearningQuery turns previously rated prospects into a discovery query.
// Excellent ratings win over good ones; with no usable feedback the query is
// built from the ICP alone.
func buildLearningQuery(rated []domain.Company, icp domain.ICP) string {
	var excellent, good []string
	for _, prospect := range rated {
		name := strings.TrimSpace(prospect.Name)
		if name == "" {
			continue
		}
		switch {
		case prospect.Quality == domain.QualityExcellent:
			excellent = append(excellent, name)
		case prospect.Quality == domain.QualityGood || prospect.ICPScore >= goodScoreFloor:
			good = append(good, name)
		}
	}

	industries := strings.Join(icp.Industries, " or ")
	switch {
	case len(excellent) > 0:
		return joinQuery("companies like", examples(excellent), "in", industries)
	case len(good) > 0:
		return joinQuery("companies similar to", examples(good), "in", industries)
	default:
		return joinQuery(icp.FirstIndustry(), "companies", icp.Firmographics.Geo, icp.FirstWorkflow())
	}
}

func examples(names []string) string {
	if len(names) > maxLearningExamples {
		names = names[:maxLearningExamples]
	}
	return strings.Join(names, ", ")
}

func joinQuery(parts ...string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

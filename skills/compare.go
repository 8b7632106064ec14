package skills

import (
	"math"

	"github.com/poiesic/resumatch/core"
)

// Compare measures how many of the job's required skills the resume covers.
// Requirements on both sides are the union of technical skills and
// certifications. A job with no requirements scores 0.
func Compare(job, resume core.SkillProfile) core.SkillComparison {
	required := job.Requirements()
	if len(required) == 0 {
		return core.SkillComparison{
			MatchedSkills: []string{},
			MissingSkills: []string{},
		}
	}

	have := resume.Requirements()
	matched := make(map[string]struct{})
	missing := make(map[string]struct{})
	for item := range required {
		if _, ok := have[item]; ok {
			matched[item] = struct{}{}
		} else {
			missing[item] = struct{}{}
		}
	}

	return core.SkillComparison{
		Score:         Round2(100 * float64(len(matched)) / float64(len(required))),
		MatchedSkills: core.SortedSet(matched),
		MissingSkills: core.SortedSet(missing),
		TotalMatched:  len(matched),
		TotalRequired: len(required),
	}
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

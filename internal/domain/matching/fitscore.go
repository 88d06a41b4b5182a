package matching

import (
	"math"
	"strings"
)

// NormalizeSkill canonicalizes a skill for comparison and storage:
// trimmed, lower-cased.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSkills normalizes and de-duplicates, dropping empties.
// Order of first occurrence is preserved.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		n := NormalizeSkill(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// FitScore is the percentage of a job's required skills the applicant
// covers: round(100 * |matched| / |required|). Empty requirements score 0.
func FitScore(applicantSkills, requiredSkills []string) int {
	required := NormalizeSkills(requiredSkills)
	if len(required) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(applicantSkills))
	for _, s := range applicantSkills {
		n := NormalizeSkill(s)
		if n != "" {
			have[n] = struct{}{}
		}
	}

	matched := 0
	for _, r := range required {
		if _, ok := have[r]; ok {
			matched++
		}
	}

	score := int(math.Round(100 * float64(matched) / float64(len(required))))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// MatchedSkills returns the normalized intersection, in required-skill order.
func MatchedSkills(applicantSkills, requiredSkills []string) []string {
	have := make(map[string]struct{}, len(applicantSkills))
	for _, s := range applicantSkills {
		n := NormalizeSkill(s)
		if n != "" {
			have[n] = struct{}{}
		}
	}

	out := make([]string, 0)
	for _, r := range NormalizeSkills(requiredSkills) {
		if _, ok := have[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

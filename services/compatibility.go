package services

import (
	"math"

	"trailmate_server/models"
)

// CompatibilityScore rates how well b satisfies a's stated interests.
// Deliberately asymmetric: the hobby term is normalized by a's hobby
// count, so score(a, b) != score(b, a) in general.
//
//	hobby:    round(70 * shared / len(a.hobbies)), +10 when shared >= 3
//	language: 5 per shared language
//	age:      10 - |a.age - b.age| when the gap is at most 10
func CompatibilityScore(a, b *models.Profile) int {
	score := 0

	sharedHobbies := sharedCount(a.Hobbies, b.Hobbies)
	if len(a.Hobbies) > 0 && len(b.Hobbies) > 0 {
		score += int(math.Round(70 * float64(sharedHobbies) / float64(len(a.Hobbies))))
		if sharedHobbies >= 3 {
			score += 10
		}
	}

	score += 5 * sharedCount(a.Languages, b.Languages)

	ageGap := a.Age - b.Age
	if ageGap < 0 {
		ageGap = -ageGap
	}
	if ageGap <= 10 {
		score += 10 - ageGap
	}

	return score
}

func sharedCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	shared := 0
	for _, v := range b {
		if _, ok := set[v]; ok {
			shared++
			delete(set, v)
		}
	}
	return shared
}

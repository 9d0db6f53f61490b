package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"trailmate_server/models"
)

// DiscoveryService computes the candidate set a user can like or pass on.
type DiscoveryService struct {
	Dynamo       DataStore
	Profiles     *UserProfileService
	Interactions *InteractionService
}

type scoredCandidate struct {
	profile models.Profile
	score   int
}

// CandidateDiagnostics retains per-stage prune counts so the client can
// explain an empty result to the end user.
type CandidateDiagnostics struct {
	Population        int `json:"population"`
	PrunedUnmatchable int `json:"prunedUnmatchable"`
	PrunedByAge       int `json:"prunedByAge"`
	PrunedByGender    int `json:"prunedByGender"`
	PrunedByHistory   int `json:"prunedByHistory"`
	Remaining         int `json:"remaining"`
}

// GetCandidates returns eligible profiles ordered by descending
// compatibility score, ties keeping encounter order. A missing requester
// profile is ErrNoProfile, distinct from an empty result. An empty
// requester id is the signed-out soft no-op.
func (s *DiscoveryService) GetCandidates(ctx context.Context, requesterID string) ([]models.Profile, *CandidateDiagnostics, error) {
	if requesterID == "" {
		return nil, nil, nil
	}

	requester, err := s.Profiles.GetProfile(ctx, requesterID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch requester profile: %w", err)
	}
	if requester == nil {
		return nil, nil, ErrNoProfile
	}

	var population []models.Profile
	if err := s.Dynamo.ScanAll(ctx, models.UserProfilesTable, &population); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch user population: %w", err)
	}

	diagnostics := &CandidateDiagnostics{}

	// Users without a usable profile (missing name or age) or without a
	// single photo are not matchable at all; they are not counted as
	// pruned by a preference.
	candidates := make([]models.Profile, 0, len(population))
	for _, p := range population {
		if p.UserID == requesterID {
			continue
		}
		diagnostics.Population++
		if p.Name == "" || p.Age == 0 || !p.HasPhotos() {
			diagnostics.PrunedUnmatchable++
			continue
		}
		candidates = append(candidates, p)
	}

	candidates = s.filterByAge(requester, candidates, diagnostics)
	candidates = s.filterByGender(requester, candidates, diagnostics)
	candidates, err = s.filterByHistory(ctx, requesterID, candidates, diagnostics)
	if err != nil {
		return nil, nil, err
	}

	diagnostics.Remaining = len(candidates)
	log.Printf("Candidate filter for %s: %+v", requesterID, *diagnostics)

	// Scores travel with their profiles through the sort; a stable sort
	// keeps encounter order between equal scores.
	scored := make([]scoredCandidate, len(candidates))
	for i := range candidates {
		scored[i] = scoredCandidate{
			profile: candidates[i],
			score:   CompatibilityScore(requester, &candidates[i]),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	for i := range scored {
		candidates[i] = scored[i].profile
	}

	return candidates, diagnostics, nil
}

func (s *DiscoveryService) filterByAge(requester *models.Profile, candidates []models.Profile, diagnostics *CandidateDiagnostics) []models.Profile {
	kept := candidates[:0]
	for _, c := range candidates {
		if c.Age >= requester.AgeRangeMin && c.Age <= requester.AgeRangeMax {
			kept = append(kept, c)
		} else {
			diagnostics.PrunedByAge++
		}
	}
	return kept
}

func (s *DiscoveryService) filterByGender(requester *models.Profile, candidates []models.Profile, diagnostics *CandidateDiagnostics) []models.Profile {
	// An empty preference set means no gender filter.
	if len(requester.GenderPreference) == 0 {
		return candidates
	}

	preferred := make(map[string]struct{}, len(requester.GenderPreference))
	for _, g := range requester.GenderPreference {
		preferred[g] = struct{}{}
	}

	kept := candidates[:0]
	for _, c := range candidates {
		if _, ok := preferred[c.Gender]; ok {
			kept = append(kept, c)
		} else {
			diagnostics.PrunedByGender++
		}
	}
	return kept
}

func (s *DiscoveryService) filterByHistory(ctx context.Context, requesterID string, candidates []models.Profile, diagnostics *CandidateDiagnostics) ([]models.Profile, error) {
	interacted, err := s.Interactions.InteractedIDs(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interaction history: %w", err)
	}

	kept := candidates[:0]
	for _, c := range candidates {
		if _, seen := interacted[c.UserID]; seen {
			diagnostics.PrunedByHistory++
		} else {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

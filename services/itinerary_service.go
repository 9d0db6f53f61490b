package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"trailmate_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
)

// TextGenerator is the text-in/text-out contract of the external
// generation service.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// PlaceFinder looks up a place by free-text query. Not-found is
// (nil, nil); only transport failures are errors.
type PlaceFinder interface {
	FindPlace(ctx context.Context, query string) (*models.Place, error)
}

// ItineraryService builds a one-day itinerary: prompt construction, text
// generation, parsing into exactly three slot activities, and best-effort
// place enrichment.
type ItineraryService struct {
	Generator TextGenerator
	Places    PlaceFinder
	Dynamo    DataStore
}

// TripParams are the knobs of one generation request.
type TripParams struct {
	Location  string
	GroupSize int
	Budget    string
	Hints     []string
}

// BuildItineraryPrompt renders the generation prompt. The strict line
// format and the few-shot example steer the model toward parseable output.
func BuildItineraryPrompt(params TripParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a STRICT 1-day itinerary for %d people in %s with a %s budget.\n",
		params.GroupSize, params.Location, params.Budget)
	fmt.Fprintf(&b, "Each activity must include a specific, real-world location name and address in %s.\n", params.Location)
	b.WriteString("Use EXACTLY this format for each activity line:\n\n")
	b.WriteString("Morning: [Activity Name] - [Specific Location Name, Address]\n")
	b.WriteString("Afternoon: [Activity Name] - [Specific Location Name, Address]\n")
	b.WriteString("Evening: [Activity Name] - [Specific Location Name, Address]\n\n")
	b.WriteString("Example valid response:\n")
	b.WriteString("Morning: Central Park Visit - Central Park, 59th to 110th Street, New York, NY\n")
	b.WriteString("Afternoon: Metropolitan Museum Tour - 1000 5th Ave, New York, NY 10028\n")
	b.WriteString("Evening: Broadway Show - 1681 Broadway, New York, NY 10019\n")
	if len(params.Hints) > 0 {
		fmt.Fprintf(&b, "\nLean toward these interests: %s.\n", strings.Join(params.Hints, ", "))
	}
	fmt.Fprintf(&b, "\nNow generate for %s:\n", params.Location)
	return b.String()
}

// ParseItinerary extracts the three slot activities from generated text.
// A slot line that does not split into non-empty title and location on
// the first " - " is dropped rather than defaulted. Output is always in
// Morning/Afternoon/Evening order; divergent source order and duplicate
// slot lines are logged as anomalies, with the first occurrence winning.
func ParseItinerary(text string) ([]models.Activity, error) {
	bySlot := make(map[string]models.Activity, len(models.TimeSlots))
	var sourceOrder []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, slot := range models.TimeSlots {
			prefix := slot + ":"
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			remainder := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			title, location, ok := splitActivityLine(remainder)
			if !ok {
				log.Printf("Dropping malformed %s line: %q", slot, line)
				break
			}
			if _, dup := bySlot[slot]; dup {
				log.Printf("Duplicate %s line in generated text, keeping first", slot)
				break
			}
			bySlot[slot] = models.Activity{Slot: slot, Title: title, Location: location}
			sourceOrder = append(sourceOrder, slot)
			break
		}
	}

	if len(bySlot) != len(models.TimeSlots) {
		return nil, &ParseError{Recovered: len(bySlot), Want: len(models.TimeSlots)}
	}

	activities := make([]models.Activity, 0, len(models.TimeSlots))
	for i, slot := range models.TimeSlots {
		if sourceOrder[i] != slot {
			log.Printf("Generated slots out of order (%v), emitting fixed order", sourceOrder)
		}
		activities = append(activities, bySlot[slot])
	}
	return activities, nil
}

func splitActivityLine(s string) (title, location string, ok bool) {
	title, location, found := strings.Cut(s, " - ")
	title = strings.TrimSpace(title)
	location = strings.TrimSpace(location)
	if !found || title == "" || location == "" {
		return "", "", false
	}
	if strings.Contains(strings.ToLower(location), "undefined") {
		return "", "", false
	}
	return title, location, true
}

// Generate runs the full pipeline and returns exactly three enriched
// activities, or a GenerationError/ParseError.
func (s *ItineraryService) Generate(ctx context.Context, params TripParams) ([]models.Activity, error) {
	text, err := s.Generator.GenerateText(ctx, BuildItineraryPrompt(params))
	if err != nil {
		return nil, err
	}

	activities, err := ParseItinerary(text)
	if err != nil {
		return nil, err
	}

	for i := range activities {
		activities[i] = s.enrich(ctx, activities[i])
	}
	return activities, nil
}

// enrich attaches place metadata to one activity. Lookup failure or an
// empty result degrades to neutral defaults; it never fails the pipeline.
func (s *ItineraryService) enrich(ctx context.Context, activity models.Activity) models.Activity {
	place, err := s.Places.FindPlace(ctx, activity.Title+" "+activity.Location)
	if err != nil {
		log.Printf("⚠️ Place lookup failed for %q: %v", activity.Title, err)
	}
	if err != nil || place == nil {
		activity.Rating = "N/A"
		activity.PriceLevel = "N/A"
		activity.Photos = nil
		return activity
	}

	activity.Rating = place.Rating
	activity.ReviewCount = place.ReviewCount
	activity.PriceLevel = place.PriceLevel
	activity.Photos = place.Photos
	activity.WebURL = place.WebURL
	return activity
}

// RegenerateSlot generates and enriches a replacement activity for one
// time slot.
func (s *ItineraryService) RegenerateSlot(ctx context.Context, slot string, params TripParams) (*models.Activity, error) {
	prompt := fmt.Sprintf("Generate a %s activity for %d people in %s with a %s budget.\n"+
		"Provide a specific, real-world location name and address in %s.\n"+
		"Use format: [Activity Title] - [Specific Location Name, Address]",
		slot, params.GroupSize, params.Location, params.Budget, params.Location)

	text, err := s.Generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	line := firstNonEmptyLine(text)
	line = strings.TrimSpace(strings.TrimPrefix(line, slot+":"))
	title, location, ok := splitActivityLine(line)
	if !ok {
		return nil, &ParseError{Recovered: 0, Want: 1}
	}

	activity := s.enrich(ctx, models.Activity{Slot: slot, Title: title, Location: location})
	return &activity, nil
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// DiversityPolicy is the bounded retry loop around full regeneration: a
// fresh set is accepted only once at least MinFresh of its activities
// differ from the current itinerary. It is caller-level policy, separate
// from the generator, so it can be tested with a fake.
type DiversityPolicy struct {
	MaxAttempts int
	MinFresh    int
}

// DefaultDiversityPolicy accepts a set when 2 of 3 activities are new,
// giving up after 3 attempts.
var DefaultDiversityPolicy = DiversityPolicy{MaxAttempts: 3, MinFresh: 2}

// Regenerate calls generate until the freshness bar is met or attempts
// run out.
func (p DiversityPolicy) Regenerate(ctx context.Context, current []models.Activity, generate func(context.Context) ([]models.Activity, error)) ([]models.Activity, error) {
	seen := make(map[string]struct{}, len(current))
	for _, a := range current {
		seen[a.Identity()] = struct{}{}
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		candidates, err := generate(ctx)
		if err != nil {
			lastErr = err
			continue
		}

		fresh := 0
		for _, a := range candidates {
			if _, dup := seen[a.Identity()]; !dup {
				fresh++
			}
		}
		if fresh >= p.MinFresh {
			return candidates, nil
		}
		log.Printf("Regenerated itinerary too similar (%d fresh), retrying", fresh)
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("no sufficiently fresh itinerary after %d attempts", p.MaxAttempts)
}

// SaveTrip persists a generated itinerary under its owner.
func (s *ItineraryService) SaveTrip(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	if trip.UserID == "" {
		return nil, nil
	}
	if trip.TripID == "" {
		trip.TripID = uuid.NewString()
	}
	if trip.CreatedAt == "" {
		trip.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := s.Dynamo.PutItem(ctx, models.TripsTable, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}
	return trip, nil
}

// ListTrips returns a user's saved trips.
func (s *ItineraryService) ListTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	if userID == "" {
		return nil, nil
	}

	items, err := s.Dynamo.QueryByPartition(ctx, models.TripsTable, "userId", userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trips: %w", err)
	}

	var trips []models.Trip
	if err := attributevalue.UnmarshalListOfMaps(items, &trips); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trips: %w", err)
	}
	return trips, nil
}

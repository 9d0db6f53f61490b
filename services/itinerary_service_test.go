package services

import (
	"context"
	"errors"
	"testing"

	"trailmate_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator replays canned completions in order, recording the
// prompts it saw.
type scriptedGenerator struct {
	outputs []string
	errs    []error
	calls   int
	prompts []string
}

func (g *scriptedGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	i := g.calls
	g.calls++
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.outputs) {
		return g.outputs[i], nil
	}
	return "", errors.New("scripted generator exhausted")
}

type stubPlaces struct {
	place *models.Place
	err   error
}

func (p *stubPlaces) FindPlace(context.Context, string) (*models.Place, error) {
	return p.place, p.err
}

const wellFormedItinerary = `Morning: Central Park Visit - Central Park, 59th to 110th Street, New York, NY
Afternoon: Metropolitan Museum Tour - 1000 5th Ave, New York, NY 10028
Evening: Broadway Show - 1681 Broadway, New York, NY 10019`

func TestParseItinerary_WellFormed(t *testing.T) {
	activities, err := ParseItinerary(wellFormedItinerary)
	require.NoError(t, err)

	require.Len(t, activities, 3)
	assert.Equal(t, models.SlotMorning, activities[0].Slot)
	assert.Equal(t, "Central Park Visit", activities[0].Title)
	assert.Equal(t, "Central Park, 59th to 110th Street, New York, NY", activities[0].Location)
	assert.Equal(t, models.SlotAfternoon, activities[1].Slot)
	assert.Equal(t, models.SlotEvening, activities[2].Slot)
}

func TestParseItinerary_ReordersToFixedSlotOrder(t *testing.T) {
	shuffled := `Evening: Broadway Show - 1681 Broadway, New York, NY
Morning: Central Park Visit - Central Park, New York, NY
Afternoon: Museum Tour - 1000 5th Ave, New York, NY`

	activities, err := ParseItinerary(shuffled)
	require.NoError(t, err)

	require.Len(t, activities, 3)
	assert.Equal(t, models.SlotMorning, activities[0].Slot)
	assert.Equal(t, models.SlotAfternoon, activities[1].Slot)
	assert.Equal(t, models.SlotEvening, activities[2].Slot)
}

func TestParseItinerary_TwoValidLinesIsParseError(t *testing.T) {
	partial := `Morning: Central Park Visit - Central Park, New York, NY
Afternoon: Museum Tour - 1000 5th Ave, New York, NY
Some chatter the model added instead of the evening line.`

	_, err := ParseItinerary(partial)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Recovered)
	assert.Equal(t, 3, parseErr.Want)
}

func TestParseItinerary_DropsUndefinedLocations(t *testing.T) {
	text := `Morning: Central Park Visit - Central Park, New York, NY
Afternoon: Museum Tour - undefined
Evening: Broadway Show - 1681 Broadway, New York, NY`

	_, err := ParseItinerary(text)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Recovered)
}

func TestParseItinerary_DropsLinesWithoutSeparator(t *testing.T) {
	text := `Morning: Central Park Visit at Central Park
Afternoon: Museum Tour - 1000 5th Ave, New York, NY
Evening: Broadway Show - 1681 Broadway, New York, NY`

	_, err := ParseItinerary(text)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Recovered)
}

func TestParseItinerary_DuplicateSlotKeepsFirst(t *testing.T) {
	text := wellFormedItinerary + "\nMorning: Second Breakfast - Somewhere Else, New York, NY"

	activities, err := ParseItinerary(text)
	require.NoError(t, err)
	assert.Equal(t, "Central Park Visit", activities[0].Title)
}

func TestParseItinerary_IgnoresSurroundingChatter(t *testing.T) {
	text := "Here is your itinerary!\n\n" + wellFormedItinerary + "\n\nEnjoy your day!"

	activities, err := ParseItinerary(text)
	require.NoError(t, err)
	assert.Len(t, activities, 3)
}

func TestBuildItineraryPrompt_IncludesHintsOnlyWhenPresent(t *testing.T) {
	params := TripParams{Location: "Lisbon", GroupSize: 2, Budget: "moderate"}

	prompt := BuildItineraryPrompt(params)
	assert.Contains(t, prompt, "2 people in Lisbon")
	assert.Contains(t, prompt, "moderate budget")
	assert.NotContains(t, prompt, "Lean toward these interests")

	params.Hints = []string{"street art", "seafood"}
	prompt = BuildItineraryPrompt(params)
	assert.Contains(t, prompt, "Lean toward these interests: street art, seafood.")
}

func TestItineraryService_GenerateEnrichesActivities(t *testing.T) {
	ctx := context.Background()
	svc := &ItineraryService{
		Generator: &scriptedGenerator{outputs: []string{wellFormedItinerary}},
		Places: &stubPlaces{place: &models.Place{
			Name:        "Central Park",
			Rating:      "4.8",
			ReviewCount: 120000,
			PriceLevel:  "$",
			Photos:      []string{"https://img.example/park.jpg"},
			WebURL:      "https://tripadvisor.example/central-park",
		}},
		Dynamo: newMemoryStore(),
	}

	activities, err := svc.Generate(ctx, TripParams{Location: "New York", GroupSize: 2, Budget: "moderate"})
	require.NoError(t, err)

	require.Len(t, activities, 3)
	for _, a := range activities {
		assert.Equal(t, "4.8", a.Rating)
		assert.Equal(t, 120000, a.ReviewCount)
		assert.Equal(t, "$", a.PriceLevel)
		assert.NotEmpty(t, a.Photos)
	}
}

func TestItineraryService_EnrichmentFailureDegradesToDefaults(t *testing.T) {
	ctx := context.Background()
	svc := &ItineraryService{
		Generator: &scriptedGenerator{outputs: []string{wellFormedItinerary}},
		Places:    &stubPlaces{err: errors.New("tripadvisor timeout")},
		Dynamo:    newMemoryStore(),
	}

	activities, err := svc.Generate(ctx, TripParams{Location: "New York", GroupSize: 2, Budget: "moderate"})
	require.NoError(t, err, "enrichment failure must not fail the pipeline")

	require.Len(t, activities, 3)
	for _, a := range activities {
		assert.Equal(t, "N/A", a.Rating)
		assert.Equal(t, "N/A", a.PriceLevel)
		assert.Empty(t, a.Photos)
	}
}

func TestItineraryService_PlaceNotFoundDegradesToDefaults(t *testing.T) {
	ctx := context.Background()
	svc := &ItineraryService{
		Generator: &scriptedGenerator{outputs: []string{wellFormedItinerary}},
		Places:    &stubPlaces{},
		Dynamo:    newMemoryStore(),
	}

	activities, err := svc.Generate(ctx, TripParams{Location: "New York", GroupSize: 2, Budget: "moderate"})
	require.NoError(t, err)
	assert.Equal(t, "N/A", activities[0].Rating)
}

func TestItineraryService_GenerateSurfacesGeneratorError(t *testing.T) {
	ctx := context.Background()
	svc := &ItineraryService{
		Generator: &scriptedGenerator{errs: []error{&GenerationError{Reason: "status 503"}}},
		Places:    &stubPlaces{},
		Dynamo:    newMemoryStore(),
	}

	_, err := svc.Generate(ctx, TripParams{Location: "New York", GroupSize: 2, Budget: "moderate"})

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestItineraryService_RegenerateSlot(t *testing.T) {
	ctx := context.Background()
	gen := &scriptedGenerator{outputs: []string{"Afternoon: Tram 28 Ride - Praça Martim Moniz, Lisbon"}}
	svc := &ItineraryService{Generator: gen, Places: &stubPlaces{}, Dynamo: newMemoryStore()}

	activity, err := svc.RegenerateSlot(ctx, models.SlotAfternoon, TripParams{Location: "Lisbon", GroupSize: 2, Budget: "low"})
	require.NoError(t, err)

	assert.Equal(t, models.SlotAfternoon, activity.Slot)
	assert.Equal(t, "Tram 28 Ride", activity.Title)
	assert.Equal(t, "Praça Martim Moniz, Lisbon", activity.Location)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Afternoon activity")
}

func TestItineraryService_RegenerateSlotWithoutPrefix(t *testing.T) {
	ctx := context.Background()
	gen := &scriptedGenerator{outputs: []string{"Fado Dinner - Alfama, Lisbon"}}
	svc := &ItineraryService{Generator: gen, Places: &stubPlaces{}, Dynamo: newMemoryStore()}

	activity, err := svc.RegenerateSlot(ctx, models.SlotEvening, TripParams{Location: "Lisbon", GroupSize: 2, Budget: "low"})
	require.NoError(t, err)
	assert.Equal(t, "Fado Dinner", activity.Title)
}

func TestItineraryService_RegenerateSlotMalformedLine(t *testing.T) {
	ctx := context.Background()
	gen := &scriptedGenerator{outputs: []string{"Sorry, I cannot help with that."}}
	svc := &ItineraryService{Generator: gen, Places: &stubPlaces{}, Dynamo: newMemoryStore()}

	_, err := svc.RegenerateSlot(ctx, models.SlotMorning, TripParams{Location: "Lisbon", GroupSize: 2, Budget: "low"})

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 0, parseErr.Recovered)
}

func regenSet(titles ...string) []models.Activity {
	activities := make([]models.Activity, len(titles))
	for i, title := range titles {
		activities[i] = models.Activity{Slot: models.TimeSlots[i], Title: title, Location: "Lisbon"}
	}
	return activities
}

func TestDiversityPolicy_AcceptsFreshSet(t *testing.T) {
	current := regenSet("Park", "Museum", "Show")
	policy := DiversityPolicy{MaxAttempts: 3, MinFresh: 2}

	calls := 0
	result, err := policy.Regenerate(context.Background(), current, func(context.Context) ([]models.Activity, error) {
		calls++
		return regenSet("Castle", "Aquarium", "Show"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Castle", result[0].Title)
}

func TestDiversityPolicy_RetriesTooSimilarSets(t *testing.T) {
	current := regenSet("Park", "Museum", "Show")
	policy := DiversityPolicy{MaxAttempts: 3, MinFresh: 2}

	attempts := [][]models.Activity{
		regenSet("Park", "Museum", "Bar"),       // 1 fresh, rejected
		regenSet("Castle", "Museum", "Show"),    // 1 fresh, rejected
		regenSet("Castle", "Aquarium", "Beach"), // 3 fresh, accepted
	}
	calls := 0
	result, err := policy.Regenerate(context.Background(), current, func(context.Context) ([]models.Activity, error) {
		set := attempts[calls]
		calls++
		return set, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "Castle", result[0].Title)
}

func TestDiversityPolicy_GivesUpAfterMaxAttempts(t *testing.T) {
	current := regenSet("Park", "Museum", "Show")
	policy := DiversityPolicy{MaxAttempts: 2, MinFresh: 2}

	calls := 0
	_, err := policy.Regenerate(context.Background(), current, func(context.Context) ([]models.Activity, error) {
		calls++
		return current, nil
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDiversityPolicy_ReturnsLastGenerationError(t *testing.T) {
	policy := DiversityPolicy{MaxAttempts: 2, MinFresh: 2}
	genErr := &GenerationError{Reason: "status 503"}

	_, err := policy.Regenerate(context.Background(), nil, func(context.Context) ([]models.Activity, error) {
		return nil, genErr
	})

	assert.ErrorIs(t, err, genErr)
}

func TestItineraryService_SaveAndListTrips(t *testing.T) {
	ctx := context.Background()
	svc := &ItineraryService{Generator: &scriptedGenerator{}, Places: &stubPlaces{}, Dynamo: newMemoryStore()}

	trip := &models.Trip{
		UserID:     "alice",
		Location:   "Lisbon",
		Activities: regenSet("Castle", "Aquarium", "Fado Dinner"),
	}
	saved, err := svc.SaveTrip(ctx, trip)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.TripID)
	assert.NotEmpty(t, saved.CreatedAt)

	trips, err := svc.ListTrips(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Lisbon", trips[0].Location)

	none, err := svc.ListTrips(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestItineraryService_SaveTripSignedOutIsSoftNoOp(t *testing.T) {
	svc := &ItineraryService{Dynamo: newMemoryStore()}

	saved, err := svc.SaveTrip(context.Background(), &models.Trip{Location: "Lisbon"})
	assert.NoError(t, err)
	assert.Nil(t, saved)
}

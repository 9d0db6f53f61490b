package models

// Activity is one slot of a generated one-day itinerary. Rating and
// PriceLevel default to "N/A" when place enrichment fails or finds
// nothing.
type Activity struct {
	Slot        string   `dynamodbav:"slot" json:"slot"`
	Title       string   `dynamodbav:"title" json:"title"`
	Location    string   `dynamodbav:"location" json:"location"`
	Rating      string   `dynamodbav:"rating,omitempty" json:"rating,omitempty"`
	ReviewCount int      `dynamodbav:"reviewCount,omitempty" json:"reviewCount,omitempty"`
	PriceLevel  string   `dynamodbav:"priceLevel,omitempty" json:"priceLevel,omitempty"`
	Photos      []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	WebURL      string   `dynamodbav:"webUrl,omitempty" json:"webUrl,omitempty"`
}

// Identity is the de-duplication key used when judging whether a
// regenerated activity is actually new.
func (a Activity) Identity() string {
	return a.Title + " - " + a.Location
}

// Trip is a saved itinerary owned by one user.
type Trip struct {
	UserID     string     `dynamodbav:"userId" json:"userId"`
	TripID     string     `dynamodbav:"tripId" json:"tripId"`
	Location   string     `dynamodbav:"location" json:"location"`
	GroupSize  int        `dynamodbav:"groupSize,omitempty" json:"groupSize,omitempty"`
	Budget     string     `dynamodbav:"budget,omitempty" json:"budget,omitempty"`
	Activities []Activity `dynamodbav:"activities" json:"activities"`
	CreatedAt  string     `dynamodbav:"createdAt" json:"createdAt"`
}

// Place is the structured record a places lookup returns.
type Place struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Rating      string   `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	PriceLevel  string   `json:"priceLevel"`
	Photos      []string `json:"photos"`
	WebURL      string   `json:"webUrl"`
}

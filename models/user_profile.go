package models

// Profile defines the structure for user profiles
type Profile struct {
	UserID           string   `dynamodbav:"userId" json:"userId" validate:"required"`
	Name             string   `dynamodbav:"name" json:"name" validate:"required"`
	Age              int      `dynamodbav:"age" json:"age" validate:"required,gte=18"`
	Gender           string   `dynamodbav:"gender" json:"gender" validate:"required"`
	Bio              string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Images           []string `dynamodbav:"images,omitempty" json:"images,omitempty" validate:"max=6"`
	Hobbies          []string `dynamodbav:"hobbies,omitempty" json:"hobbies,omitempty"`
	Languages        []string `dynamodbav:"languages,omitempty" json:"languages,omitempty"`
	AgeRangeMin      int      `dynamodbav:"ageRangeMin" json:"ageRangeMin" validate:"gte=18"`
	AgeRangeMax      int      `dynamodbav:"ageRangeMax" json:"ageRangeMax" validate:"gtefield=AgeRangeMin"`
	GenderPreference []string `dynamodbav:"genderPreference,omitempty" json:"genderPreference,omitempty"`
	CreatedAt        string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// HasPhotos reports whether the profile can be shown as a candidate.
// Profiles without at least one image are not matchable.
func (p *Profile) HasPhotos() bool {
	return len(p.Images) > 0
}

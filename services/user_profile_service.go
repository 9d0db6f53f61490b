package services

import (
	"context"
	"fmt"
	"time"

	"trailmate_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-playground/validator/v10"
)

// UserProfileService reads and writes profile documents. Pure data access
// plus payload validation; no matchmaking logic lives here.
type UserProfileService struct {
	Dynamo   DataStore
	validate *validator.Validate
}

func NewUserProfileService(dynamo DataStore) *UserProfileService {
	return &UserProfileService{
		Dynamo:   dynamo,
		validate: validator.New(),
	}
}

// SaveProfile validates and upserts a profile. The first save creates the
// document; later saves replace it. Malformed documents are rejected, not
// coerced.
func (ups *UserProfileService) SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := ups.validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	if profile.CreatedAt == "" {
		profile.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// GetProfile retrieves a profile by user id; a missing profile is
// (nil, nil) so callers can distinguish it from a store failure.
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if item == nil {
		return nil, nil
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

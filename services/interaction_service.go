package services

import (
	"context"
	"fmt"
	"time"

	"trailmate_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// InteractionService is the ledger of per-pair interaction records. Each
// user owns four record sets (like, pass, match, unmatch), all stored in
// one table keyed (userId, "<kind>#<otherId>"). Add and Remove are
// idempotent so every caller is safe to retry.
type InteractionService struct {
	Dynamo DataStore
}

func interactionItemKey(userID, otherID, kind string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId":    &types.AttributeValueMemberS{Value: userID},
		"recordKey": &types.AttributeValueMemberS{Value: models.InteractionRecordKey(kind, otherID)},
	}
}

func newInteractionRecord(userID, otherID, kind string) models.Interaction {
	return models.Interaction{
		UserID:    userID,
		RecordKey: models.InteractionRecordKey(kind, otherID),
		OtherID:   otherID,
		Kind:      kind,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Has reports whether a record of the given kind exists for the pair.
func (s *InteractionService) Has(ctx context.Context, userID, otherID, kind string) (bool, error) {
	item, err := s.Dynamo.GetItem(ctx, models.InteractionsTable, interactionItemKey(userID, otherID, kind))
	if err != nil {
		return false, fmt.Errorf("failed to check %s record: %w", kind, err)
	}
	return item != nil, nil
}

// Add upserts a record; re-adding an existing record is a no-op.
func (s *InteractionService) Add(ctx context.Context, userID, otherID, kind string) error {
	if err := s.Dynamo.PutItem(ctx, models.InteractionsTable, newInteractionRecord(userID, otherID, kind)); err != nil {
		return fmt.Errorf("failed to save %s record: %w", kind, err)
	}
	return nil
}

// Remove deletes a record if present.
func (s *InteractionService) Remove(ctx context.Context, userID, otherID, kind string) error {
	if err := s.Dynamo.DeleteItem(ctx, models.InteractionsTable, interactionItemKey(userID, otherID, kind)); err != nil {
		return fmt.Errorf("failed to remove %s record: %w", kind, err)
	}
	return nil
}

// HasTerminal reports whether any terminal record (match, pass, unmatch)
// exists from userID toward otherID. Terminal records block new like/pass
// actions on the pair until an explicit reset.
func (s *InteractionService) HasTerminal(ctx context.Context, userID, otherID string) (bool, error) {
	for _, kind := range models.TerminalKinds {
		found, err := s.Has(ctx, userID, otherID, kind)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// InteractedIDs returns every user that userID holds any record about,
// regardless of kind. One partition query serves the candidate filter.
func (s *InteractionService) InteractedIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	records, err := s.listRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(records))
	for _, record := range records {
		ids[record.OtherID] = struct{}{}
	}
	return ids, nil
}

// ResetAll clears all four record sets of userID. Records other users hold
// about userID are left untouched.
func (s *InteractionService) ResetAll(ctx context.Context, userID string) error {
	records, err := s.listRecords(ctx, userID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(records))
	for _, record := range records {
		keys = append(keys, interactionItemKey(userID, record.OtherID, record.Kind))
	}
	if err := s.Dynamo.BatchDeleteItems(ctx, models.InteractionsTable, keys); err != nil {
		return fmt.Errorf("failed to reset interactions for %s: %w", userID, err)
	}
	return nil
}

func (s *InteractionService) listRecords(ctx context.Context, userID string) ([]models.Interaction, error) {
	items, err := s.Dynamo.QueryByPartition(ctx, models.InteractionsTable, "userId", userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions for %s: %w", userID, err)
	}

	var records []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	return records, nil
}

package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"trailmate_server/models"
	"trailmate_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxChatPurgeBatch bounds one delete sweep over a chat's messages so a
// single logical purge never exceeds the store's atomic write ceiling.
const maxChatPurgeBatch = 450

// MatchService drives the per-pair state machine: like, pass, the atomic
// promotion of a mutual like into a match, unmatch, and reset. All
// symmetric transitions go through one transactional write so a match
// record can never exist without its counterpart or its chat.
type MatchService struct {
	Dynamo       DataStore
	Interactions *InteractionService

	pairLocks [64]sync.Mutex
}

// pairLock serializes concurrent transitions on the same pair, whichever
// side initiates them. Two simultaneous likes must not double-create a
// match or its chat.
func (s *MatchService) pairLock(userA, userB string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(utils.ChatID(userA, userB)))
	return &s.pairLocks[h.Sum32()%uint32(len(s.pairLocks))]
}

// Like records a like from actor to target. It returns true when this
// like completed a mutual pair and a match was created. Signed-out
// callers and already-interacted pairs are silent no-ops.
func (s *MatchService) Like(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == "" || targetID == "" || actorID == targetID {
		return false, nil
	}

	lock := s.pairLock(actorID, targetID)
	lock.Lock()
	defer lock.Unlock()

	blocked, err := s.Interactions.HasTerminal(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}

	alreadyLiked, err := s.Interactions.Has(ctx, actorID, targetID, models.InteractionKindLike)
	if err != nil {
		return false, err
	}
	if alreadyLiked {
		return false, nil
	}

	reciprocal, err := s.Interactions.Has(ctx, targetID, actorID, models.InteractionKindLike)
	if err != nil {
		return false, err
	}

	if !reciprocal {
		if err := s.Interactions.Add(ctx, actorID, targetID, models.InteractionKindLike); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.createMatch(ctx, actorID, targetID); err != nil {
		return false, err
	}
	log.Printf("🎉 Match created: %s ❤️ %s", actorID, targetID)
	return true, nil
}

// createMatch promotes a mutual like in one all-or-nothing batch: both
// match records written, both like records removed, chat document created.
func (s *MatchService) createMatch(ctx context.Context, actorID, targetID string) error {
	chat := models.Chat{
		ChatID:       utils.ChatID(actorID, targetID),
		Participants: []string{actorID, targetID},
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	ops := []TransactWriteOp{
		{Put: &TransactPut{Table: models.InteractionsTable, Item: newInteractionRecord(actorID, targetID, models.InteractionKindMatch)}},
		{Put: &TransactPut{Table: models.InteractionsTable, Item: newInteractionRecord(targetID, actorID, models.InteractionKindMatch)}},
		{Delete: &TransactDelete{Table: models.InteractionsTable, Key: interactionItemKey(actorID, targetID, models.InteractionKindLike)}},
		{Delete: &TransactDelete{Table: models.InteractionsTable, Key: interactionItemKey(targetID, actorID, models.InteractionKindLike)}},
		{Put: &TransactPut{Table: models.ChatsTable, Item: chat}},
	}

	if err := s.Dynamo.TransactWrite(ctx, ops); err != nil {
		return fmt.Errorf("failed to create match for %s and %s: %w", actorID, targetID, err)
	}
	return nil
}

// Pass records a one-sided pass. The target never sees any record of it.
func (s *MatchService) Pass(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" || actorID == targetID {
		return nil
	}

	lock := s.pairLock(actorID, targetID)
	lock.Lock()
	defer lock.Unlock()

	blocked, err := s.Interactions.HasTerminal(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return nil
	}

	return s.Interactions.Add(ctx, actorID, targetID, models.InteractionKindPass)
}

// Unmatch dissolves a match: both match records deleted, both unmatch
// tombstones written, any stray likes removed, all in one atomic batch;
// then the chat and its messages are purged. It proceeds when only one
// match direction survives a prior partial write, always leaving the pair
// in the unmatched terminal state.
func (s *MatchService) Unmatch(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" || actorID == targetID {
		return nil
	}

	lock := s.pairLock(actorID, targetID)
	lock.Lock()
	defer lock.Unlock()

	matchedForward, err := s.Interactions.Has(ctx, actorID, targetID, models.InteractionKindMatch)
	if err != nil {
		return err
	}
	matchedBackward, err := s.Interactions.Has(ctx, targetID, actorID, models.InteractionKindMatch)
	if err != nil {
		return err
	}
	if !matchedForward && !matchedBackward {
		// A prior unmatch may have committed its tombstones and then
		// failed mid-purge. Resume the purge in that case so the chat
		// and its messages cannot be orphaned.
		tombstoned, err := s.Interactions.Has(ctx, actorID, targetID, models.InteractionKindUnmatch)
		if err != nil {
			return err
		}
		if !tombstoned {
			return nil
		}
		return s.purgeChat(ctx, utils.ChatID(actorID, targetID))
	}

	ops := []TransactWriteOp{
		{Delete: &TransactDelete{Table: models.InteractionsTable, Key: interactionItemKey(actorID, targetID, models.InteractionKindMatch)}},
		{Delete: &TransactDelete{Table: models.InteractionsTable, Key: interactionItemKey(targetID, actorID, models.InteractionKindMatch)}},
		{Put: &TransactPut{Table: models.InteractionsTable, Item: newInteractionRecord(actorID, targetID, models.InteractionKindUnmatch)}},
		{Put: &TransactPut{Table: models.InteractionsTable, Item: newInteractionRecord(targetID, actorID, models.InteractionKindUnmatch)}},
		{Delete: &TransactDelete{Table: models.InteractionsTable, Key: interactionItemKey(actorID, targetID, models.InteractionKindLike)}},
		{Delete: &TransactDelete{Table: models.InteractionsTable, Key: interactionItemKey(targetID, actorID, models.InteractionKindLike)}},
	}
	if err := s.Dynamo.TransactWrite(ctx, ops); err != nil {
		return fmt.Errorf("failed to unmatch %s and %s: %w", actorID, targetID, err)
	}

	return s.purgeChat(ctx, utils.ChatID(actorID, targetID))
}

// purgeChat deletes a chat's messages in bounded sweeps, then the chat
// document. Each sweep re-queries the store, so a retry after a partial
// failure resumes at the first undeleted message.
func (s *MatchService) purgeChat(ctx context.Context, chatID string) error {
	for {
		items, err := s.Dynamo.QueryByPartition(ctx, models.MessagesTable, "chatId", chatID, maxChatPurgeBatch)
		if err != nil {
			return fmt.Errorf("failed to list messages of chat %s: %w", chatID, err)
		}
		if len(items) == 0 {
			break
		}

		keys := make([]map[string]types.AttributeValue, 0, len(items))
		for _, item := range items {
			keys = append(keys, map[string]types.AttributeValue{
				"chatId":    item["chatId"],
				"createdAt": item["createdAt"],
			})
		}
		if err := s.Dynamo.BatchDeleteItems(ctx, models.MessagesTable, keys); err != nil {
			return fmt.Errorf("failed to purge messages of chat %s: %w", chatID, err)
		}
		if len(items) < maxChatPurgeBatch {
			break
		}
	}

	chatKey := map[string]types.AttributeValue{
		"chatId": &types.AttributeValueMemberS{Value: chatID},
	}
	if err := s.Dynamo.DeleteItem(ctx, models.ChatsTable, chatKey); err != nil {
		return fmt.Errorf("failed to delete chat %s: %w", chatID, err)
	}
	log.Printf("Chat %s purged", chatID)
	return nil
}

// ResetInteractions clears all four of the user's record sets. Records
// other users hold about this user stay in place by design.
func (s *MatchService) ResetInteractions(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return s.Interactions.ResetAll(ctx, userID)
}

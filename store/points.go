package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

// ErrInsufficientPoints is returned when a reward claim would take a
// contact's balance below zero.
var ErrInsufficientPoints = errors.New("not enough points to claim reward")

const rewardsKey = "rewards:all"

// PointsByContact lists a contact's transactions, newest first.
func (s *Store) PointsByContact(ctx context.Context, contactID string) ([]model.PointsTransaction, error) {
	if contactID == "" {
		return nil, missingField("points by contact", "contactId")
	}

	records, err := s.api.Select(ctx, TablePoints, airtable.SelectOptions{
		Formula: airtable.Contains(model.PointsFieldContact, contactID),
		Sort:    []airtable.SortField{{Field: model.PointsFieldDate, Direction: "desc"}},
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizePointsTransactions(records), nil
}

// PointsByTeam lists a team's transactions, newest first.
func (s *Store) PointsByTeam(ctx context.Context, teamID string) ([]model.PointsTransaction, error) {
	if teamID == "" {
		return nil, missingField("points by team", "teamId")
	}

	records, err := s.api.Select(ctx, TablePoints, airtable.SelectOptions{
		Formula: airtable.Contains(model.PointsFieldTeam, teamID),
		Sort:    []airtable.SortField{{Field: model.PointsFieldDate, Direction: "desc"}},
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizePointsTransactions(records), nil
}

// PointsBalance sums a contact's transactions.
func (s *Store) PointsBalance(ctx context.Context, contactID string) (int, error) {
	transactions, err := s.PointsByContact(ctx, contactID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, tx := range transactions {
		total += tx.Amount
	}
	return total, nil
}

// Rewards lists everything points can be spent on.
func (s *Store) Rewards(ctx context.Context) ([]model.Reward, error) {
	return cachedFetch(ctx, s, rewardsKey, func(ctx context.Context) ([]model.Reward, error) {
		records, err := s.api.Select(ctx, TableRewards, airtable.SelectOptions{
			Sort: []airtable.SortField{{Field: model.RewardFieldCost}},
		})
		if err != nil {
			return nil, err
		}
		return model.NormalizeRewards(records), nil
	})
}

// ClaimReward debits the reward's cost from the contact and marks the
// reward claimed. The two writes are sequential with no rollback: if
// marking the reward fails after the debit landed, the error says so and
// the partial state must be resolved manually.
func (s *Store) ClaimReward(ctx context.Context, contactID, rewardID string) (*model.PointsTransaction, error) {
	if contactID == "" {
		return nil, missingField("claim reward", "contactId")
	}
	if rewardID == "" {
		return nil, missingField("claim reward", "rewardId")
	}

	rewardRec, err := s.api.Find(ctx, TableRewards, rewardID)
	if err != nil {
		return nil, fmt.Errorf("claim reward: %w", err)
	}
	reward := model.NormalizeReward(rewardRec)
	if reward == nil {
		return nil, fmt.Errorf("claim reward: reward %q not found", rewardID)
	}

	balance, err := s.PointsBalance(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("claim reward: %w", err)
	}
	if balance < reward.Cost {
		return nil, fmt.Errorf("claim reward: %w", ErrInsufficientPoints)
	}

	amount := -reward.Cost
	description := "Claimed reward: " + reward.Name
	date := s.now()
	txRec, err := s.api.Create(ctx, TablePoints, model.PointsTransactionPatch{
		ContactID:   &contactID,
		Amount:      &amount,
		Description: &description,
		Date:        &date,
	}.Fields())
	if err != nil {
		return nil, fmt.Errorf("claim reward: debit: %w", err)
	}

	claimedBy := append(append([]string{}, reward.ClaimedByIDs...), contactID)
	if _, err := s.api.Update(ctx, TableRewards, rewardID, (model.RewardPatch{ClaimedByIDs: &claimedBy}).Fields()); err != nil {
		// The debit already landed; surface which step completed.
		return nil, fmt.Errorf("claim reward: debit succeeded but marking reward %q claimed failed: %w", rewardID, err)
	}

	s.invalidate(ctx, rewardsKey)
	return model.NormalizePointsTransaction(txRec), nil
}

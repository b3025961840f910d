package model

import (
	"time"

	"github.com/propelhq/propel-api/airtable"
)

// Raw column names in the Points Transactions table.
const (
	PointsFieldContact     = "Contact"
	PointsFieldTeam        = "Team"
	PointsFieldAmount      = "Amount"
	PointsFieldDescription = "Description"
	PointsFieldDate        = "Date"
)

// Raw column names in the Rewards table.
const (
	RewardFieldName      = "Name"
	RewardFieldCost      = "Cost"
	RewardFieldClaimedBy = "Claimed By"
)

// PointsTransaction credits or debits points to a contact or a team.
// Reward claims appear as negative amounts.
type PointsTransaction struct {
	ID          string    `json:"id"`
	ContactID   string    `json:"contactId"`
	TeamID      string    `json:"teamId"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// NormalizePointsTransaction maps a raw store record.
func NormalizePointsTransaction(rec *airtable.Record) *PointsTransaction {
	if rec == nil {
		return nil
	}
	return &PointsTransaction{
		ID:          rec.ID,
		ContactID:   rec.Fields.FirstString(PointsFieldContact),
		TeamID:      rec.Fields.FirstString(PointsFieldTeam),
		Amount:      rec.Fields.Int(PointsFieldAmount),
		Description: rec.Fields.String(PointsFieldDescription),
		Date:        rec.Fields.Time(PointsFieldDate),
	}
}

// NormalizePointsTransactions maps a result page.
func NormalizePointsTransactions(recs []airtable.Record) []PointsTransaction {
	out := make([]PointsTransaction, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizePointsTransaction(&recs[i]))
	}
	return out
}

// PointsTransactionPatch is a sparse create for a points transaction.
type PointsTransactionPatch struct {
	ContactID   *string
	TeamID      *string
	Amount      *int
	Description *string
	Date        *time.Time
}

// Fields renders the patch as raw store columns.
func (p PointsTransactionPatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.ContactID != nil {
		fields[PointsFieldContact] = []string{*p.ContactID}
	}
	if p.TeamID != nil {
		fields[PointsFieldTeam] = []string{*p.TeamID}
	}
	if p.Amount != nil {
		fields[PointsFieldAmount] = *p.Amount
	}
	if p.Description != nil {
		fields[PointsFieldDescription] = *p.Description
	}
	if p.Date != nil {
		fields[PointsFieldDate] = p.Date.Format(time.RFC3339)
	}
	return fields
}

// Reward is something points can be spent on.
type Reward struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Cost         int      `json:"cost"`
	ClaimedByIDs []string `json:"claimedByIds"`
}

// NormalizeReward maps a raw store record.
func NormalizeReward(rec *airtable.Record) *Reward {
	if rec == nil {
		return nil
	}
	return &Reward{
		ID:           rec.ID,
		Name:         rec.Fields.String(RewardFieldName),
		Cost:         rec.Fields.Int(RewardFieldCost),
		ClaimedByIDs: rec.Fields.StringSlice(RewardFieldClaimedBy),
	}
}

// NormalizeRewards maps a result page.
func NormalizeRewards(recs []airtable.Record) []Reward {
	out := make([]Reward, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeReward(&recs[i]))
	}
	return out
}

// RewardPatch is a sparse update for a reward record.
type RewardPatch struct {
	ClaimedByIDs *[]string
}

// Fields renders the patch as raw store columns.
func (p RewardPatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.ClaimedByIDs != nil {
		fields[RewardFieldClaimedBy] = *p.ClaimedByIDs
	}
	return fields
}

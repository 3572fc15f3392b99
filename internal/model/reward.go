package model

import "time"

// Reward is a catalog entry users can redeem points for.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – short display title.
//  Description – longer marketing text.
//  PointsCost  – points debited on redemption.
//  Category    – catalog grouping (Groceries, Transit, Eco, ...).
type Reward struct {
    ID          uint64 // rewards.id
    Title       string // rewards.title
    Description string // rewards.description
    PointsCost  int64  // rewards.points_cost
    Category    string // rewards.category
}

// Redemption records a completed reward purchase. Rows are append-only and
// are only ever created inside the redemption transaction, so every row
// corresponds to a points debit of exactly the reward's cost at that time.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – redeeming user.
//  RewardID  – redeemed catalog entry.
//  Code      – opaque redemption code shown to the user as proof.
//  CreatedAt – timestamp of the transaction.
type Redemption struct {
    ID        uint64    // redemptions.id
    UserID    uint64    // redemptions.user_id
    RewardID  uint64    // redemptions.reward_id
    Code      string    // redemptions.code
    CreatedAt time.Time // redemptions.created_at
}

package api

import (
	"encoding/json"

	"github.com/Slayer-Regen/ecoquest-client/activity"
	"github.com/Slayer-Regen/ecoquest-client/session"
)

// envelope is the JSON shape every endpoint responds with.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Profile is the GET /api/users payload: identity plus server-computed
// aggregates and streak.
type Profile struct {
	User   ProfileUser   `json:"user"`
	Stats  *ProfileStats `json:"stats,omitempty"`
	Streak *Streak       `json:"streak,omitempty"`
}

type ProfileUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type ProfileStats struct {
	TotalCo2Kg      float64 `json:"totalCo2Kg"`
	CurrentBalance  int64   `json:"currentBalance"`
	TotalActivities int64   `json:"totalActivities"`
}

// Streak is server-computed; the client only displays it.
type Streak struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
	NextMilestone int `json:"nextMilestone"`
}

// SessionUser flattens a profile into the session store's user record.
func (p *Profile) SessionUser() *session.User {
	user := &session.User{
		ID:          p.User.ID,
		Email:       p.User.Email,
		DisplayName: p.User.DisplayName,
		AvatarURL:   p.User.AvatarURL,
	}
	if p.Stats != nil {
		user.TotalCo2Kg = p.Stats.TotalCo2Kg
		user.PointsBalance = p.Stats.CurrentBalance
		user.TotalActivities = p.Stats.TotalActivities
	}
	return user
}

// Activity is a logged activity as the server returns it. The payload keeps
// the per-type details; co2_kg is server-computed.
type Activity struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Type         activity.Type   `json:"type"`
	ActivityDate string          `json:"activity_date"`
	Co2Kg        float64         `json:"co2_kg"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    string          `json:"created_at,omitempty"`
}

// Dashboard is the GET /api/dashboard aggregate.
type Dashboard struct {
	TotalCo2Kg      float64 `json:"totalCo2Kg"`
	TotalActivities int64   `json:"totalActivities"`
	PointsBalance   int64   `json:"pointsBalance"`
	Streak          *Streak `json:"streak,omitempty"`
}

type PointsBalance struct {
	Balance int64 `json:"balance"`
}

// RedeemRequest is the POST /api/points/redeem body.
type RedeemRequest struct {
	RewardID string `json:"rewardId"`
	Cost     int64  `json:"cost"`
	Name     string `json:"name"`
}

type Redemption struct {
	ID                string `json:"id"`
	RewardID          string `json:"rewardId"`
	RewardName        string `json:"rewardName"`
	RewardDescription string `json:"rewardDescription,omitempty"`
	PointsSpent       int64  `json:"pointsSpent"`
	Status            string `json:"status"`
	RedeemedAt        string `json:"redeemedAt"`
}

// Leaderboard kinds and periods accepted by GET /api/leaderboard/:type.
const (
	LeaderboardGlobal = "global"
	LeaderboardPoints = "points"

	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

type LeaderboardQuery struct {
	Type   string // LeaderboardGlobal or LeaderboardPoints
	Period string // week, month or all
	Limit  int
}

type LeaderboardEntry struct {
	UserID        string  `json:"userId"`
	DisplayName   string  `json:"displayName"`
	AvatarURL     string  `json:"avatarUrl,omitempty"`
	Rank          int     `json:"rank"`
	TotalCo2      float64 `json:"totalCo2"`
	TotalPoints   int64   `json:"totalPoints"`
	ActivityCount int64   `json:"activityCount"`
	IsCurrentUser bool    `json:"isCurrentUser"`
}

type Leaderboard struct {
	Entries  []LeaderboardEntry `json:"leaderboard"`
	UserRank *LeaderboardEntry  `json:"userRank,omitempty"`
}

// Analytics periods for GET /api/analytics/*.
const (
	Analytics7d  = "7d"
	Analytics30d = "30d"
	Analytics90d = "90d"
)

type EmissionsPoint struct {
	Period   string  `json:"period"`
	TotalCo2 float64 `json:"totalCo2"`
}

type EmissionsSeries struct {
	TimeSeries []EmissionsPoint `json:"timeSeries"`
}

type BreakdownItem struct {
	Type       activity.Type `json:"type"`
	TotalCo2   float64       `json:"totalCo2"`
	Percentage float64       `json:"percentage"`
}

type Breakdown struct {
	Items []BreakdownItem `json:"breakdown"`
	Total float64         `json:"total"`
}

type Summary struct {
	ID            string  `json:"id"`
	WeekStart     string  `json:"weekStart"`
	WeekEnd       string  `json:"weekEnd"`
	TotalCo2Kg    float64 `json:"totalCo2Kg"`
	TotalPoints   int64   `json:"totalPoints"`
	ActivityCount int64   `json:"activityCount"`
}

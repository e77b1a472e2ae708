package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Slayer-Regen/ecoquest-client/activity"
)

// GetUser fetches the current user's profile. Requires a bearer token.
func (c *Client) GetUser(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/api/users", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListActivities returns the given page of the user's activity log.
func (c *Client) ListActivities(ctx context.Context, page int) ([]Activity, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{"page": {strconv.Itoa(page)}}
	var activities []Activity
	if err := c.get(ctx, "/api/activities", query, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// CreateActivity validates the request client-side and submits it. The
// server computes the CO2 figure and point award.
func (c *Client) CreateActivity(ctx context.Context, req activity.LogRequest) (*Activity, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid activity: %w", err)
	}
	var created Activity
	if err := c.post(ctx, "/api/activities", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteActivity(ctx context.Context, id string) error {
	return c.del(ctx, "/api/activities/"+url.PathEscape(id))
}

func (c *Client) GetDashboard(ctx context.Context) (*Dashboard, error) {
	var dashboard Dashboard
	if err := c.get(ctx, "/api/dashboard", nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) GetPoints(ctx context.Context) (*PointsBalance, error) {
	var balance PointsBalance
	if err := c.get(ctx, "/api/points", nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// RedeemReward submits a redemption. Callers are expected to have checked
// the balance already; the server is still the authority.
func (c *Client) RedeemReward(ctx context.Context, req RedeemRequest) (*Redemption, error) {
	var redemption Redemption
	if err := c.post(ctx, "/api/points/redeem", req, &redemption); err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (c *Client) GetRedemptionHistory(ctx context.Context) ([]Redemption, error) {
	var redemptions []Redemption
	if err := c.get(ctx, "/api/points/history", nil, &redemptions); err != nil {
		return nil, err
	}
	return redemptions, nil
}

func (c *Client) GetLeaderboard(ctx context.Context, q LeaderboardQuery) (*Leaderboard, error) {
	if q.Type == "" {
		q.Type = LeaderboardGlobal
	}
	if q.Period == "" {
		q.Period = PeriodAll
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	query := url.Values{
		"period": {q.Period},
		"limit":  {strconv.Itoa(q.Limit)},
	}
	var leaderboard Leaderboard
	if err := c.get(ctx, "/api/leaderboard/"+url.PathEscape(q.Type), query, &leaderboard); err != nil {
		return nil, err
	}
	return &leaderboard, nil
}

func (c *Client) GetAnalyticsEmissions(ctx context.Context, period, groupBy string) (*EmissionsSeries, error) {
	if period == "" {
		period = Analytics7d
	}
	if groupBy == "" {
		groupBy = "day"
	}
	query := url.Values{"period": {period}, "groupBy": {groupBy}}
	var series EmissionsSeries
	if err := c.get(ctx, "/api/analytics/emissions", query, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func (c *Client) GetAnalyticsBreakdown(ctx context.Context, period string) (*Breakdown, error) {
	if period == "" {
		period = Analytics30d
	}
	query := url.Values{"period": {period}}
	var breakdown Breakdown
	if err := c.get(ctx, "/api/analytics/breakdown", query, &breakdown); err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (c *Client) GetSummaries(ctx context.Context) ([]Summary, error) {
	var summaries []Summary
	if err := c.get(ctx, "/api/summaries", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *Client) GenerateSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.post(ctx, "/api/summaries/generate", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

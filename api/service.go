package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Slayer-Regen/ecoquest-client/activity"
)

// Service binds the typed endpoints to the cache: queries declare the tags
// they provide, mutations run the request and then invalidate, returning
// only after dependent refetches settle.
type Service struct {
	client *Client
	cache  *Cache
}

func NewService(client *Client, cache *Cache) *Service {
	return &Service{client: client, cache: cache}
}

// Client exposes the underlying transport for callers that bypass the
// cache (exports, the auth flow's direct profile fetch).
func (s *Service) Client() *Client {
	return s.client
}

// Cache exposes the cache for direct subscription.
func (s *Service) Cache() *Cache {
	return s.cache
}

// --- query descriptors ---

func (s *Service) UserQuery() Query {
	return Query{
		Endpoint: "/api/users",
		Tags:     []Tag{TagUser},
		Fetch: func(ctx context.Context) (any, error) {
			return s.client.GetUser(ctx)
		},
	}
}

func (s *Service) ActivitiesQuery(page int) Query {
	if page < 1 {
		page = 1
	}
	return Query{
		Endpoint: "/api/activities",
		Params:   url.Values{"page": {strconv.Itoa(page)}},
		Tags:     []Tag{TagActivity},
		Fetch: func(ctx context.Context) (any, error) {
			return s.client.ListActivities(ctx, page)
		},
	}
}

func (s *Service) DashboardQuery() Query {
	return Query{
		Endpoint: "/api/dashboard",
		Tags:     []Tag{TagDashboard},
		Fetch: func(ctx context.Context) (any, error) {
			return s.client.GetDashboard(ctx)
		},
	}
}

func (s *Service) PointsQuery() Query {
	return Query{
		Endpoint: "/api/points",
		Tags:     []Tag{TagPoints},
		Fetch: func(ctx context.Context) (any, error) {
			return s.client.GetPoints(ctx)
		},
	}
}

func (s *Service) RedemptionHistoryQuery() Query {
	return Query{
		Endpoint: "/api/points/history",
		Tags:     []Tag{TagPoints},
		Fetch: func(ctx context.Context) (any, error) {
			return s.client.GetRedemptionHistory(ctx)
		},
	}
}

func (s *Service) LeaderboardQuery(q LeaderboardQuery) Query {
	if q.Type == "" {
		q.Type = LeaderboardGlobal
	}
	if q.Period == "" {
		q.Period = PeriodAll
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	return Query{
		Endpoint: "/api/leaderboard/" + q.Type,
		Params:   url.Values{"period": {q.Period}, "limit": {strconv.Itoa(q.Limit)}},
		Tags:     []Tag{TagLeaderboard},
		Fetch: func(ctx context.Context) (any, error) {
			return s.client.GetLeaderboard(ctx, q)
		},
	}
}

func (s *Service) AnalyticsEmissionsQuery(period, groupBy string) Query {
	if period == "" {
		period = Analytics7d
	}
	if groupBy == "" {
		groupBy = "day"
	}
	return Query{
		Endpoint: "/api/analytics/emissions",
		Params:   url.Values{"period": {period}, "groupBy": {groupBy}},
		Tags:     []Tag{TagAnalytics},
		Fetch: func(ctx context.Context) (any, error) {
			return s.client.GetAnalyticsEmissions(ctx, period, groupBy)
		},
	}
}

func (s *Service) AnalyticsBreakdownQuery(period string) Query {
	if period == "" {
		period = Analytics30d
	}
	return Query{
		Endpoint: "/api/analytics/breakdown",
		Params:   url.Values{"period": {period}},
		Tags:     []Tag{TagAnalytics},
		Fetch: func(ctx context.Context) (any, error) {
			return s.client.GetAnalyticsBreakdown(ctx, period)
		},
	}
}

func (s *Service) SummariesQuery() Query {
	return Query{
		Endpoint: "/api/summaries",
		Tags:     []Tag{TagSummaries},
		Fetch: func(ctx context.Context) (any, error) {
			return s.client.GetSummaries(ctx)
		},
	}
}

// --- blocking reads through the cache ---

func (s *Service) User(ctx context.Context) (*Profile, error) {
	return getAs[*Profile](ctx, s.cache, s.UserQuery())
}

func (s *Service) Activities(ctx context.Context, page int) ([]Activity, error) {
	return getAs[[]Activity](ctx, s.cache, s.ActivitiesQuery(page))
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	return getAs[*Dashboard](ctx, s.cache, s.DashboardQuery())
}

func (s *Service) Points(ctx context.Context) (*PointsBalance, error) {
	return getAs[*PointsBalance](ctx, s.cache, s.PointsQuery())
}

func (s *Service) RedemptionHistory(ctx context.Context) ([]Redemption, error) {
	return getAs[[]Redemption](ctx, s.cache, s.RedemptionHistoryQuery())
}

func (s *Service) Leaderboard(ctx context.Context, q LeaderboardQuery) (*Leaderboard, error) {
	return getAs[*Leaderboard](ctx, s.cache, s.LeaderboardQuery(q))
}

func (s *Service) AnalyticsEmissions(ctx context.Context, period, groupBy string) (*EmissionsSeries, error) {
	return getAs[*EmissionsSeries](ctx, s.cache, s.AnalyticsEmissionsQuery(period, groupBy))
}

func (s *Service) AnalyticsBreakdown(ctx context.Context, period string) (*Breakdown, error) {
	return getAs[*Breakdown](ctx, s.cache, s.AnalyticsBreakdownQuery(period))
}

func (s *Service) Summaries(ctx context.Context) ([]Summary, error) {
	return getAs[[]Summary](ctx, s.cache, s.SummariesQuery())
}

// --- mutations ---

// LogActivity creates an activity, then invalidates Activity and Dashboard
// so mounted queries refetch before the call returns.
func (s *Service) LogActivity(ctx context.Context, req activity.LogRequest) (*Activity, error) {
	created, err := s.client.CreateActivity(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, TagActivity, TagDashboard)
	return created, nil
}

func (s *Service) DeleteActivity(ctx context.Context, id string) error {
	if err := s.client.DeleteActivity(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, TagActivity, TagDashboard)
	return nil
}

// Redeem guards the redemption client-side: with a balance below the cost
// no request is issued at all. On success Points and Dashboard refetch.
func (s *Service) Redeem(ctx context.Context, req RedeemRequest) (*Redemption, error) {
	balance, err := s.Points(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	if balance.Balance < req.Cost {
		return nil, ErrInsufficientPoints
	}

	redemption, err := s.client.RedeemReward(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, TagPoints, TagDashboard)
	return redemption, nil
}

func (s *Service) GenerateSummary(ctx context.Context) (*Summary, error) {
	summary, err := s.client.GenerateSummary(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, TagSummaries)
	return summary, nil
}

// getAs runs the query through the cache and asserts the payload type.
func getAs[T any](ctx context.Context, cache *Cache, q Query) (T, error) {
	var zero T
	data, err := cache.Get(ctx, q)
	if err != nil {
		return zero, err
	}
	typed, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected payload type %T for %s", data, q.Key())
	}
	return typed, nil
}

package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/oddsedge/internal/config"
	"github.com/yourusername/oddsedge/internal/metrics"
	"github.com/yourusername/oddsedge/internal/models"
)

// sportKeys maps league names to odds API sport keys.
var sportKeys = map[string]string{
	"NBA":        "basketball_nba",
	"NCAAB":      "basketball_ncaab",
	"NFL":        "americanfootball_nfl",
	"NCAAF":      "americanfootball_ncaaf",
	"NHL":        "icehockey_nhl",
	"MLB":        "baseball_mlb",
	"UFC":        "mma_mixed_martial_arts",
	"EPL":        "soccer_epl",
	"LALIGA":     "soccer_spain_la_liga",
	"SERIEA":     "soccer_italy_serie_a",
	"BUNDESLIGA": "soccer_germany_bundesliga",
	"LIGUE1":     "soccer_france_ligue_one",
	"MLS":        "soccer_usa_mls",
	"UCL":        "soccer_uefa_champs_league",
}

// SportKey resolves a league name to the provider's sport key.
func SportKey(league string) (string, error) {
	if key, ok := sportKeys[strings.ToUpper(league)]; ok {
		return key, nil
	}
	return "", fmt.Errorf("no sport key for league %q", league)
}

// APIError is a structured error response from the odds API.
type APIError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("odds api error (%s): %s", e.Code, e.Message)
}

// EventOdds pairs a scheduled game with its current moneyline quote.
type EventOdds struct {
	Game  *models.GameRecord
	Quote *models.OddsQuote
}

// OddsAPIClient fetches h2h odds and final scores from the odds API.
type OddsAPIClient struct {
	cfg    *config.OddsAPIConfig
	http   *RateLimitedHTTPClient
	logger *logrus.Logger
}

// NewOddsAPIClient creates an odds API client using the shared rate-limited
// HTTP client.
func NewOddsAPIClient(cfg *config.OddsAPIConfig, logger *logrus.Logger) *OddsAPIClient {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.RetryAttempts > 0 {
		httpCfg.MaxRetries = cfg.RetryAttempts
	}
	if cfg.RateLimitPerSecond > 0 {
		httpCfg.RateLimit = cfg.RateLimitPerSecond
	}

	return &OddsAPIClient{
		cfg:    cfg,
		http:   NewRateLimitedHTTPClient(httpCfg, logger),
		logger: logger,
	}
}

// Close releases the underlying HTTP client resources.
func (c *OddsAPIClient) Close() error {
	return c.http.Close()
}

// GameID derives a stable game identifier from the provider's event ID so
// repeated polls and the scores endpoint converge on the same record.
func GameID(sportKey, eventID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("the-odds-api/"+sportKey+"/"+eventID))
}

type apiOutcome struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type apiMarket struct {
	Key      string       `json:"key"`
	Outcomes []apiOutcome `json:"outcomes"`
}

type apiBookmaker struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Markets []apiMarket `json:"markets"`
}

type apiEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	SportTitle   string         `json:"sport_title"`
	CommenceTime time.Time      `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Bookmakers   []apiBookmaker `json:"bookmakers"`
}

type apiScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

type apiScoreEvent struct {
	ID           string     `json:"id"`
	SportKey     string     `json:"sport_key"`
	CommenceTime time.Time  `json:"commence_time"`
	Completed    bool       `json:"completed"`
	HomeTeam     string     `json:"home_team"`
	AwayTeam     string     `json:"away_team"`
	Scores       []apiScore `json:"scores"`
}

// FetchOdds retrieves the current h2h moneyline quotes for a league's
// upcoming events.
func (c *OddsAPIClient) FetchOdds(ctx context.Context, league string) ([]EventOdds, error) {
	sportKey, err := SportKey(league)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"apiKey":     {c.cfg.APIKey},
		"regions":    {c.cfg.Regions},
		"markets":    {"h2h"},
		"oddsFormat": {"american"},
		"dateFormat": {"iso"},
	}

	var events []apiEvent
	if err := c.getJSON(ctx, fmt.Sprintf("%s/sports/%s/odds", c.cfg.BaseURL, sportKey), params, &events); err != nil {
		return nil, err
	}

	capturedAt := time.Now().UTC()
	results := make([]EventOdds, 0, len(events))
	for i := range events {
		event := &events[i]
		quote, ok := c.quoteFromEvent(event, capturedAt)
		if !ok {
			continue
		}
		results = append(results, EventOdds{
			Game: &models.GameRecord{
				ID:        GameID(sportKey, event.ID),
				League:    strings.ToUpper(league),
				HomeTeam:  event.HomeTeam,
				AwayTeam:  event.AwayTeam,
				StartTime: event.CommenceTime,
			},
			Quote: quote,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"league": league,
		"events": len(events),
		"quoted": len(results),
	}).Info("fetched odds")

	return results, nil
}

// FetchScores retrieves completed games from the scores endpoint, looking
// back daysFrom days (provider supports 1 to 3).
func (c *OddsAPIClient) FetchScores(ctx context.Context, league string, daysFrom int) ([]*models.GameRecord, error) {
	sportKey, err := SportKey(league)
	if err != nil {
		return nil, err
	}

	if daysFrom < 1 {
		daysFrom = 1
	}
	if daysFrom > 3 {
		daysFrom = 3
	}

	params := url.Values{
		"apiKey":     {c.cfg.APIKey},
		"daysFrom":   {fmt.Sprintf("%d", daysFrom)},
		"dateFormat": {"iso"},
	}

	var events []apiScoreEvent
	if err := c.getJSON(ctx, fmt.Sprintf("%s/sports/%s/scores", c.cfg.BaseURL, sportKey), params, &events); err != nil {
		return nil, err
	}

	var games []*models.GameRecord
	for i := range events {
		event := &events[i]
		if !event.Completed {
			continue
		}
		homeScore, awayScore, ok := scoresByName(event)
		if !ok {
			continue
		}
		games = append(games, &models.GameRecord{
			ID:        GameID(sportKey, event.ID),
			League:    strings.ToUpper(league),
			HomeTeam:  event.HomeTeam,
			AwayTeam:  event.AwayTeam,
			StartTime: event.CommenceTime,
			HomeScore: &homeScore,
			AwayScore: &awayScore,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"league":    league,
		"completed": len(games),
	}).Info("fetched scores")

	return games, nil
}

// quoteFromEvent extracts a moneyline quote from the preferred bookmaker.
// Events with no usable market yield no quote.
func (c *OddsAPIClient) quoteFromEvent(event *apiEvent, capturedAt time.Time) (*models.OddsQuote, bool) {
	bookmaker := c.pickBookmaker(event.Bookmakers)
	if bookmaker == nil {
		return nil, false
	}

	var market *apiMarket
	for i := range bookmaker.Markets {
		if bookmaker.Markets[i].Key == "h2h" {
			market = &bookmaker.Markets[i]
			break
		}
	}
	if market == nil {
		return nil, false
	}

	quote := &models.OddsQuote{
		GameID:     GameID(event.SportKey, event.ID),
		Bookmaker:  bookmaker.Key,
		CapturedAt: capturedAt,
		Class:      models.QuoteLive,
	}

	var haveHome, haveAway bool
	for _, outcome := range market.Outcomes {
		price := int(outcome.Price.IntPart())
		switch {
		case outcome.Name == event.HomeTeam:
			quote.HomePrice = price
			haveHome = true
		case outcome.Name == event.AwayTeam:
			quote.AwayPrice = price
			haveAway = true
		case strings.EqualFold(outcome.Name, "draw") || strings.EqualFold(outcome.Name, "tie"):
			p := price
			quote.DrawPrice = &p
		}
	}
	if !haveHome || !haveAway {
		return nil, false
	}

	return quote, true
}

// pickBookmaker returns the first configured bookmaker present on the event,
// falling back to the event's first bookmaker.
func (c *OddsAPIClient) pickBookmaker(bookmakers []apiBookmaker) *apiBookmaker {
	if len(bookmakers) == 0 {
		return nil
	}
	for _, preferred := range c.cfg.Bookmakers {
		for i := range bookmakers {
			if bookmakers[i].Key == preferred {
				return &bookmakers[i]
			}
		}
	}
	return &bookmakers[0]
}

func scoresByName(event *apiScoreEvent) (home, away float64, ok bool) {
	var haveHome, haveAway bool
	for _, score := range event.Scores {
		value, err := decimal.NewFromString(score.Score)
		if err != nil {
			continue
		}
		switch score.Name {
		case event.HomeTeam:
			home = value.InexactFloat64()
			haveHome = true
		case event.AwayTeam:
			away = value.InexactFloat64()
			haveAway = true
		}
	}
	return home, away, haveHome && haveAway
}

func (c *OddsAPIClient) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	started := time.Now()
	resp, err := c.http.Get(ctx, endpoint+"?"+params.Encode())
	metrics.RecordOddsFetch(time.Since(started).Seconds(), err)
	if err != nil {
		return fmt.Errorf("odds api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr == nil && apiErr.Code != "" {
			return apiErr
		}
		return fmt.Errorf("odds api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode odds api response: %w", err)
	}
	return nil
}

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/utils"
)

// DailyIntake returns the per-category intake recorded for a user on date.
func (c *Client) DailyIntake(ctx context.Context, userID int64, date time.Time) (models.NutrientTotals, error) {
	if userID <= 0 {
		return models.NutrientTotals{}, fmt.Errorf("%w: invalid user id %d", apperrors.ErrBadRequest, userID)
	}
	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))
	query.Set("date", utils.FormatDate(date))
	return c.fetchTotals(ctx, "/api/daily_intake", query)
}

// GoalSettings returns the per-category daily goals of a user.
func (c *Client) GoalSettings(ctx context.Context, userID int64) (models.NutrientTotals, error) {
	if userID <= 0 {
		return models.NutrientTotals{}, fmt.Errorf("%w: invalid user id %d", apperrors.ErrBadRequest, userID)
	}
	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))
	return c.fetchTotals(ctx, "/api/goal_settings", query)
}

// fetchTotals decodes a flat category map. Non-numeric values count as zero.
func (c *Client) fetchTotals(ctx context.Context, path string, query url.Values) (models.NutrientTotals, error) {
	var raw map[string]json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return models.NutrientTotals{}, err
	}

	values := make(map[string]float64, len(raw))
	for k, v := range raw {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			var s string
			if json.Unmarshal(v, &s) != nil {
				continue
			}
			if f, err = strconv.ParseFloat(s, 64); err != nil {
				continue
			}
		}
		values[k] = f
	}
	return models.NutrientTotalsFromMap(values), nil
}

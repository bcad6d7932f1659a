package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vitatrack/vitatrack/internal/constants"
	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/logger"
	"github.com/vitatrack/vitatrack/internal/models"
	"github.com/vitatrack/vitatrack/internal/utils"
)

const maxResponseBytes = 8 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the server origin, e.g. http://localhost:4000. Any path is ignored.
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// CreateResult carries the identifiers assigned by the server on create.
type CreateResult struct {
	FoodID  int64
	EntryID *int64
}

// Client maps records to and from the backend wire schema. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	origin string
	http   *http.Client
	now    func() time.Time
}

func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid server URL %q: %v", apperrors.ErrBadRequest, cfg.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: server URL must be an absolute http(s) URL, got %q", apperrors.ErrBadRequest, cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		origin: u.Scheme + "://" + u.Host,
		http:   httpClient,
		now:    time.Now,
	}, nil
}

// Origin returns the scheme and host used to resolve relative paths.
func (c *Client) Origin() string {
	return c.origin
}

// NormalizeImageURL passes absolute http(s) URLs through unchanged and
// prefixes relative paths with the server origin.
func (c *Client) NormalizeImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.origin + raw
}

// Fetch returns the records of a user, optionally restricted to a date and meal type.
func (c *Client) Fetch(ctx context.Context, userID int64, date *time.Time, mealType *models.MealType) ([]models.Record, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id %d", apperrors.ErrBadRequest, userID)
	}

	query := url.Values{}
	if date != nil {
		query.Set("date", utils.FormatDate(*date))
	}
	if mealType != nil {
		query.Set("meal_type", string(*mealType))
	}

	var resp envelope[[]mealRecordDTO]
	if err := c.doJSON(ctx, http.MethodGet, "/api/meal-records/"+strconv.FormatInt(userID, 10), query, nil, &resp); err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(resp.Data))
	for _, dto := range resp.Data {
		records = append(records, c.toRecord(dto))
	}
	logger.Debug("Fetched meal records", "user_id", userID, "count", len(records))
	return records, nil
}

func (c *Client) toRecord(dto mealRecordDTO) models.Record {
	date, err := utils.ParseDate(dto.RecordDate)
	if err != nil {
		logger.Warn("Unparsable record date, using current date", "record_date", dto.RecordDate, "food_id", dto.FoodID.Value)
		date = c.now()
	}

	mealType, err := models.ParseMealType(dto.MealType)
	if err != nil {
		mealType = models.MealBreakfast
	}

	calories := int(math.Round(dto.Calories))
	if calories < 0 {
		calories = 0
	}

	unit := dto.Unit
	if unit == "" {
		unit = constants.DefaultUnit
	}

	var amount *float64
	if dto.Amount != nil && *dto.Amount > 0 {
		amount = models.Float64(*dto.Amount)
	}

	var imageURL string
	if dto.ImageURL != nil {
		imageURL = c.NormalizeImageURL(*dto.ImageURL)
	}

	return models.Record{
		LocalID:  models.NewLocalID(),
		ServerID: dto.FoodID.ptr(),
		EntryID:  dto.ID.ptr(),
		Name:     dto.Name,
		Calories: calories,
		Unit:     unit,
		Amount:   amount,
		MealType: &mealType,
		Date:     date,
		ImageURL: imageURL,
	}
}

// Create persists a new record for userID and returns the server-assigned identifiers.
func (c *Client) Create(ctx context.Context, userID int64, r models.Record) (CreateResult, error) {
	mealType := models.MealBreakfast
	if r.MealType != nil {
		mealType = *r.MealType
	}
	amount := constants.DefaultAmount
	if r.Amount != nil {
		amount = *r.Amount
	}

	body := createRequest{
		Name:     strings.TrimSpace(r.Name),
		Calories: r.Calories,
		Unit:     strings.TrimSpace(r.Unit),
		Date:     r.Date.UTC().Format(time.RFC3339),
		UserID:   userID,
		MealType: string(mealType),
		Amount:   amount,
		ImageURL: strings.TrimSpace(r.ImageURL),
	}

	var resp envelope[*createResponseData]
	if err := c.doJSON(ctx, http.MethodPost, "/api/foods", nil, body, &resp); err != nil {
		return CreateResult{}, err
	}
	if resp.Data == nil || resp.Data.FoodID == nil || !resp.Data.FoodID.Set {
		return CreateResult{}, fmt.Errorf("%w: create response has no food_id", apperrors.ErrBadResponse)
	}

	result := CreateResult{FoodID: resp.Data.FoodID.Value}
	if resp.Data.ID != nil {
		result.EntryID = resp.Data.ID.ptr()
	}
	if result.FoodID == 0 {
		logger.Warn("Server returned a zero food_id", "name", body.Name)
	}
	logger.Debug("Created record", "food_id", result.FoodID, "entry_id", result.EntryID)
	return result, nil
}

// Update pushes the editable fields of a synced record.
func (c *Client) Update(ctx context.Context, r models.Record) error {
	if r.ServerID == nil {
		return fmt.Errorf("%w: cannot update %q", apperrors.ErrMissingIdentifier, r.Name)
	}
	amount := constants.DefaultAmount
	if r.Amount != nil {
		amount = *r.Amount
	}

	body := updateRequest{
		Name:     strings.TrimSpace(r.Name),
		Calories: r.Calories,
		Unit:     strings.TrimSpace(r.Unit),
		Amount:   amount,
		ImageURL: strings.TrimSpace(r.ImageURL),
	}
	return c.doJSON(ctx, http.MethodPut, "/api/foods/"+strconv.FormatInt(*r.ServerID, 10), nil, body, nil)
}

// Delete removes a meal record by its server identifier.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/meal-records/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// doJSON sends a request with an optional JSON body and decodes a JSON
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", apperrors.ErrBadRequest, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s %s: %v", apperrors.ErrBadResponse, method, path, err)
	}
	return nil
}

// send executes req and returns the body of a 2xx response.
func (c *Client) send(req *http.Request) ([]byte, error) {
	logger.Debug("Sending request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrNetworkUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(data)
		if len(snippet) > constants.MaxErrorBodyBytes {
			snippet = snippet[:constants.MaxErrorBodyBytes]
		}
		logger.Debug("Non-success response", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "body", snippet)
		return nil, fmt.Errorf("%w: %s %s returned status %d", apperrors.ErrBadResponse, req.Method, req.URL.Path, resp.StatusCode)
	}
	return data, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.origin + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// flexInt accepts a JSON number, a numeric string or null. Some backend
// routes return ids as strings.
type flexInt struct {
	Value int64
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = flexInt{}
		return nil
	}
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = flexInt{}
			return nil
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fv, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || fv != float64(int64(fv)) {
			return fmt.Errorf("invalid identifier %s", string(b))
		}
		v = int64(fv)
	}
	*f = flexInt{Value: v, Set: true}
	return nil
}

func (f flexInt) ptr() *int64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

type mealRecordDTO struct {
	ID         flexInt  `json:"id"`
	FoodID     flexInt  `json:"food_id"`
	Name       string   `json:"name"`
	Calories   float64  `json:"calories"`
	Unit       string   `json:"unit"`
	Amount     *float64 `json:"amount"`
	MealType   string   `json:"meal_type"`
	RecordDate string   `json:"record_date"`
	ImageURL   *string  `json:"image_url"`
}

type createRequest struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Unit     string  `json:"unit"`
	Date     string  `json:"date"`
	UserID   int64   `json:"user_id"`
	MealType string  `json:"meal_type"`
	Amount   float64 `json:"amount"`
	ImageURL string  `json:"image_url,omitempty"`
}

type createResponseData struct {
	FoodID *flexInt `json:"food_id"`
	ID     *flexInt `json:"id"`
}

type updateRequest struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	Unit     string  `json:"unit"`
	Amount   float64 `json:"amount"`
	ImageURL string  `json:"image_url,omitempty"`
}

type uploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

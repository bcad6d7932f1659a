package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	apperrors "github.com/vitatrack/vitatrack/internal/errors"
	"github.com/vitatrack/vitatrack/internal/logger"
)

// UploadImage posts a food photo and returns its absolute URL.
func (c *Client) UploadImage(ctx context.Context, userID int64, filename string, image io.Reader) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("%w: invalid user id %d", apperrors.ErrBadRequest, userID)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("foodImage", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("%w: failed to read image: %v", apperrors.ErrBadRequest, err)
	}
	if err := form.WriteField("user_id", strconv.FormatInt(userID, 10)); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/uploadFoodImage", nil), &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	data, err := c.send(req)
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := json.Unmarshal(data, &resp); err != nil || resp.ImageURL == "" {
		return "", fmt.Errorf("%w: upload response has no imageUrl", apperrors.ErrBadResponse)
	}

	imageURL := c.NormalizeImageURL(resp.ImageURL)
	logger.Debug("Uploaded image", "url", imageURL)
	return imageURL, nil
}

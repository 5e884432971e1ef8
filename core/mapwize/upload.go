package mapwize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"mapwize-api/core/models"
)

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UploadLayerImage uploads the image of a layer georeferenced by its four corners.
func (c *Client) UploadLayerImage(ctx context.Context, layerID, filename string, image io.Reader, corners models.ImageCorners) error {
	importJob, err := json.Marshal(map[string][]latLng{
		"corners": {
			{Lat: corners.TopLeft.Latitude, Lng: corners.TopLeft.Longitude},
			{Lat: corners.TopRight.Latitude, Lng: corners.TopRight.Longitude},
			{Lat: corners.BottomLeft.Latitude, Lng: corners.BottomLeft.Longitude},
			{Lat: corners.BottomRight.Latitude, Lng: corners.BottomRight.Longitude},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode import job: %w", err)
	}

	body, contentType, err := multipartFile(filename, image, map[string]string{"importJob": string(importJob)})
	if err != nil {
		return err
	}

	_, err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "layers/" + url.PathEscape(layerID) + "/image",
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload image of layer %s: %w", layerID, err)
	}
	return nil
}

// multipartFile builds a form with a "file" part followed by the given fields.
// The whole form is buffered so the request can be retried.
func multipartFile(filename string, file io.Reader, fields map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

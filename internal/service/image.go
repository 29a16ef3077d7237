package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram-project/backend/config"
)

// ImageStorage stores recipe images and returns their public URL
type ImageStorage interface {
	UploadBase64Image(ctx context.Context, dataURI string) (string, error)
}

// ImageService stores recipe images in S3
type ImageService struct {
	s3Config *config.S3Config
}

var _ ImageStorage = (*ImageService)(nil)

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadBase64Image decodes a base64 data URI (e.g. "data:image/png;base64,...")
// and uploads it to S3, returning the public URL
func (s *ImageService) UploadBase64Image(ctx context.Context, dataURI string) (string, error) {
	contentType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	ext := "png"
	if parts := strings.Split(contentType, "/"); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)

	return s.uploadToS3(ctx, data, fileName, contentType)
}

func decodeDataURI(dataURI string) (contentType string, data []byte, err error) {
	header, encoded, found := strings.Cut(dataURI, ",")
	if !found || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", nil, newValidationError("image", "image must be a base64 data URI")
	}

	contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, newValidationError("image", "invalid base64 image data")
	}
	return contentType, data, nil
}

// uploadToS3 uploads image data to S3 and returns the public URL
func (s *ImageService) uploadToS3(ctx context.Context, imageData []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", publicURL)

	return publicURL, nil
}

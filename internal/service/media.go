package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"socialnet/internal/config"
	"socialnet/internal/model"
)

// Maximum pixel width for normalized upload images.
const maxImageWidth = 1080

// ObjectStore is the subset of MediaService that domain services need for
// cleanup when an owning record is deleted.
type ObjectStore interface {
	DeleteObject(ctx context.Context, key string) error
}

// MediaService handles uploads to S3-compatible object storage.
type MediaService struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewMediaService constructs an S3-compatible client from storage config.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.StorageAccessKey == "" || cfg.StorageSecretKey == "" || cfg.StorageBucket == "" || cfg.StoragePublicURL == "" {
		return nil, fmt.Errorf("missing object storage configuration")
	}

	region := cfg.StorageRegion
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.StorageAccessKey, cfg.StorageSecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
			o.UsePathStyle = true
		}
	})

	return &MediaService{
		s3Client:  s3Client,
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimSuffix(cfg.StoragePublicURL, "/"),
	}, nil
}

// UploadPostImage validates and normalizes a post image, then uploads it.
func (s *MediaService) UploadPostImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	return s.uploadImage(ctx, file, header, model.MaxPostImageSize, model.PostImageFolder)
}

// UploadPhoto validates and normalizes a gallery photo, then uploads it.
func (s *MediaService) UploadPhoto(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	return s.uploadImage(ctx, file, header, model.MaxPhotoSize, model.PhotoFolder)
}

// UploadStoryMedia accepts images or MP4 video. Images are normalized to
// JPEG; video is stored as received.
func (s *MediaService) UploadStoryMedia(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	data, contentType, err := readUpload(file, header, model.MaxStoryMediaSize)
	if err != nil {
		return nil, err
	}
	if !model.IsAllowedStoryType(contentType) {
		return nil, model.ErrInvalidMediaType
	}

	if contentType == model.ContentTypeMP4 {
		key := fmt.Sprintf("%s/%s%s", model.StoryMediaFolder, uuid.NewString(), path.Ext(header.Filename))
		if err := s.putObject(ctx, key, data, contentType); err != nil {
			return nil, err
		}
		return &model.UploadResult{URL: s.objectURL(key), Key: key}, nil
	}

	jpegBytes, err := normalizeToJPEG(data, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s.jpg", model.StoryMediaFolder, uuid.NewString())
	if err := s.putObject(ctx, key, jpegBytes, model.ContentTypeJPEG); err != nil {
		return nil, err
	}

	return &model.UploadResult{URL: s.objectURL(key), Key: key}, nil
}

func (s *MediaService) uploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, maxSize int64, folder string) (*model.UploadResult, error) {
	data, contentType, err := readUpload(file, header, maxSize)
	if err != nil {
		return nil, err
	}
	if !model.IsAllowedImageType(contentType) {
		return nil, model.ErrInvalidMediaType
	}

	jpegBytes, err := normalizeToJPEG(data, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s.jpg", folder, uuid.NewString())
	if err := s.putObject(ctx, key, jpegBytes, model.ContentTypeJPEG); err != nil {
		return nil, err
	}

	return &model.UploadResult{URL: s.objectURL(key), Key: key}, nil
}

// readUpload loads the upload into memory with size and type checks.
func readUpload(file multipart.File, header *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if header.Size > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	return data, contentType, nil
}

// normalizeToJPEG bounds the image width and re-encodes as JPEG. Re-encoding
// also strips any metadata the client sent along.
func normalizeToJPEG(data []byte, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// putObject uploads bytes to the bucket.
func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// DeleteObject removes an object by key. An empty key is a no-op.
func (s *MediaService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *MediaService) objectURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

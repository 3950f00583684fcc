package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/sodachi-biyori/sodachi-api/pkg/config"
)

// ErrObjectNotFound marks a read of a key that does not exist in the
// bucket. Callers use it to tell a missing object from a storage outage.
var ErrObjectNotFound = errors.New("object not found")

// Object key prefixes inside the media bucket.
const (
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
	FolderImages     = "images"
	FolderSponsors   = "sponsors"
)

// Allowed upload MIME types mapped to canonical extensions.
var allowedUploadTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

// MediaStore wraps S3 for the media bucket: streaming reads for the image
// proxy, presigned PUT URLs for admin uploads and object deletion.
type MediaStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	ttl      time.Duration
	logger   *zap.Logger
}

// NewMediaStore builds the store from configuration. When no static keys are
// configured the default AWS credential chain is used.
func NewMediaStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*MediaStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	} else {
		logger.Warn("media store using default AWS credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &MediaStore{
		client:   client,
		uploader: uploader,
		bucket:   cfg.MediaBucket,
		ttl:      ttl,
		logger:   logger,
	}, nil
}

// ValidUploadType reports whether the content type is accepted for uploads.
func ValidUploadType(contentType string) bool {
	_, ok := allowedUploadTypes[strings.ToLower(contentType)]
	return ok
}

// VideoKey returns the object key for a school's video.
func VideoKey(schoolID, videoID string) string {
	return path.Join(FolderVideos, schoolID, videoID+".mp4")
}

// ThumbnailKey returns the object key for a video thumbnail.
func ThumbnailKey(schoolID, videoID string) string {
	return path.Join(FolderThumbnails, schoolID, videoID+".jpg")
}

// SponsorImageKey returns the object key for a sponsor banner image.
func SponsorImageKey(sponsorID, filename string) string {
	return path.Join(FolderSponsors, sponsorID, path.Base(filename))
}

// PresignUpload returns a presigned PUT URL for a direct client upload.
func (s *MediaStore) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.ttl
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, time.Now().Add(s.ttl), nil
}

// PresignDownload returns a presigned GET URL, used for guardian video playback.
func (s *MediaStore) PresignDownload(ctx context.Context, key string) (string, error) {
	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.ttl
	})
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}

// Upload streams a reader into the media bucket.
func (s *MediaStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// Stream returns the object body and content type. Caller closes the body.
// Used by the image proxy endpoint.
func (s *MediaStore) Stream(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, "", fmt.Errorf("stream %s: %w", key, ErrObjectNotFound)
		}
		return nil, "", fmt.Errorf("stream %s: %w", key, err)
	}
	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}

// Delete removes an object. Missing objects are not an error.
func (s *MediaStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"estate_dumps/models"
)

// S3Config holds configuration for S3-compatible storage
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional: for DO Spaces, R2, MinIO
	AccessKeyID     string
	SecretAccessKey string
}

// S3Archive stores every dump as one JSON object.
type S3Archive struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Archive builds the client; httpClient may be nil for the SDK default.
func NewS3Archive(ctx context.Context, cfg S3Config, httpClient *http.Client) (*S3Archive, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if httpClient != nil {
		opts = append(opts, config.WithHTTPClient(httpClient))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Archive{client: client, cfg: cfg}, nil
}

// DumpKey is the object key of a dump: dumps/{site}/{yyyy}/{mm}/{dd}/{id}.json
func DumpKey(siteID string, dump *models.Dump) string {
	return fmt.Sprintf("dumps/%s/%s/%s.json", siteID, dump.DateTime.UTC().Format("2006/01/02"), dump.ID)
}

func (a *S3Archive) StoreDump(ctx context.Context, siteID string, dump *models.Dump) error {
	data, err := json.Marshal(dump)
	if err != nil {
		return fmt.Errorf("marshal dump: %w", err)
	}
	key := DumpKey(siteID, dump)
	if err := a.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return err
	}
	log.Debug().Str("site", siteID).Str("url", a.PublicURL(key)).Msg("dump archived")
	return nil
}

// Upload uploads data to S3 with the given key
func (a *S3Archive) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// PublicURL returns the public URL for an S3 key
func (a *S3Archive) PublicURL(key string) string {
	if a.cfg.Endpoint != "" && strings.Contains(a.cfg.Endpoint, "digitaloceanspaces.com") {
		// DO Spaces: https://{bucket}.{region}.digitaloceanspaces.com/{key}
		host := strings.TrimPrefix(a.cfg.Endpoint, "https://")
		return fmt.Sprintf("https://%s.%s/%s", a.cfg.Bucket, host, key)
	}
	// AWS S3: https://{bucket}.s3.{region}.amazonaws.com/{key}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.cfg.Bucket, a.cfg.Region, key)
}

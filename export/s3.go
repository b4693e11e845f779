package export

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// DefaultLinkExpiry is how long presigned download links stay valid.
const DefaultLinkExpiry = 24 * time.Hour

// S3Config holds the connection settings of an S3 compatible store.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
	// Expiry of the presigned link; zero means DefaultLinkExpiry.
	Expiry time.Duration
}

// S3Sink uploads captures to a bucket and returns a presigned link that
// makes the browser download the file.
type S3Sink struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewS3Sink connects to the store and makes sure the bucket exists.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("missing one or more S3 settings: endpoint, access key, secret key")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("missing S3 bucket name")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MinIO client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "error checking bucket existence")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, errors.Wrapf(err, "creating bucket %s", cfg.Bucket)
		}
		log.Printf("created bucket %q on %s", cfg.Bucket, cfg.Endpoint)
	}

	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = DefaultLinkExpiry
	}
	return &S3Sink{client: client, bucket: cfg.Bucket, expiry: expiry}, nil
}

// Save uploads data under name and returns a presigned attachment URL.
func (s *S3Sink) Save(ctx context.Context, name string, data []byte) (Artifact, error) {
	info, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: ContentType(name)},
	)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "failed to store %s in S3", name)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, name, s.expiry, attachment(name))
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "presigning %s", name)
	}
	return Artifact{Name: name, Location: u.String(), Size: info.Size}, nil
}

// attachment returns the response overrides that force a download.
func attachment(name string) url.Values {
	params := make(url.Values)
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", name))
	return params
}

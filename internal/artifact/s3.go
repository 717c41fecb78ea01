package artifact

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// s3Store is the object-store primary backend. Client calls are
// synchronous and never retried here; a failure at any step falls
// through to the composite store's local fallback.
type s3Store struct {
	client *s3.Client
	bucket string
	region string
}

func newS3Store(ctx context.Context, cfg AWSConfig) (*s3Store, error) {
	loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, &ArtifactError{Message: err.Error(), Cause: ErrCauseBucketProbe}
	}
	client := s3.NewFromConfig(loaded)
	return &s3Store{client: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

// bootstrap probes bucket existence and creates it on a not-found
// response. Any other error disables the object store for the
// process lifetime.
func (s *s3Store) bootstrap(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return &ArtifactError{Message: err.Error(), Cause: ErrCauseBucketProbe}
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	if s.region != "" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return &ArtifactError{Message: err.Error(), Cause: ErrCauseBucketProbe}
	}
	return nil
}

func (s *s3Store) Put(ctx context.Context, url string, kind Kind, data []byte, metadata map[string]string) (PutResult, error) {
	key := Key(kind, url, clock())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		Body:     bytes.NewReader(data),
		Metadata: metadata,
	})
	if err != nil {
		return PutResult{}, &ArtifactError{Message: err.Error(), Cause: ErrCauseObjectPut}
	}
	return PutResult{Success: true, Location: key, Kind: kind, StorageType: StorageTypeObject}, nil
}

func (s *s3Store) Get(ctx context.Context, url string, kind Kind) ([]byte, bool, error) {
	key := Key(kind, url, clock())
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, &ArtifactError{Message: err.Error(), Cause: ErrCauseObjectGet}
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, &ArtifactError{Message: err.Error(), Cause: ErrCauseObjectGet}
	}
	return data, true, nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	var nsb *types.NoSuchBucket
	if errors.As(err, &nf) || errors.As(err, &nsk) || errors.As(err, &nsb) {
		return true
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == 404
	}
	return false
}

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

type s3Storage struct {
	svc    s3iface.S3API
	bucket string
	key    string
}

var _ FileLike = &s3Storage{}

func NewS3Backend(bucket, key, region string) (*s3Storage, error) {
	cfg := &aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AWS session")
	}

	return newS3Storage(s3.New(sess), bucket, key), nil
}

func newS3Storage(svc s3iface.S3API, bucket, key string) *s3Storage {
	return &s3Storage{
		svc:    svc,
		bucket: bucket,
		key:    key,
	}
}

func (s3b *s3Storage) Load(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Reading s3 object", "bucket", s3b.bucket, "key", s3b.key)

	input := &s3.GetObjectInput{
		Bucket: aws.String(s3b.bucket),
		Key:    aws.String(s3b.key),
	}
	output, err := s3b.svc.GetObjectWithContext(ctx, input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil
		}

		return errors.Wrapf(err, "fail to load s3://%s/%s", s3b.bucket, s3b.key)
	}

	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return errors.Wrap(err, "fail to read data from bucket object")
	}

	err = json.Unmarshal(data, v)
	if err != nil {
		return errors.Wrap(err, "fail to decode bucket object data")
	}

	return nil
}

func (s3b *s3Storage) Save(ctx context.Context, v any) error {
	hclog.FromContext(ctx).Debug("Writing s3 object", "bucket", s3b.bucket, "key", s3b.key)

	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "fail to marshal bucket object data")
	}

	input := &s3.PutObjectInput{
		Body:        bytes.NewReader(data),
		Bucket:      aws.String(s3b.bucket),
		Key:         aws.String(s3b.key),
		ContentType: aws.String("application/json"),
	}

	_, err = s3b.svc.PutObjectWithContext(ctx, input)
	return errors.Wrapf(err, "fail to save s3://%s/%s", s3b.bucket, s3b.key)
}

package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "not found", nil)
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.objects[*in.Bucket+"/"+*in.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	ctx := context.Background()
	svc := &fakeS3{objects: map[string][]byte{}}
	s := newS3Storage(svc, "bucket", "layers/roads.json")

	d := doc{Name: "untouched"}
	err := s.Load(ctx, &d)
	require.NoError(t, err)
	assert.Equal(t, "untouched", d.Name)

	err = s.Save(ctx, doc{Name: "roads", Count: 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"roads","count":7}`, string(svc.objects["bucket/layers/roads.json"]))

	var loaded doc
	err = s.Load(ctx, &loaded)
	require.NoError(t, err)
	assert.Equal(t, doc{Name: "roads", Count: 7}, loaded)
}

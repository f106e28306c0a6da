package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type S3Provider struct {
	api s3iface.S3API
}

func NewS3Provider(sess *session.Session) *S3Provider {
	return &S3Provider{api: s3.New(sess)}
}

func (s *S3Provider) BucketACL(ctx context.Context, bucket string) error {
	_, err := s.api.GetBucketAclWithContext(ctx, &s3.GetBucketAclInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == CodeACLNotSupported {
			err = fmt.Errorf("%w: %v", ErrACLNotSupported, err)
		}
		return &Error{Op: "get-bucket-acl", Bucket: bucket, Err: err}
	}
	return nil
}

func (s *S3Provider) Put(ctx context.Context, bucket, key string, body io.ReadSeeker, opts PutOptions) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.ACL != "" {
		input.ACL = aws.String(opts.ACL)
	}

	if _, err := s.api.PutObjectWithContext(ctx, input); err != nil {
		return &Error{Op: "put-object", Bucket: bucket, Key: key, Err: err}
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/stretchr/testify/assert"
)

func TestCheckACLSupport_Disabled(t *testing.T) {
	api := &fakeS3{}

	ok, err := CheckACLSupport(context.Background(), &S3Provider{api: api}, "b", false)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, api.aclCalls, "store must not be contacted")
}

func TestCheckACLSupport_Supported(t *testing.T) {
	api := &fakeS3{}

	ok, err := CheckACLSupport(context.Background(), &S3Provider{api: api}, "b", true)

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, api.aclCalls)
}

func TestCheckACLSupport_NotSupported(t *testing.T) {
	api := &fakeS3{aclErr: awserr.New(CodeACLNotSupported, "no ACLs", nil)}

	ok, err := CheckACLSupport(context.Background(), &S3Provider{api: api}, "b", true)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckACLSupport_OtherErrorPropagates(t *testing.T) {
	cause := awserr.New("NoSuchBucket", "The specified bucket does not exist", nil)
	api := &fakeS3{aclErr: cause}

	ok, err := CheckACLSupport(context.Background(), &S3Provider{api: api}, "b", true)

	assert.False(t, ok)
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrACLNotSupported))
}

func TestCheckACLSupport_LocalProvider(t *testing.T) {
	ok, err := CheckACLSupport(context.Background(), NewLocalProvider(t.TempDir()), "b", true)

	assert.NoError(t, err)
	assert.False(t, ok)
}

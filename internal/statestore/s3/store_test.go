package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/specialistvlad/voxview/internal/statestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory bucket. pageSize bounds ListObjectsV2 pages so
// that pagination is exercised.
type fakeAPI struct {
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	pageSize int
	failPut  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string][]byte{}, types: map[string]string{}, pageSize: 2}
}

func (f *fakeAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeAPI) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	start := 0
	if in.ContinuationToken != nil {
		start = slices.Index(keys, *in.ContinuationToken)
	}
	end := min(start+f.pageSize, len(keys))
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(keys[end])
	}
	return out, nil
}

func TestStore_RoundTripWithPrefix(t *testing.T) {
	// Arrange
	ctx := t.Context()
	api := newFakeAPI()
	s := NewWithClient(api, "bucket", "voxview")

	// Act
	for _, k := range []string{"c.vxs", "a.vxs", "b.xml", "nested/d.vxs", "nested/e.vxs"} {
		require.NoError(t, s.Put(ctx, k, []byte(k)))
	}

	// Assert
	assert.Contains(t, api.objects, "voxview/a.vxs")
	assert.Equal(t, "application/xml", api.types["voxview/b.xml"])
	got, err := s.Get(ctx, "nested/d.vxs")
	require.NoError(t, err)
	assert.Equal(t, "nested/d.vxs", string(got))

	keys, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.vxs", "b.xml", "c.vxs", "nested/d.vxs", "nested/e.vxs"}, keys)
	keys, err = s.List(ctx, "nested/")
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/d.vxs", "nested/e.vxs"}, keys)
}

func TestStore_NotFoundAndDelete(t *testing.T) {
	ctx := t.Context()
	s := NewWithClient(newFakeAPI(), "bucket", "")
	require.NoError(t, s.Put(ctx, "a.vxs", []byte("x")))

	require.NoError(t, s.Delete(ctx, "a.vxs"))
	_, err := s.Get(ctx, "a.vxs")

	assert.ErrorIs(t, err, statestore.ErrNotFound)
	assert.Equal(t, statestore.DriverS3, s.Driver())
}

func TestStore_WrapsClientErrors(t *testing.T) {
	api := newFakeAPI()
	api.failPut = errors.New("access denied")
	s := NewWithClient(api, "bucket", "")

	err := s.Put(t.Context(), "a.vxs", nil)

	require.ErrorIs(t, err, api.failPut)
	assert.Contains(t, err.Error(), "put a.vxs")
	assert.ErrorIs(t, s.Put(t.Context(), "/abs", nil), statestore.ErrInvalidKey)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(t.Context(), Config{})
	require.Error(t, err)
}

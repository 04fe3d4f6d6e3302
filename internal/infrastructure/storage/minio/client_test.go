package minio

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictio/lexcompare/internal/config"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

type storedObject struct {
	bucket      string
	key         string
	contentType string
	data        []byte
}

type fakeAPI struct {
	buckets    map[string]bool
	lifecycles map[string]*lifecycle.Configuration
	objects    []storedObject
	removed    []string

	listErr error
	putErr  error
}

func newFakeAPI(buckets ...string) *fakeAPI {
	f := &fakeAPI{
		buckets:    make(map[string]bool),
		lifecycles: make(map[string]*lifecycle.Configuration),
	}
	for _, b := range buckets {
		f.buckets[b] = true
	}
	return f
}

func (f *fakeAPI) BucketExists(_ context.Context, name string) (bool, error) {
	return f.buckets[name], nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, name string, _ minio.MakeBucketOptions) error {
	f.buckets[name] = true
	return nil
}

func (f *fakeAPI) SetBucketLifecycle(_ context.Context, name string, cfg *lifecycle.Configuration) error {
	f.lifecycles[name] = cfg
	return nil
}

func (f *fakeAPI) ListBuckets(_ context.Context) ([]minio.BucketInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []minio.BucketInfo
	for name := range f.buckets {
		out = append(out, minio.BucketInfo{Name: name})
	}
	return out, nil
}

func (f *fakeAPI) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects = append(f.objects, storedObject{
		bucket: bucket, key: key, contentType: opts.ContentType, data: data,
	})
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func (f *fakeAPI) GetObject(_ context.Context, _, _ string, _ minio.GetObjectOptions) (*minio.Object, error) {
	return nil, stderrors.New("not supported by fake")
}

func (f *fakeAPI) RemoveObject(_ context.Context, bucket, key string, _ minio.RemoveObjectOptions) error {
	f.removed = append(f.removed, bucket+"/"+key)
	return nil
}

func (f *fakeAPI) PresignedGetObject(_ context.Context, bucket, key string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return url.Parse("https://minio.local/" + bucket + "/" + key + "?signed=1")
}

func TestEnsureBuckets_CreatesMissingAndSetsLifecycle(t *testing.T) {
	api := newFakeAPI()
	c := NewClientWithAPI(api, config.MinIOConfig{}, nil)

	require.NoError(t, c.EnsureBuckets(context.Background()))

	assert.True(t, api.buckets["lexcompare-documents"])
	assert.True(t, api.buckets["lexcompare-exports"])

	cfg := api.lifecycles["lexcompare-exports"]
	require.NotNil(t, cfg)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, lifecycle.ExpirationDays(30), cfg.Rules[0].Expiration.Days)
	assert.Nil(t, api.lifecycles["lexcompare-documents"])
}

func TestEnsureBuckets_ExistingBucketsUntouched(t *testing.T) {
	api := newFakeAPI("docs", "artifacts")
	c := NewClientWithAPI(api, config.MinIOConfig{
		DocumentsBucket: "docs",
		ExportsBucket:   "artifacts",
	}, nil)

	require.NoError(t, c.EnsureBuckets(context.Background()))
	assert.Len(t, api.buckets, 2)
}

func TestHealthCheck(t *testing.T) {
	api := newFakeAPI("lexcompare-documents", "lexcompare-exports")
	c := NewClientWithAPI(api, config.MinIOConfig{}, nil)

	require.NoError(t, c.HealthCheck(context.Background()))

	delete(api.buckets, "lexcompare-exports")
	err := c.HealthCheck(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))

	api.listErr = stderrors.New("connection refused")
	err = c.HealthCheck(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestContentStore_Put(t *testing.T) {
	api := newFakeAPI("lexcompare-documents", "lexcompare-exports")
	store := NewContentStore(NewClientWithAPI(api, config.MinIOConfig{}, nil), nil)

	id := common.NewID()
	body := []byte("%PDF-1.7 fake contract body")
	key, err := store.Put(context.Background(), id, "application/pdf", bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	assert.Equal(t, "documents/"+string(id), key)

	require.Len(t, api.objects, 1)
	obj := api.objects[0]
	assert.Equal(t, "lexcompare-documents", obj.bucket)
	assert.Equal(t, "application/pdf", obj.contentType)
	assert.Equal(t, body, obj.data)
}

func TestContentStore_PutFailure(t *testing.T) {
	api := newFakeAPI("lexcompare-documents", "lexcompare-exports")
	api.putErr = stderrors.New("disk full")
	store := NewContentStore(NewClientWithAPI(api, config.MinIOConfig{}, nil), nil)

	_, err := store.Put(context.Background(), common.NewID(), "text/plain", bytes.NewReader(nil), 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentContentError))
}

func TestContentStore_PresignedURLAndRemove(t *testing.T) {
	api := newFakeAPI("lexcompare-documents", "lexcompare-exports")
	store := NewContentStore(NewClientWithAPI(api, config.MinIOConfig{}, nil), nil)
	ctx := context.Background()

	u, err := store.PresignedURL(ctx, "documents/abc")
	require.NoError(t, err)
	assert.Contains(t, u, "lexcompare-documents/documents/abc")

	require.NoError(t, store.Remove(ctx, "documents/abc"))
	assert.Equal(t, []string{"lexcompare-documents/documents/abc"}, api.removed)
}

func TestArtifactStore_PutAndPresign(t *testing.T) {
	api := newFakeAPI("lexcompare-documents", "lexcompare-exports")
	store := NewArtifactStore(NewClientWithAPI(api, config.MinIOConfig{}, nil), nil)
	ctx := context.Background()

	payload := []byte(`{"comparison_id":"x"}`)
	require.NoError(t, store.PutArtifact(ctx, "exports/x.json", "application/json", payload))

	require.Len(t, api.objects, 1)
	assert.Equal(t, "lexcompare-exports", api.objects[0].bucket)
	assert.Equal(t, payload, api.objects[0].data)

	u, err := store.PresignedURL(ctx, "exports/x.json")
	require.NoError(t, err)
	assert.Contains(t, u, "lexcompare-exports/exports/x.json")
}

func TestArtifactStore_PutFailure(t *testing.T) {
	api := newFakeAPI("lexcompare-documents", "lexcompare-exports")
	api.putErr = stderrors.New("quota exceeded")
	store := NewArtifactStore(NewClientWithAPI(api, config.MinIOConfig{}, nil), nil)

	err := store.PutArtifact(context.Background(), "exports/x.json", "application/json", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExportFailed))
}

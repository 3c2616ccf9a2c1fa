package images

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the handful of path-style S3 calls S3Store makes.
type fakeS3 struct {
	mu          sync.Mutex
	buckets     map[string]bool
	objects     map[string]string // "bucket/key" -> content type
	policies    map[string]string
	calls       []string
	failHeadFor int
}

func newFakeS3(buckets ...string) *fakeS3 {
	f := &fakeS3{
		buckets:  map[string]bool{},
		objects:  map[string]string{},
		policies: map[string]string{},
	}
	for _, b := range buckets {
		f.buckets[b] = true
	}
	return f
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	_, isPolicy := r.URL.Query()["policy"]
	f.calls = append(f.calls, r.Method+" "+r.URL.RequestURI())

	switch {
	case r.Method == http.MethodHead && key == "":
		if f.failHeadFor > 0 {
			f.failHeadFor--
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && key == "" && isPolicy:
		f.policies[bucket] = string(body)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPut && key == "":
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.objects[bucket+"/"+key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"0123456789abcdef0123456789abcdef"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func (f *fakeS3) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func newTestS3Store(t *testing.T, fake *fakeS3, publicBase string) *S3Store {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewS3Store(S3Config{
		Endpoint:      srv.URL,
		AccessKey:     "minio",
		SecretKey:     "minio-secret",
		Bucket:        "listing-images",
		PublicBaseURL: publicBase,
	}, nil)
	require.NoError(t, err)
	return store
}

func TestS3Store_PutIntoExistingBucket(t *testing.T) {
	fake := newFakeS3("listing-images")
	store := newTestS3Store(t, fake, "https://cdn.example.com/")
	data := []byte(pngMagic + "pixels")

	url, err := store.Put(context.Background(), "/listings/owner-1/a.png", data, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/listing-images/listings/owner-1/a.png", url)
	assert.Equal(t, "image/png", fake.objects["listing-images/listings/owner-1/a.png"])

	_, err = store.Put(context.Background(), "listings/owner-1/b.png", data, "image/png")
	require.NoError(t, err)

	assert.Equal(t, 1, fake.count("HEAD /listing-images/"), "bucket checked once")
	assert.Equal(t, 2, fake.count("PUT /listing-images/listings/"))
	assert.Zero(t, fake.count("PUT /listing-images/?policy"))
	assert.Len(t, fake.calls, 3)
	assert.Empty(t, fake.policies)
}

func TestS3Store_CreatesMissingBucketWithPublicReadPolicy(t *testing.T) {
	fake := newFakeS3()
	store := newTestS3Store(t, fake, "")

	url, err := store.Put(context.Background(), "listings/owner-1/a.gif", []byte("GIF89a"), "image/gif")
	require.NoError(t, err)

	assert.True(t, fake.buckets["listing-images"])
	assert.Equal(t, 1, fake.count("PUT /listing-images/?policy"))
	require.Contains(t, fake.policies, "listing-images")
	policy := fake.policies["listing-images"]
	assert.Contains(t, policy, `"s3:GetObject"`)
	assert.Contains(t, policy, `"arn:aws:s3:::listing-images/*"`)
	assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:"), url)
	assert.True(t, strings.HasSuffix(url, "/listing-images/listings/owner-1/a.gif"), url)
}

func TestS3Store_RetriesBucketCheckAfterFailure(t *testing.T) {
	fake := newFakeS3("listing-images")
	fake.failHeadFor = 1
	store := newTestS3Store(t, fake, "")

	_, err := store.Put(context.Background(), "listings/owner-1/a.png", []byte(pngMagic), "image/png")
	require.Error(t, err)
	assert.Empty(t, fake.objects)

	_, err = store.Put(context.Background(), "listings/owner-1/a.png", []byte(pngMagic), "image/png")
	require.NoError(t, err)
	assert.Len(t, fake.objects, 1)
}

func TestS3Store_ProcessorUploadsThroughStore(t *testing.T) {
	fake := newFakeS3("listing-images")
	store := newTestS3Store(t, fake, "https://cdn.example.com")
	p := NewProcessor(store, 1024, nil)

	out, err := p.Process(context.Background(), "owner-7", []string{pngDataURL(16)})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "https://cdn.example.com/listing-images/listings/owner-7/"), out[0])
	assert.True(t, strings.HasSuffix(out[0], ".png"))
	assert.Len(t, fake.objects, 1)
}

func TestNewS3Store_Validation(t *testing.T) {
	_, err := NewS3Store(S3Config{Bucket: "b"}, nil)
	assert.Error(t, err)
	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000"}, nil)
	assert.Error(t, err)

	store, err := NewS3Store(S3Config{Endpoint: "localhost:9000", Bucket: "imgs"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/imgs/listings/x.png", store.URL("listings/x.png"))
}

func TestPublicReadPolicy(t *testing.T) {
	policy, err := publicReadPolicy("imgs")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::imgs/*"]
		}]
	}`, policy)
}

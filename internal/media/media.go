package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

var ErrNotDataURL = errors.New("not a data url")

// Store turns a client-side media reference into the reference kept on a
// post. References that are not data URLs are returned untouched.
type Store interface {
	Put(ctx context.Context, namespace, ref string) (string, error)
}

// InlineStore keeps data URLs inline on the post.
type InlineStore struct{}

func (InlineStore) Put(_ context.Context, _ string, ref string) (string, error) {
	return ref, nil
}

type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("STORAGE_BUCKET is not set")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Put uploads a data URL under treehole/<namespace>/ and returns a
// Firebase-style download URL.
func (s *GCSStore) Put(ctx context.Context, namespace, ref string) (string, error) {
	mimeType, data, err := ParseDataURL(ref)
	if errors.Is(err, ErrNotDataURL) {
		return ref, nil
	}
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("treehole/%s/%s%s", namespace, uuid.NewString(), extensionFor(mimeType))
	return s.upload(ctx, path, mimeType, data)
}

func (s *GCSStore) upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	token := uuid.NewString()
	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	return PublicURL(s.bucket, objectPath, token), nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

// PublicURL builds the Firebase download URL. The object path is a single
// segment there, so its slashes must be escaped too.
func PublicURL(bucket, objectPath, token string) string {
	escaped := strings.ReplaceAll(url.PathEscape(objectPath), "/", "%2F")
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, escaped, token)
}

// ParseDataURL splits "data:<mime>[;base64],<payload>".
func ParseDataURL(ref string) (string, []byte, error) {
	if !strings.HasPrefix(ref, "data:") {
		return "", nil, ErrNotDataURL
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url: missing comma")
	}
	isBase64 := strings.HasSuffix(header, ";base64")
	mimeType := strings.TrimSuffix(header, ";base64")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	if mimeType == "" {
		mimeType = "text/plain"
	}
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("malformed data url: %w", err)
		}
		return mimeType, data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("malformed data url: %w", err)
	}
	return mimeType, []byte(unescaped), nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "video/mp4":
		return ".mp4"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/schikamarun/christmas-cards/internal/domain"
)

// objectReader reads whole objects from a bucket.
type objectReader interface {
	ReadObject(ctx context.Context, object string) ([]byte, error)
}

type gcsReader struct {
	bucket *storage.BucketHandle
}

func (r gcsReader) ReadObject(ctx context.Context, object string) ([]byte, error) {
	reader, err := r.bucket.Object(object).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(io.LimitReader(reader, maxDocumentBytes))
}

// BucketSource reads the documents from Cloud Storage objects under an optional prefix.
// JSON objects are preferred; YAML objects are read when no JSON object exists.
type BucketSource struct {
	reader objectReader
	bucket string
	prefix string
}

// NewBucketSource constructs a BucketSource for bucket using client.
func NewBucketSource(client *storage.Client, bucket, prefix string) (*BucketSource, error) {
	if client == nil {
		return nil, errors.New("datasource: storage client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("datasource: bucket name is required")
	}
	return newBucketSource(gcsReader{bucket: client.Bucket(bucket)}, bucket, prefix), nil
}

func newBucketSource(reader objectReader, bucket, prefix string) *BucketSource {
	return &BucketSource{
		reader: reader,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}
}

// Name implements Source.
func (s *BucketSource) Name() string { return "gcs:" + s.bucket }

// Collections implements Source.
func (s *BucketSource) Collections(ctx context.Context) (domain.CollectionSet, error) {
	var collections domain.CollectionSet
	err := s.read(ctx, DocumentCollections, &collections)
	return collections, err
}

// Recipients implements Source.
func (s *BucketSource) Recipients(ctx context.Context) (domain.RecipientDirectory, error) {
	var recipients domain.RecipientDirectory
	err := s.read(ctx, DocumentRecipients, &recipients)
	return recipients, err
}

func (s *BucketSource) read(ctx context.Context, document string, v any) error {
	for _, ext := range documentExtensions {
		object := path.Join(s.prefix, document+ext)
		data, err := s.reader.ReadObject(ctx, object)
		if errors.Is(err, storage.ErrObjectNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read gs://%s/%s: %w", s.bucket, object, err)
		}
		return decodeDocument(object, data, v)
	}
	return fmt.Errorf("gs://%s/%s: %w", s.bucket, path.Join(s.prefix, document), storage.ErrObjectNotExist)
}

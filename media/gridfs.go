package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// GridFSStore stores blobs in a MongoDB GridFS bucket. The blob path is
// kept as the GridFS filename so uploads can later be removed by path,
// while serving URLs carry the generated file ID.
type GridFSStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

// NewGridFSStore builds a store on top of the given database. baseURL is
// the externally visible prefix URLs are built from, without a trailing
// slash.
func NewGridFSStore(db *mongo.Database, baseURL string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("media: open gridfs bucket: %w", err)
	}
	return &GridFSStore{
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload streams r into GridFS under path and returns the serving URL.
func (s *GridFSStore) Upload(ctx context.Context, path string, r io.Reader) (string, error) {
	s.applyDeadline(ctx)

	stream, err := s.bucket.OpenUploadStream(path)
	if err != nil {
		return "", fmt.Errorf("media: open upload stream: %w", err)
	}

	if _, err := io.Copy(stream, r); err != nil {
		stream.Close()
		return "", fmt.Errorf("media: upload %s: %w", path, err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("media: upload %s: %w", path, err)
	}

	id := stream.FileID.(primitive.ObjectID).Hex()
	return s.baseURL + "/media/" + id, nil
}

// Open returns the blob content and its stored path for the given file ID.
func (s *GridFSStore) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	s.applyDeadline(ctx)

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, "", ErrNotFound
	}

	stream, err := s.bucket.OpenDownloadStream(objID)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("media: open %s: %w", id, err)
	}

	return stream, stream.GetFile().Name, nil
}

// Remove deletes every blob stored under path.
func (s *GridFSStore) Remove(ctx context.Context, path string) error {
	s.applyDeadline(ctx)

	cursor, err := s.bucket.Find(bson.M{"filename": path})
	if err != nil {
		return fmt.Errorf("media: find %s: %w", path, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var file struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			return fmt.Errorf("media: decode file record: %w", err)
		}
		if err := s.bucket.Delete(file.ID); err != nil {
			return fmt.Errorf("media: delete %s: %w", path, err)
		}
	}
	return cursor.Err()
}

// applyDeadline forwards a context deadline to the bucket. GridFS bucket
// operations take deadlines rather than contexts in this driver version.
func (s *GridFSStore) applyDeadline(ctx context.Context) {
	if deadline, ok := ctx.Deadline(); ok {
		s.bucket.SetWriteDeadline(deadline)
		s.bucket.SetReadDeadline(deadline)
	}
}

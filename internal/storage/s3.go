package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"relief/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SnapshotStorage writes inventory snapshots to an S3 bucket
type SnapshotStorage struct {
	client     PutObjectAPI
	bucketName string
}

func NewSnapshotStorage(client PutObjectAPI, bucketName string) *SnapshotStorage {
	return &SnapshotStorage{client: client, bucketName: bucketName}
}

// SnapshotKey returns the object key for a snapshot taken at t.
func SnapshotKey(t time.Time) string {
	return fmt.Sprintf("inventory/%s.json", t.UTC().Format("20060102T150405Z"))
}

// UploadSnapshot stores snapshot as JSON and returns the object key
func (s *SnapshotStorage) UploadSnapshot(ctx context.Context, snapshot *types.InventorySnapshot) (string, error) {
	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := SnapshotKey(snapshot.TakenAt)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	return key, nil
}

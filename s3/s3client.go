package s3client

import (
	"context"

	"github.com/minio/minio-go/v7"

	"wfm-shifts-connector/config"
)

var Client *minio.Client

// MakeBucket creates the connector bucket if it does not exist yet.
func MakeBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	location := "us-east-1"
	exists, err := Client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = Client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return err
	}
	return nil
}

package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"

	"wfm-shifts-connector/config"
)

// Provider keeps the user-mapping workbook templates and exports in the
// connector bucket.
type Provider interface {
	UploadTemplate(ctx context.Context, name string, file []byte) error
	GetTemplate(ctx context.Context, name string) ([]byte, error)
	UploadExport(ctx context.Context, teamID, name string, file []byte) error
}

var Instance Provider

func NewHandler(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
	}
}

type impl struct {
	s3client *minio.Client
}

func (i impl) UploadTemplate(ctx context.Context, name string, file []byte) error {
	objectName := fmt.Sprintf("%s/%s", config.Conf.S3.TemplatesPath, name)
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.BucketName, objectName,
		bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return errors.Wrapf(err, "failed to upload template %v", name)
	}
	return nil
}

func (i impl) GetTemplate(ctx context.Context, name string) ([]byte, error) {
	objectName := fmt.Sprintf("%s/%s", config.Conf.S3.TemplatesPath, name)
	obj, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch template %v", name)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read template %v", name)
	}
	return data, nil
}

func (i impl) UploadExport(ctx context.Context, teamID, name string, file []byte) error {
	objectName := fmt.Sprintf("exports/%s/%s", teamID, name)
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.BucketName, objectName,
		bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return errors.Wrapf(err, "failed to upload export %v", name)
	}
	return nil
}

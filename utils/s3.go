package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

var ErrInvalidDataURI = errors.New("invalid base64 data URI")

// S3Uploader stores user images and returns their public (CloudFront) URL.
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3Uploader(ctx context.Context, region, bucket, publicURL string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config for s3: %w", err)
	}
	return &S3Uploader{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// UploadDataURI uploads a "data:<mime>;base64,<data>" image under prefix.
func (u *S3Uploader) UploadDataURI(ctx context.Context, dataURI, prefix string) (string, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.NewString(), img.Ext)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	return fmt.Sprintf("%s/%s", u.publicURL, key), nil
}

// DataImage is a decoded data URI.
type DataImage struct {
	ContentType string
	Ext         string
	Data        []byte
}

func DecodeDataURI(dataURI string) (*DataImage, error) {
	meta, data, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrInvalidDataURI
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidDataURI, contentType)
	}

	var ext string
	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	default:
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = "." + strings.TrimPrefix(contentType, "image/")
		}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return &DataImage{ContentType: contentType, Ext: ext, Data: raw}, nil
}

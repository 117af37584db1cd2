// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage stores uploaded images in an S3-compatible bucket and
// builds their public URLs. It is configured for path-style access
// (required by CEPH/Hetzner).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Client uploads objects to the public image bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// New creates a client for the given bucket. It returns (nil, nil) when the
// endpoint or credentials are empty so the API can start without uploads.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores body under key with a public-read ACL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for key. The configured public URL wins
// over the path-style endpoint URL.
func (c *Client) FileURL(key string) string {
	return fileURL(c.endpoint, c.bucket, c.publicURL, key)
}

func fileURL(endpoint, bucket, publicURL, key string) string {
	if publicURL != "" {
		return publicURL + "/" + key
	}
	return endpoint + "/" + bucket + "/" + key
}

// Image content types accepted for upload, with the extension used in the
// object key.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageExtension returns the key extension for an accepted image content
// type, and false for anything else.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}

// UploadKey builds the object key uploads/YYYY/MM/<uuid><ext>.
func UploadKey(now time.Time, ext string) string {
	return fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
}

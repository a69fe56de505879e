package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// SpacesService stores generated calendar images in a DigitalOcean Spaces
// bucket so embeds can link them instead of re-attaching files.
type SpacesService struct {
	client    *s3.Client
	bucket    string
	region    string
	endpoint  string
	imageRoot string
}

func NewSpacesService(key, secret, region, bucket, endpoint, imageRoot string) (*SpacesService, error) {
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", region)
	}
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: endpoint}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load Spaces config: %w", err)
	}

	return &SpacesService{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		region:    region,
		endpoint:  endpoint,
		imageRoot: strings.Trim(imageRoot, "/"),
	}, nil
}

// UploadCalendarImage stores a PNG under the image root and returns its
// public URL.
func (s *SpacesService) UploadCalendarImage(ctx context.Context, discordID string, month string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%s.png", s.imageRoot, discordID, month)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("image/png"),
		CacheControl: aws.String("public, max-age=3600"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload calendar image: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), s.bucket, key), nil
}

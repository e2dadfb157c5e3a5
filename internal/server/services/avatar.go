package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const defaultAvatarURLValidity = 15 * time.Minute

// AvatarKey returns a fresh object key for an avatar of userID. A new key per
// upload keeps stale cached images from being served.
func AvatarKey(userID int64) string {
	return fmt.Sprintf("avatars/%d/%v", userID, uuid.New())
}

func (s *ProfileService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func (s *ProfileService) urlValidity() time.Duration {
	if s.config.AvatarURLValidity > 0 {
		return s.config.AvatarURLValidity
	}
	return defaultAvatarURLValidity
}

// AvatarUploadURL assigns a new avatar key to the user's profile and returns
// a presigned PUT URL for it. The user must have a profile.
func (s *ProfileService) AvatarUploadURL(ctx context.Context, userID int64) (string, error) {
	repo := s.repomanager.Profiles(s.db)
	if _, err := repo.Get(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", fmt.Errorf("%w: create a profile before uploading an avatar", common.ErrNotFound)
		}
		return "", fmt.Errorf("error loading profile: %w", err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := AvatarKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.urlValidity()))
	if err != nil {
		return "", err
	}

	if err := repo.SetAvatarKey(ctx, userID, key); err != nil {
		return "", fmt.Errorf("error saving avatar key: %w", err)
	}

	return req.URL, nil
}

// AvatarDownloadURL returns a presigned GET URL of the user's avatar.
func (s *ProfileService) AvatarDownloadURL(ctx context.Context, userID int64) (string, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", fmt.Errorf("%w: profile not found", common.ErrNotFound)
		}
		return "", fmt.Errorf("error loading profile: %w", err)
	}
	if p.AvatarKey == nil {
		return "", fmt.Errorf("%w: no avatar uploaded", common.ErrNotFound)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    p.AvatarKey,
	}, s3.WithPresignExpires(s.urlValidity()))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

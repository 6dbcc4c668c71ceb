package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	"github.com/techagentng/complaintx/models"
)

// MediaService stores complaint photo attachments on S3 and records them
// against the complaint. Each image also gets a JPEG thumbnail.
type MediaService interface {
	ProcessAttachment(fileHeader *multipart.FileHeader, complaintID uuid.UUID) (*models.Attachment, error)
}

type mediaService struct {
	Config        *config.Config
	complaintRepo db.ComplaintRepository
}

func NewMediaService(complaintRepo db.ComplaintRepository, conf *config.Config) MediaService {
	return &mediaService{
		Config:        conf,
		complaintRepo: complaintRepo,
	}
}

const thumbnailWidth = 200

func (s *mediaService) ProcessAttachment(fileHeader *multipart.FileHeader, complaintID uuid.UUID) (*models.Attachment, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening attachment")
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrap(err, "decoding attachment image")
	}

	// Normalize the stored copy and derive a small thumbnail from it.
	normalized := imaging.Fit(img, 1920, 1920, imaging.Lanczos)
	thumbnail := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)

	uniqueID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	fileKey := fmt.Sprintf("attachments/%s/%s%s", complaintID, uniqueID, ext)
	thumbKey := fmt.Sprintf("attachments/%s/%s_thumb.jpg", complaintID, uniqueID)

	fileURL, err := s.uploadJPEG(normalized, fileKey)
	if err != nil {
		return nil, err
	}
	thumbnailURL, err := s.uploadJPEG(thumbnail, thumbKey)
	if err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		ComplaintID:  complaintID,
		FileType:     "image",
		FileSize:     fileHeader.Size,
		Filename:     fileHeader.Filename,
		FileURL:      fileURL,
		ThumbnailURL: thumbnailURL,
	}
	if err := s.complaintRepo.SaveAttachment(attachment); err != nil {
		return nil, errors.Wrap(err, "saving attachment record")
	}
	return attachment, nil
}

func (s *mediaService) uploadJPEG(img image.Image, fileKey string) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return "", errors.Wrap(err, "encoding jpeg")
	}

	bucketName := s.Config.AwsBucket
	if bucketName == "" {
		return "", errors.New("S3 bucket name is not configured")
	}

	cfg, err := fig.LoadDefaultConfig(context.TODO(),
		fig.WithRegion(s.Config.AwsRegion),
		fig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.Config.AwsAccessKeyID, s.Config.AwsSecretAccessKey, ""),
		),
	)
	if err != nil {
		return "", errors.Wrap(err, "loading AWS config")
	}

	svc := s3.NewFromConfig(cfg)
	_, err = svc.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(fileKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ACL:         "public-read",
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", errors.Wrap(err, "uploading to S3")
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, s.Config.AwsRegion, fileKey), nil
}

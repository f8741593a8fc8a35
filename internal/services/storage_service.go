// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gameshare/backend/internal/config"
)

type AssetKind string

const (
	AssetKindImage    AssetKind = "image"
	AssetKindGameFile AssetKind = "game-file"
)

var imageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Archive and installer formats rarely carry a trustworthy MIME type, so
// game files are checked by extension only.
var gameFileExtensions = map[string]bool{
	".zip": true,
	".rar": true,
	".7z":  true,
	".exe": true,
	".msi": true,
	".dmg": true,
	".pkg": true,
	".deb": true,
	".rpm": true,
	".tar": true,
	".gz":  true,
}

// StorageService stores uploaded assets on local disk, or on S3 when AWS
// credentials are configured.
type StorageService struct {
	s3Client *s3.S3
	cfg      *config.Config
}

// StoredAsset is the stable reference returned for a durably written asset.
type StoredAsset struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Upload describes one incoming file before it is persisted.
type Upload struct {
	OriginalName string
	ContentType  string
	Size         int64
	Reader       io.Reader
}

// StoredPair holds the two assets backing one catalog entry.
type StoredPair struct {
	Image *StoredAsset
	File  *StoredAsset
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Local disk storage
		return &StorageService{cfg: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		cfg:      cfg,
	}, nil
}

// EnsureDirs creates the kind-scoped upload namespaces. Idempotent; called
// once at process start so no request ever writes into a missing directory.
func (s *StorageService) EnsureDirs() error {
	if s.s3Client != nil {
		return nil
	}

	for _, dir := range []string{
		s.cfg.Storage.UploadDir,
		filepath.Join(s.cfg.Storage.UploadDir, "images"),
		filepath.Join(s.cfg.Storage.UploadDir, "games"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}

	return nil
}

// Store validates and persists one asset, returning its stable reference.
// The declared size is checked before any write and the copy itself is
// bounded, so an oversized payload never survives on disk.
func (s *StorageService) Store(kind AssetKind, originalName, contentType string, size int64, reader io.Reader) (*StoredAsset, error) {
	limit, err := s.validate(kind, originalName, contentType, size)
	if err != nil {
		return nil, err
	}

	name := generateAssetName(kind, originalName)
	key := kindDir(kind) + "/" + name

	var written int64
	if s.s3Client != nil {
		written, err = s.writeS3(key, contentType, reader, limit)
	} else {
		written, err = s.writeLocal(key, reader, limit)
	}
	if err != nil {
		return nil, err
	}

	return &StoredAsset{
		URL:         s.assetURL(key),
		Key:         key,
		Name:        name,
		Size:        written,
		ContentType: contentType,
	}, nil
}

// StoreGamePair stores the cover image and the game payload as a logical
// unit: if the second write fails, the first asset is deleted so a failed
// submission never leaves an orphan behind.
func (s *StorageService) StoreGamePair(image, file Upload) (*StoredPair, error) {
	storedImage, err := s.Store(AssetKindImage, image.OriginalName, image.ContentType, image.Size, image.Reader)
	if err != nil {
		return nil, err
	}

	storedFile, err := s.Store(AssetKindGameFile, file.OriginalName, file.ContentType, file.Size, file.Reader)
	if err != nil {
		if !s.Delete(storedImage.URL) {
			logrus.WithField("url", storedImage.URL).Warn("Failed to clean up image after game file upload error")
		}
		return nil, err
	}

	return &StoredPair{Image: storedImage, File: storedFile}, nil
}

// Delete removes the asset behind a previously issued reference. Idempotent:
// deleting a missing asset returns false, never an error.
func (s *StorageService) Delete(url string) bool {
	key, ok := s.keyFromURL(url)
	if !ok {
		return false
	}

	if s.s3Client != nil {
		return s.deleteS3(key)
	}

	path := filepath.Join(s.cfg.Storage.UploadDir, filepath.FromSlash(key))
	if _, err := os.Stat(path); err != nil {
		return false
	}

	if err := os.Remove(path); err != nil {
		logrus.WithError(err).WithField("path", path).Error("Failed to delete asset")
		return false
	}

	return true
}

func (s *StorageService) validate(kind AssetKind, originalName, contentType string, size int64) (int64, error) {
	ext := strings.ToLower(filepath.Ext(originalName))

	switch kind {
	case AssetKindImage:
		if !imageExtensions[ext] || !imageContentTypes[strings.ToLower(contentType)] {
			return 0, fmt.Errorf("%w: %s", ErrInvalidAssetType, originalName)
		}
		if size > s.cfg.Storage.MaxImageSize {
			return 0, fmt.Errorf("%w: image is %d bytes, limit is %d", ErrAssetTooLarge, size, s.cfg.Storage.MaxImageSize)
		}
		return s.cfg.Storage.MaxImageSize, nil

	case AssetKindGameFile:
		if !gameFileExtensions[ext] {
			return 0, fmt.Errorf("%w: %s", ErrInvalidAssetType, originalName)
		}
		if size > s.cfg.Storage.MaxFileSize {
			return 0, fmt.Errorf("%w: file is %d bytes, limit is %d", ErrAssetTooLarge, size, s.cfg.Storage.MaxFileSize)
		}
		return s.cfg.Storage.MaxFileSize, nil

	default:
		return 0, fmt.Errorf("%w: unknown asset kind %q", ErrInvalidAssetType, kind)
	}
}

func (s *StorageService) writeLocal(key string, reader io.Reader, limit int64) (int64, error) {
	path := filepath.Join(s.cfg.Storage.UploadDir, filepath.FromSlash(key))

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create asset file: %w", err)
	}

	// Copy at most limit+1 bytes; one byte over proves the declared size lied.
	written, err := io.Copy(out, io.LimitReader(reader, limit+1))
	closeErr := out.Close()

	if err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("failed to write asset: %w", err)
	}
	if written > limit {
		os.Remove(path)
		return 0, fmt.Errorf("%w: payload exceeded %d bytes", ErrAssetTooLarge, limit)
	}

	return written, nil
}

func (s *StorageService) writeS3(key, contentType string, reader io.Reader, limit int64) (int64, error) {
	buf := &bytes.Buffer{}
	written, err := io.Copy(buf, io.LimitReader(reader, limit+1))
	if err != nil {
		return 0, fmt.Errorf("failed to read asset: %w", err)
	}
	if written > limit {
		return 0, fmt.Errorf("%w: payload exceeded %d bytes", ErrAssetTooLarge, limit)
	}

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(written),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return written, nil
}

func (s *StorageService) deleteS3(key string) bool {
	_, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey) {
			return false
		}
		logrus.WithError(err).WithField("key", key).Error("Failed to check asset before delete")
		return false
	}

	if _, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.AWS.S3Bucket),
		Key:    aws.String(key),
	}); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to delete asset from S3")
		return false
	}

	return true
}

func (s *StorageService) assetURL(key string) string {
	if s.s3Client != nil {
		if s.cfg.AWS.CloudFrontURL != "" {
			return fmt.Sprintf("%s/%s", s.cfg.AWS.CloudFrontURL, key)
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
			s.cfg.AWS.S3Bucket, s.cfg.AWS.Region, key)
	}

	return fmt.Sprintf("%s/uploads/%s", strings.TrimRight(s.cfg.Storage.BaseURL, "/"), key)
}

// keyFromURL recovers the kind-scoped key (e.g. "games/game-...zip") from a
// reference this service issued.
func (s *StorageService) keyFromURL(url string) (string, bool) {
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return "", false
	}

	dir := parts[len(parts)-2]
	name := parts[len(parts)-1]
	if (dir != "images" && dir != "games") || name == "" {
		return "", false
	}

	return dir + "/" + name, true
}

func kindDir(kind AssetKind) string {
	if kind == AssetKindImage {
		return "images"
	}
	return "games"
}

// Names look like "game-1700000000000-1a2b3c4d.zip": kind prefix, creation
// timestamp, random salt, original extension.
func generateAssetName(kind AssetKind, originalName string) string {
	prefix := "game"
	if kind == AssetKindImage {
		prefix = "image"
	}

	salt := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	ext := strings.ToLower(filepath.Ext(originalName))

	return fmt.Sprintf("%s-%d-%s%s", prefix, time.Now().UnixMilli(), salt, ext)
}

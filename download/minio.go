package download

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kochabx/requex/errors"
)

var (
	ErrInvalidConfig   = errors.BadRequest("invalid minio configuration")
	ErrEmptyBucketName = errors.BadRequest("bucket name cannot be empty")
)

// MinioConfig MinIO 上传配置
type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	UseSSL          bool
	Region          string
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// Validate 验证配置
func (c *MinioConfig) Validate() error {
	switch {
	case c.Endpoint == "":
		return ErrInvalidConfig.WithMetadata(map[string]string{"field": "endpoint"})
	case c.AccessKeyID == "":
		return ErrInvalidConfig.WithMetadata(map[string]string{"field": "access_key_id"})
	case c.SecretAccessKey == "":
		return ErrInvalidConfig.WithMetadata(map[string]string{"field": "secret_access_key"})
	case c.Bucket == "":
		return ErrEmptyBucketName
	case c.Timeout <= 0:
		return ErrInvalidConfig.WithMetadata(map[string]string{"field": "timeout"})
	}
	return nil
}

// MinioOption 配置选项函数
type MinioOption func(*MinioConfig)

// WithUseSSL 设置是否使用SSL
func WithUseSSL(useSSL bool) MinioOption {
	return func(c *MinioConfig) {
		c.UseSSL = useSSL
	}
}

// WithRegion 设置区域，避免上传前查询桶位置
func WithRegion(region string) MinioOption {
	return func(c *MinioConfig) {
		c.Region = region
	}
}

// WithPrefix 设置对象名前缀
func WithPrefix(prefix string) MinioOption {
	return func(c *MinioConfig) {
		c.Prefix = prefix
	}
}

// WithTimeout 设置单次上传超时时间
func WithTimeout(timeout time.Duration) MinioOption {
	return func(c *MinioConfig) {
		c.Timeout = timeout
	}
}

// WithHTTPClient 设置自定义HTTP客户端
func WithHTTPClient(client *http.Client) MinioOption {
	return func(c *MinioConfig) {
		c.HTTPClient = client
	}
}

// Minio uploads attachments into a bucket
type Minio struct {
	config *MinioConfig
	client *minio.Client
}

// NewMinio 创建 MinIO 保存器
func NewMinio(endpoint, accessKeyID, secretAccessKey, bucket string, opts ...MinioOption) (*Minio, error) {
	config := &MinioConfig{
		Endpoint:        endpoint,
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		Bucket:          bucket,
		UseSSL:          true,
		Timeout:         30 * time.Second,
	}
	for _, opt := range opts {
		opt(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	minioOpts := &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	}
	if config.HTTPClient != nil {
		minioOpts.Transport = config.HTTPClient.Transport
	}

	client, err := minio.New(config.Endpoint, minioOpts)
	if err != nil {
		return nil, ErrInvalidConfig.WithCause(err)
	}

	return &Minio{config: config, client: client}, nil
}

// Save implements response.FileSaver
func (m *Minio) Save(body []byte, filename, contentType string) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
	defer cancel()

	_, err := m.SaveContext(ctx, body, filename, contentType)
	return err
}

// SaveContext uploads body and returns the object name
func (m *Minio) SaveContext(ctx context.Context, body []byte, filename, contentType string) (string, error) {
	name := Sanitize(filename, contentType)
	object := path.Join(m.config.Prefix, name)
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(name))
	}

	_, err := m.client.PutObject(ctx, m.config.Bucket, object, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:        contentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", name),
	})
	if err != nil {
		return "", errors.BadGateway("upload attachment").
			WithMetadata(map[string]string{"bucket": m.config.Bucket, "object": object}).
			WithCause(err)
	}
	return object, nil
}

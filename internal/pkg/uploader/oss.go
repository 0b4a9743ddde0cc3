package uploader

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"blog_social/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// Uploader 媒体文件上传接口，测试时可注入假实现
type Uploader interface {
	UploadFile(file *multipart.FileHeader) (string, error)
}

// AliyunOSSUploader 阿里云 OSS 实现
type AliyunOSSUploader struct {
	client *oss.Client
	bucket *oss.Bucket
	config config.OSSConfig
}

// NewAliyunOSSUploader 创建 OSS 上传器
func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		client: client,
		bucket: bucket,
		config: cfg,
	}, nil
}

// UploadFile 同步上传单个文件，返回公开访问 URL
func (u *AliyunOSSUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 对象键格式: YYYYMMDD/uuid.ext
	ext := filepath.Ext(file.Filename)
	key := fmt.Sprintf("%s/%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)

	if err := u.bucket.PutObject(key, src); err != nil {
		return "", err
	}

	// 假设 bucket 为 public-read 或挂了 CDN；私有 bucket 需要签名 URL
	url := fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, key)
	return url, nil
}

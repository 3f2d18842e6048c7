package services

import (
	"bytes"
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const certificateBucket = "certificates"

// ArchiveService keeps a copy of each issued certificate in object storage
// for the admin surface. Archival is best-effort: a storage failure never
// fails issuance.
type ArchiveService interface {
	StoreCertificate(ctx context.Context, reference string, pdf []byte) error
	CertificateURL(reference string, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context) error
}

type minioArchive struct {
	client *minio.Client
}

func NewMinioArchive(endpoint, accessKey, secretKey string, useSSL bool) (ArchiveService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioArchive{client: client}, nil
}

func (m *minioArchive) StoreCertificate(ctx context.Context, reference string, pdf []byte) error {
	_, err := m.client.PutObject(ctx, certificateBucket, reference+".pdf", bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	return err
}

func (m *minioArchive) CertificateURL(reference string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(context.Background(), certificateBucket, reference+".pdf", expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioArchive) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, certificateBucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, certificateBucket, minio.MakeBucketOptions{})
	}
	return nil
}

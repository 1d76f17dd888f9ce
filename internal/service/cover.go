package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// CoverService turns stored cover image keys into presigned URLs
type CoverService struct {
	signer URLSigner
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewCoverService creates a new CoverService instance
func NewCoverService(signer URLSigner, ttl time.Duration, log logrus.FieldLogger) *CoverService {
	return &CoverService{
		signer: signer,
		ttl:    ttl,
		log:    log.WithField("source", "cover_service"),
	}
}

// CoverURL returns an empty string when the recipe has no cover, storage is
// not configured or signing fails; pages then render without an image.
func (s *CoverService) CoverURL(ctx context.Context, key string) string {
	if s == nil || s.signer == nil || key == "" {
		return ""
	}

	url, err := s.signer.GeneratePresignedURL(ctx, key, s.ttl)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("failed to presign cover image")
		return ""
	}
	return url
}

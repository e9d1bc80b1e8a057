package service

import (
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaService gates the public contact and application forms with
// an image captcha.
type CaptchaService struct {
	cfg   config.CaptchaConfig
	store base64Captcha.Store
}

// CaptchaChallenge is one generated captcha image.
type CaptchaChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// NewCaptchaService creates the captcha service.
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	maxStore := cfg.MaxStore
	if maxStore <= 0 {
		maxStore = base64Captcha.GCLimitNumber
	}
	expire := time.Duration(cfg.ExpireSeconds) * time.Second
	if expire <= 0 {
		expire = 5 * time.Minute
	}
	return &CaptchaService{
		cfg:   cfg,
		store: base64Captcha.NewMemoryStore(maxStore, expire),
	}
}

// Generate creates a new captcha challenge.
func (s *CaptchaService) Generate() (*CaptchaChallenge, error) {
	driver := base64Captcha.NewDriverString(
		s.cfg.Height,
		s.cfg.Width,
		s.cfg.NoiseCount,
		base64Captcha.OptionShowHollowLine,
		s.cfg.Length,
		"23456789abcdefghjkmnpqrstuvwxyz",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.store)
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{CaptchaID: id, ImageBase64: b64s}, nil
}

// Verify checks a captcha answer. The challenge is consumed either way.
// Returns nil without checking when captcha is disabled.
func (s *CaptchaService) Verify(captchaID, answer string) error {
	if !s.cfg.Enabled {
		return nil
	}
	captchaID = strings.TrimSpace(captchaID)
	answer = strings.TrimSpace(answer)
	if captchaID == "" || answer == "" {
		return ErrCaptchaInvalid
	}
	if !s.store.Verify(captchaID, answer, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/contract-archive/internal/config"
	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/verify"
)

type PDFGenerator interface {
	Generate(doc model.ContractDocument) ([]byte, error)
}

type VerifyService struct {
	collections *CollectionService
	renderer    *verify.Renderer
	pdf         PDFGenerator
	qr          config.QRConfig
	log         zerolog.Logger
	now         func() time.Time
}

func NewVerifyService(collections *CollectionService, renderer *verify.Renderer, pdf PDFGenerator, cfg *config.Config, log zerolog.Logger) *VerifyService {
	return &VerifyService{
		collections: collections,
		renderer:    renderer,
		pdf:         pdf,
		qr:          cfg.QR,
		log:         log,
		now:         time.Now,
	}
}

type CertificateResult struct {
	Found bool
	HTML  []byte
}

// Certificate renders the public verification page. A missing contract is not
// an error: the not-found page is returned with Found set to false.
func (s *VerifyService) Certificate(ctx context.Context, id int64) (*CertificateResult, error) {
	contract, err := s.collections.Contract(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	settings := s.settings(ctx)

	if contract == nil {
		page, err := s.renderer.NotFound(id, settings)
		if err != nil {
			return nil, err
		}
		return &CertificateResult{Found: false, HTML: page}, nil
	}

	page, err := s.renderer.Certificate(*contract, settings)
	if err != nil {
		return nil, err
	}
	return &CertificateResult{Found: true, HTML: page}, nil
}

// QRImageURL returns the external image URL encoding the verification link.
func (s *VerifyService) QRImageURL(baseURL string, id int64) string {
	return verify.QRImageURL(s.qr.ServiceURL, s.qr.Size, verify.VerificationURL(baseURL, id))
}

// Document renders the printable contract with an embedded verification QR.
func (s *VerifyService) Document(ctx context.Context, baseURL string, id int64) (*FileResult, error) {
	contract, err := s.collections.Contract(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(model.ContractDocument{
		Contract:        *contract,
		Settings:        s.settings(ctx),
		VerificationURL: verify.VerificationURL(baseURL, id),
		GeneratedAt:     s.now(),
	})
	if err != nil {
		return nil, err
	}
	return &FileResult{FileName: buildContractFileName(id), Content: content}, nil
}

func (s *VerifyService) settings(ctx context.Context) model.SystemSettings {
	settings, err := s.collections.Settings(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("settings unavailable, using defaults")
		return model.SystemSettings{}
	}
	return settings
}

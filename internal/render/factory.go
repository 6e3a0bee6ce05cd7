package render

import (
	"fmt"

	"vagas-go/internal/config"
	"vagas-go/internal/vagas"
)

// NewRasterizerFromConfig creates a Rasterizer based on the configuration.
func NewRasterizerFromConfig(cfg config.RendererConfig, logger vagas.Logger) (vagas.Rasterizer, error) {
	switch cfg.Type {
	case "chrome", "":
		r, err := NewChromeRasterizer(cfg.ChromePath, cfg.Timeout.Duration, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
}

package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if len(cfg.OCR.Languages) == 0 {
		cfg.OCR.Languages = []string{"kor", "eng"}
	}
	if cfg.Raster.Pdftoppm == "" {
		cfg.Raster.Pdftoppm = "pdftoppm"
	}
	if cfg.Raster.DPI == 0 {
		cfg.Raster.DPI = 200
	}
	if cfg.Upload.MaxBytes == 0 {
		cfg.Upload.MaxBytes = 32 << 20
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".pdf"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}

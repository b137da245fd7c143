package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the koharu configuration file
// (~/.config/koharu/config.yaml). Model paths configured here act as
// defaults for the corresponding CLI flags.
type Config struct {
	OrtLibrary string `yaml:"ort_library"`

	DetectorModel string `yaml:"detector_model"`
	OCRModel      string `yaml:"ocr_model"`
	OCREncoder    string `yaml:"ocr_encoder"`
	OCRDecoder    string `yaml:"ocr_decoder"`
	OCRVocab      string `yaml:"ocr_vocab"`
	InpaintModel  string `yaml:"inpaint_model"`

	// Detection thresholds; pointers so zero can be distinguished
	// from unset.
	ConfidenceThreshold *float64 `yaml:"confidence_threshold"`
	NMSThreshold        *float64 `yaml:"nms_threshold"`

	ServerAddress string `yaml:"server_address"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "koharu", "config.yaml")
}

// loadConfig reads the config file; a missing file yields a zero
// config and no error.
func loadConfig() (Config, error) {
	var cfg Config
	path := configPath()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyConfig fills flag destinations from the config file when the
// corresponding flag was not set on the command line.
func applyConfig(c *cli.Command, cfg Config) {
	if cfg.OrtLibrary != "" && !c.IsSet("ort-library") {
		ortLibrary = cfg.OrtLibrary
	}
	if cfg.DetectorModel != "" && !c.IsSet("detector") {
		detectorModel = cfg.DetectorModel
	}
	if cfg.OCRModel != "" && !c.IsSet("model") {
		ocrModel = cfg.OCRModel
	}
	if cfg.OCREncoder != "" && !c.IsSet("encoder") {
		ocrEncoder = cfg.OCREncoder
	}
	if cfg.OCRDecoder != "" && !c.IsSet("decoder") {
		ocrDecoder = cfg.OCRDecoder
	}
	if cfg.OCRVocab != "" && !c.IsSet("vocab") {
		ocrVocab = cfg.OCRVocab
	}
	if cfg.InpaintModel != "" && !c.IsSet("inpaint-model") {
		inpaintModel = cfg.InpaintModel
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

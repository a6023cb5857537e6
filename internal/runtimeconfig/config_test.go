package runtimeconfig

import (
	"errors"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate(): %v", err)
	}
}

func TestValidate_ContentDirRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.Dir = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestValidate_GeneratorRequirements(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = ""
	if err := cfg.Validate(); !errors.Is(err, ErrGeneratorOutputDirRequired) {
		t.Fatalf("expected ErrGeneratorOutputDirRequired, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Site.BaseURL = ""
	if err := cfg.Validate(); !errors.Is(err, ErrSiteBaseURLRequired) {
		t.Fatalf("expected ErrSiteBaseURLRequired, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Generator.Workers = -1
	if err := cfg.Validate(); !errors.Is(err, ErrGeneratorWorkersInvalid) {
		t.Fatalf("expected ErrGeneratorWorkersInvalid, got %v", err)
	}
}

func TestValidate_IndexFeatureGate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Index.DSN = "file:blog.db"
	if err := cfg.Validate(); !errors.Is(err, ErrIndexFeatureRequired) {
		t.Fatalf("expected ErrIndexFeatureRequired, got %v", err)
	}

	cfg.Features.Index = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config with index feature enabled, got %v", err)
	}
}

func TestValidate_Logging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}

	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "console"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}

	cfg.Logging.Format = "json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid logging config, got %v", err)
	}
}

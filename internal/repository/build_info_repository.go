package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v3"

	"github.com/iliyamo/build-info-service/internal/model"
)

// DefaultBuildInfoPath is the fixed location of the build-info document,
// relative to the working directory.
const DefaultBuildInfoPath = "build-info.json"

// YAMLFallbackPath is tried after DefaultBuildInfoPath when the YAML
// fallback is switched on.
const YAMLFallbackPath = "build-info.yaml"

// TryLoad reads the document at path and decodes it into a BuildInfo.
// JSON is used for .json files and files without an extension, YAML for
// .yaml and .yml.  Fields missing from the document keep their zero value.
// Every failure is reported as a *LoadError.
func TryLoad(path string) (model.BuildInfo, error) {
	var info model.BuildInfo

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not read build info")
		return info, &LoadError{Path: path, Err: err}
	}

	if err := decode(path, data, &info); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not parse build info")
		return model.BuildInfo{}, &LoadError{Path: path, Err: err}
	}

	log.Info().
		Str("path", path).
		Str("environment", info.Environment).
		Str("buildMode", info.BuildMode).
		Bool("analyticsEnabled", info.AnalyticsEnabled).
		Str("apiVersion", info.APIVersion).
		Str("buildDate", info.BuildDate).
		Str("gitCommit", info.GitCommit).
		Msg("build info loaded")
	return info, nil
}

// TryLoadWithFallback tries path and then each fallback in order.  The next
// candidate is read only when the previous one does not exist; a present
// but unreadable or malformed document stops the search.  The error of the
// last candidate tried is returned.
func TryLoadWithFallback(path string, fallbacks ...string) (model.BuildInfo, error) {
	info, err := TryLoad(path)
	for _, next := range fallbacks {
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			break
		}
		info, err = TryLoad(next)
	}
	return info, err
}

func decode(path string, data []byte, info *model.BuildInfo) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", "":
		if err := json.Unmarshal(data, info); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
		return nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, info); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// OrDefault returns info when err is nil and the default record
// otherwise.  Startup never fails because of a bad build-info document.
func OrDefault(info model.BuildInfo, err error) model.BuildInfo {
	if err != nil {
		return model.DefaultBuildInfo(time.Now())
	}
	return info
}

package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// maxConfigSize limits config input to prevent memory exhaustion.
const maxConfigSize = 1 << 20

var errEmptyConfig = errors.New("config file is empty")

// unmarshalStrict decodes YAML into v, rejecting unknown fields.
func unmarshalStrict(data []byte, v any) error {
	if len(data) == 0 {
		return errEmptyConfig
	}
	if len(data) > maxConfigSize {
		return fmt.Errorf("config is %d bytes (max %d)", len(data), maxConfigSize)
	}
	return yaml.UnmarshalWithOptions(data, v, yaml.Strict())
}

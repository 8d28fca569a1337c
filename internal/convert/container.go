// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"

	"github.com/johnmark127/r-kive-sub000/internal/container"
	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

// imageMarkitdown is the container image used for local conversion.
const imageMarkitdown = "markitdown:latest"

// ContainerConverter pipes documents through a local conversion container.
// It is the deployment alternative when no hosted endpoint is reachable
// from the server.
type ContainerConverter struct {
	runtime container.Runtime
	cfg     types.ConversionConfig
}

// NewContainerConverter verifies the conversion image exists in the given
// runtime before returning a converter.
func NewContainerConverter(rt container.Runtime, cfg types.ConversionConfig) (*ContainerConverter, error) {
	if err := rt.ImageExists(imageMarkitdown); err != nil {
		return nil, fmt.Errorf("conversion image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, cfg: cfg}, nil
}

// Convert pipes the document bytes through the container and returns the
// emitted text.
func (c *ContainerConverter) Convert(_ context.Context, filename string, data []byte) (string, error) {
	var out bytes.Buffer
	if err := c.runtime.Run(imageMarkitdown, bytes.NewReader(data), &out); err != nil {
		return "", fmt.Errorf("converting %s in container: %w", filename, err)
	}

	if min := minChars(c.cfg); out.Len() < min {
		return "", &ErrShortResult{Got: out.Len(), Min: min}
	}
	return out.String(), nil
}

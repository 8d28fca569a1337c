// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/johnmark127/r-kive-sub000/internal/container"
	"github.com/johnmark127/r-kive-sub000/internal/convert"
	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "citegraph/0.1"
	defaultDBPath    = "citegraph.db"
	defaultAddr      = ":8080"
)

// pipelineConfig assembles the stage configurations from viper, applying
// defaults for anything the config file and environment leave unset.
func pipelineConfig() types.PipelineConfig {
	viper.SetDefault("acquisition.timeout", defaultTimeout)
	viper.SetDefault("acquisition.user_agent", defaultUserAgent)
	viper.SetDefault("conversion.backend", string(types.BackendNone))
	viper.SetDefault("store.db_path", defaultDBPath)
	viper.SetDefault("server.addr", defaultAddr)

	return types.PipelineConfig{
		Acquisition: types.AcquisitionConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("acquisition.timeout"),
				UserAgent: viper.GetString("acquisition.user_agent"),
			},
			MinTextLen: viper.GetInt("acquisition.min_text_len"),
		},
		Conversion: types.ConversionConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("acquisition.timeout"),
				UserAgent: viper.GetString("acquisition.user_agent"),
			},
			Backend:           types.ConversionBackend(viper.GetString("conversion.backend")),
			ServiceURL:        viper.GetString("conversion.service_url"),
			APIKey:            secretDefault("conversion_api_key", viper.GetString("conversion.api_key")),
			MinChars:          viper.GetInt("conversion.min_chars"),
			RequestsPerSecond: viper.GetFloat64("conversion.requests_per_second"),
		},
		Store: types.StoreConfig{
			DBPath: viper.GetString("store.db_path"),
		},
		Server: types.ServerConfig{
			Addr: viper.GetString("server.addr"),
		},
	}
}

// newConverter builds the conversion tier named by the config, or nil when
// conversion is disabled.
func newConverter(client *http.Client, cfg types.ConversionConfig) (convert.Converter, error) {
	switch cfg.Backend {
	case types.BackendService:
		return convert.NewServiceConverter(client, cfg)
	case types.BackendContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return convert.NewContainerConverter(rt, cfg)
	case types.BackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown conversion backend %q", cfg.Backend)
	}
}

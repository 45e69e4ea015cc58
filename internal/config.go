package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/tuannm99/novasort/internal/alias/util"
	"github.com/tuannm99/novasort/internal/bufferpool"
	"github.com/tuannm99/novasort/internal/sorter"
	"github.com/tuannm99/novasort/internal/storage"
)

const EnvPrefix = "NOVASORT"

var ErrS3BucketRequired = errors.New("config: output.s3.bucket is required when output.kind is s3")

type NovaSortConfig struct {
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	Sort struct {
		Capacity        int           `mapstructure:"capacity" validate:"gte=3"`
		Delimiter       string        `mapstructure:"delimiter" validate:"len=1,ascii"`
		ScratchDir      string        `mapstructure:"scratch_dir" validate:"required"`
		KeepScratch     bool          `mapstructure:"keep_scratch"`
		CleanupAttempts int           `mapstructure:"cleanup_attempts" validate:"gte=1"`
		CleanupPause    time.Duration `mapstructure:"cleanup_pause" validate:"gte=0"`
	} `mapstructure:"sort"`

	Storage struct {
		Codec              string `mapstructure:"codec" validate:"oneof=none snappy zstd lz4"`
		IOLimitBytesPerSec int    `mapstructure:"io_limit_bytes_per_sec" validate:"gte=0"`
	} `mapstructure:"storage"`

	Output struct {
		Kind   string `mapstructure:"kind" validate:"oneof=local s3"`
		Path   string `mapstructure:"path" validate:"required"`
		Report bool   `mapstructure:"report"`

		S3 struct {
			Bucket string `mapstructure:"bucket"`
			Prefix string `mapstructure:"prefix"`
			Region string `mapstructure:"region"`
		} `mapstructure:"s3"`
	} `mapstructure:"output"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("sort.capacity", bufferpool.DefaultCapacity)
	v.SetDefault("sort.delimiter", ";")
	v.SetDefault("sort.scratch_dir", sorter.DefaultScratchRoot)
	v.SetDefault("sort.keep_scratch", false)
	v.SetDefault("sort.cleanup_attempts", util.DefaultRetryPolicy.Attempts)
	v.SetDefault("sort.cleanup_pause", util.DefaultRetryPolicy.Pause)

	v.SetDefault("storage.codec", storage.CodecNone.String())
	v.SetDefault("storage.io_limit_bytes_per_sec", 0)

	v.SetDefault("output.kind", "local")
	v.SetDefault("output.path", "output/sorted.csv")
	v.SetDefault("output.report", false)
	v.SetDefault("output.s3.bucket", "")
	v.SetDefault("output.s3.prefix", "")
	v.SetDefault("output.s3.region", "")
}

// LoadConfig reads defaults, then the optional YAML file at path, then
// NOVASORT_* environment overrides (NOVASORT_SORT_CAPACITY=50).
func LoadConfig(path string) (*NovaSortConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg NovaSortConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
// Every failure wraps sorter.ErrConfiguration.
func (c *NovaSortConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", sorter.ErrConfiguration, err)
	}
	if c.Output.Kind == "s3" && c.Output.S3.Bucket == "" {
		return fmt.Errorf("%w: %w", sorter.ErrConfiguration, ErrS3BucketRequired)
	}
	return nil
}

// SortOptions maps the config onto sorter options.
func (c *NovaSortConfig) SortOptions() (sorter.Options, error) {
	if len(c.Sort.Delimiter) != 1 {
		return sorter.Options{}, fmt.Errorf("%w: delimiter %q must be one byte", sorter.ErrConfiguration, c.Sort.Delimiter)
	}
	codec, err := storage.GetCodec(c.Storage.Codec)
	if err != nil {
		return sorter.Options{}, fmt.Errorf("%w: %w", sorter.ErrConfiguration, err)
	}

	opts := sorter.DefaultOptions()
	opts.Capacity = c.Sort.Capacity
	opts.Delimiter = c.Sort.Delimiter[0]
	opts.ScratchRoot = c.Sort.ScratchDir
	opts.KeepScratch = c.Sort.KeepScratch
	opts.Codec = codec
	opts.IOLimitBytesPerS = c.Storage.IOLimitBytesPerSec
	opts.Cleanup = util.RetryPolicy{
		Attempts: c.Sort.CleanupAttempts,
		Pause:    c.Sort.CleanupPause,
	}
	return opts, nil
}

func (c *NovaSortConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Package config loads the extractor's configuration: defaults, then an optional
// config file, then environment variables, then CLI flags — each layer overriding
// the last.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ethetl/ethetl/internal/apperrors"
)

// StorageType enumerates the supported Storage Operator backends.
type StorageType string

const (
	StorageFS    StorageType = "fs"
	StorageS3    StorageType = "s3"
	StorageAzure StorageType = "azblob"
)

// OutputFormat enumerates the supported Dataset Writer formats.
type OutputFormat string

const (
	FormatCSV     OutputFormat = "csv"
	FormatParquet OutputFormat = "parquet"
)

// FSStorageConfig binds storage.fs.*. Required fields are checked in Load only
// when the backend is the selected one.
type FSStorageConfig struct {
	DataPath string `mapstructure:"data_path"`
}

// S3StorageConfig binds storage.s3.*.
type S3StorageConfig struct {
	Region               string `mapstructure:"region"`
	EndpointURL          string `mapstructure:"endpoint_url"`
	AccessKeyID          string `mapstructure:"access_key_id"`
	SecretAccessKey      string `mapstructure:"secret_access_key"`
	Bucket               string `mapstructure:"bucket"`
	Root                 string `mapstructure:"root"`
	EnableVirtualAddress bool   `mapstructure:"enable_virtual_host_style"`
}

// AzblobStorageConfig binds storage.azblob.*.
type AzblobStorageConfig struct {
	AccountName string `mapstructure:"account_name"`
	AccountKey  string `mapstructure:"account_key"`
	Container   string `mapstructure:"container"`
	EndpointURL string `mapstructure:"endpoint_url"`
	Root        string `mapstructure:"root"`
}

// StorageConfig selects and binds one of the three Storage Operator backends.
type StorageConfig struct {
	Type   StorageType         `mapstructure:"type"`
	FS     FSStorageConfig     `mapstructure:"fs"`
	S3     S3StorageConfig     `mapstructure:"s3"`
	Azblob AzblobStorageConfig `mapstructure:"azblob"`
}

// LogConfig binds log.level / log.dir; the external logger is
// constructed from these, not owned by this package.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

// Config is the full recognized option set.
type Config struct {
	Env         string `mapstructure:"env"`
	ProviderURI string `mapstructure:"provider_uri" validate:"required"`

	StartBlock uint64 `mapstructure:"start_block"`
	EndBlock   uint64 `mapstructure:"end_block"`

	BatchSize     uint64 `mapstructure:"batch_size" validate:"gt=0"`
	MaxWorker     int    `mapstructure:"max_worker" validate:"gt=0"`
	Web3BatchSize uint64 `mapstructure:"web3_batch_size" validate:"gt=0"`

	SyncingIntervalSecs uint64 `mapstructure:"syncing_interval_secs"`

	OutputDir    string       `mapstructure:"output_dir" validate:"required"`
	OutputFormat OutputFormat `mapstructure:"output_format"`

	IncludeTraces bool `mapstructure:"include_traces"`

	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

var validate = validator.New()

// setDefaults registers a viper.SetDefault for every recognized key, then
// AutomaticEnv so environment variables (uppercase, dot-to-underscore) override
// them.
func setDefaults() {
	viper.SetDefault("env", "local")
	viper.SetDefault("provider_uri", "")
	viper.SetDefault("start_block", 0)
	viper.SetDefault("end_block", 0)
	viper.SetDefault("batch_size", 10000)
	viper.SetDefault("max_worker", 4)
	viper.SetDefault("web3_batch_size", 10000)
	viper.SetDefault("syncing_interval_secs", 15)
	viper.SetDefault("output_dir", ".datas")
	viper.SetDefault("output_format", "csv")
	viper.SetDefault("include_traces", false)
	viper.SetDefault("storage.type", "fs")
	viper.SetDefault("storage.fs.data_path", ".datas")
	viper.SetDefault("storage.s3.region", "")
	viper.SetDefault("storage.s3.endpoint_url", "")
	viper.SetDefault("storage.s3.access_key_id", "")
	viper.SetDefault("storage.s3.secret_access_key", "")
	viper.SetDefault("storage.s3.bucket", "")
	viper.SetDefault("storage.s3.root", "")
	viper.SetDefault("storage.s3.enable_virtual_host_style", false)
	viper.SetDefault("storage.azblob.account_name", "")
	viper.SetDefault("storage.azblob.account_key", "")
	viper.SetDefault("storage.azblob.container", "")
	viper.SetDefault("storage.azblob.endpoint_url", "")
	viper.SetDefault("storage.azblob.root", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.dir", "")

	// turns "storage.fs.data_path" into STORAGE_FS_DATA_PATH when matching
	// environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads configuration from an optional file path, environment variables, and
// whatever CLI flags the caller has already bound into viper, in that override
// order, then validates required fields. A validation failure is a ConfigError,
// fatal at startup.
func Load(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, &apperrors.ConfigError{Field: "config_file", Reason: err.Error()}
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, &apperrors.ConfigError{Field: "*", Reason: err.Error()}
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, &apperrors.ConfigError{Field: "validate", Reason: err.Error()}
	}

	switch cfg.Storage.Type {
	case StorageFS:
		if cfg.Storage.FS.DataPath == "" {
			return nil, &apperrors.ConfigError{Field: "storage.fs.data_path", Reason: "required for the fs backend"}
		}
	case StorageS3:
		if cfg.Storage.S3.Bucket == "" {
			return nil, &apperrors.ConfigError{Field: "storage.s3.bucket", Reason: "required for the s3 backend"}
		}
	case StorageAzure:
		if cfg.Storage.Azblob.Container == "" {
			return nil, &apperrors.ConfigError{Field: "storage.azblob.container", Reason: "required for the azblob backend"}
		}
	default:
		return nil, &apperrors.ConfigError{Field: "storage.type", Reason: fmt.Sprintf("unsupported storage type %q", cfg.Storage.Type)}
	}

	switch cfg.OutputFormat {
	case FormatCSV, FormatParquet:
	default:
		return nil, &apperrors.ConfigError{Field: "output_format", Reason: fmt.Sprintf("unsupported output format %q", cfg.OutputFormat)}
	}

	return &cfg, nil
}

// SuperChunkSize is batch_size * max_worker: the block count covered by one
// Worker Pool invocation and one checkpoint write.
func (c *Config) SuperChunkSize() uint64 {
	return c.BatchSize * uint64(c.MaxWorker)
}

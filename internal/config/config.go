package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/config"
)

type (
	Config struct {
		ConfigName string           `mapstructure:"config_name" validate:"required"`
		GCP        *GcpConfig       `mapstructure:"gcp"`
		Chain      ChainConfig      `mapstructure:"chain"`
		Warehouse  WarehouseConfig  `mapstructure:"warehouse"`
		Settlement SettlementConfig `mapstructure:"settlement"`
		Badge      BadgeConfig      `mapstructure:"badge"`
		Metadata   MetadataConfig   `mapstructure:"metadata"`
		Cron       CronConfig       `mapstructure:"cron"`
		StatsD     *StatsDConfig    `mapstructure:"statsd"`

		namespace string
		env       Env
	}

	GcpConfig struct {
		Project string `mapstructure:"project" validate:"required"`
		Bucket  string `mapstructure:"bucket" validate:"required"`
	}

	ChainConfig struct {
		RPCURL              string          `mapstructure:"rpc_url" validate:"required"`
		ChainID             int64           `mapstructure:"chain_id" validate:"required"`
		RPS                 int             `mapstructure:"rps"`
		StartBlock          uint64          `mapstructure:"start_block"`
		ReceiptPollInterval time.Duration   `mapstructure:"receipt_poll_interval" validate:"required"`
		Contracts           ContractsConfig `mapstructure:"contracts"`
		Operator            OperatorConfig  `mapstructure:"operator"`
	}

	ContractsConfig struct {
		Rewarder           common.Address `mapstructure:"rewarder" validate:"required"`
		Minter             common.Address `mapstructure:"minter" validate:"required"`
		FractionCostBadges common.Address `mapstructure:"fraction_cost_badges" validate:"required"`
		InternalTokens     common.Address `mapstructure:"internal_tokens" validate:"required"`
	}

	// OperatorConfig holds the keystore of the account signing every transaction.
	// Both values are expected to come from .secrets.yml or the environment.
	OperatorConfig struct {
		EncryptedWallet string `mapstructure:"encrypted_wallet"`
		Passphrase      string `mapstructure:"passphrase"`
	}

	WarehouseConfig struct {
		Project  string `mapstructure:"project" validate:"required"`
		Dataset  string `mapstructure:"dataset" validate:"required"`
		Table    string `mapstructure:"table" validate:"required"`
		Location string `mapstructure:"location" validate:"required"`
	}

	SettlementConfig struct {
		MinRefreshInterval time.Duration `mapstructure:"min_refresh_interval" validate:"required"`
		WriteBatchSize     int           `mapstructure:"write_batch_size" validate:"required,gt=0,lte=500"`
		WalletChunkSize    int           `mapstructure:"wallet_chunk_size" validate:"required,gt=0,lte=10"`
		Parallelism        int           `mapstructure:"parallelism" validate:"required,gt=0"`
		Retention          time.Duration `mapstructure:"retention" validate:"required"`
		PendingAgeWarning  time.Duration `mapstructure:"pending_age_warning" validate:"required"`
	}

	BadgeConfig struct {
		Maturity    time.Duration `mapstructure:"maturity" validate:"required"`
		Week        time.Duration `mapstructure:"week" validate:"required"`
		Parallelism int           `mapstructure:"parallelism" validate:"required,gt=0"`
	}

	MetadataConfig struct {
		ObjectKeyTemplate string `mapstructure:"object_key_template" validate:"required"`
		PublicURLTemplate string `mapstructure:"public_url_template" validate:"required"`
		ContentType       string `mapstructure:"content_type" validate:"required"`
	}

	CronConfig struct {
		TaskTimeout        time.Duration `mapstructure:"task_timeout" validate:"required"`
		ListenImport       TaskConfig    `mapstructure:"listen_import"`
		RewardConfirmation TaskConfig    `mapstructure:"reward_confirmation"`
		MintConfirmation   TaskConfig    `mapstructure:"mint_confirmation"`
		BadgeUpdate        TaskConfig    `mapstructure:"badge_update"`
		ListenCleanup      TaskConfig    `mapstructure:"listen_cleanup"`
	}

	TaskConfig struct {
		Spec     string `mapstructure:"spec" validate:"required"`
		Disabled bool   `mapstructure:"disabled"`
	}

	StatsDConfig struct {
		Address string `mapstructure:"address" validate:"required"`
		Prefix  string `mapstructure:"prefix"`
	}

	ConfigOption func(options *configOptions)

	Env string

	configOptions struct {
		Namespace string `validate:"required"`
		Env       Env    `validate:"required,oneof=production development local"`
	}
)

const (
	EnvVarNamespace   = "SETTLEMENT_NAMESPACE"
	EnvVarEnvironment = "SETTLEMENT_ENVIRONMENT"
	EnvVarConfigRoot  = "SETTLEMENT_CONFIG_ROOT"
	EnvVarConfigPath  = "SETTLEMENT_CONFIG_PATH"
	EnvVarTestType    = "TEST_TYPE"
	EnvVarCI          = "CI"

	CurrentFileName = "/internal/config/config.go"

	DefaultNamespace = "settlement"

	EnvBase        Env = "base"
	EnvLocal       Env = "local"
	EnvDevelopment Env = "development"
	EnvProduction  Env = "production"
	envSecrets     Env = "secrets" // secrets.yml is merged into the env-specific config

	tagEnv       = "env"
	tagNamespace = "namespace"
)

func New(opts ...ConfigOption) (*Config, error) {
	validate := validator.New()

	configOpts := getConfigOptions(opts...)
	if err := validate.Struct(configOpts); err != nil {
		return nil, xerrors.Errorf("failed to validate config options: %w", err)
	}

	configReader, err := getConfigData(configOpts.Namespace, EnvBase)
	if err != nil {
		return nil, xerrors.Errorf("failed to locate config file: %w", err)
	}

	cfg := Config{
		namespace: configOpts.Namespace,
		env:       configOpts.Env,
	}

	v := viper.New()
	v.SetConfigName(string(EnvBase))
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("SETTLEMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values.
	// Note that the default values may be overridden by environment variable or config file.
	v.SetDefault("chain.receipt_poll_interval", "5s")

	if err := v.ReadConfig(configReader); err != nil {
		return nil, xerrors.Errorf("failed to read config: %w", err)
	}

	// Merge in the env-specific config, such as development.yml
	if err := mergeInConfig(v, configOpts, configOpts.Env); err != nil {
		return nil, xerrors.Errorf("failed to merge in %v config: %w", configOpts.Env, err)
	}

	// Merge in .secrets.yml. Note that this is a no-op for development and production env.
	if err := mergeInConfig(v, configOpts, envSecrets); err != nil {
		return nil, xerrors.Errorf("failed to merge in %v config: %w", envSecrets, err)
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, xerrors.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, xerrors.Errorf("failed to validate config: %w", err)
	}

	return &cfg, nil
}

func GetEnv() Env {
	switch env := Env(os.Getenv(EnvVarEnvironment)); env {
	case EnvDevelopment, EnvProduction:
		return env
	default:
		return EnvLocal
	}
}

func GetConfigRoot() string {
	return os.Getenv(EnvVarConfigRoot)
}

func GetConfigPath() string {
	return os.Getenv(EnvVarConfigPath)
}

func mergeInConfig(v *viper.Viper, configOpts *configOptions, env Env) error {
	// Merge in the env-specific config if available.
	if configReader, err := getConfigData(configOpts.Namespace, env); err == nil {
		v.SetConfigName(string(env))
		if err := v.MergeConfig(configReader); err != nil {
			return xerrors.Errorf("failed to merge config %v: %w", env, err)
		}
	}
	return nil
}

func (c *Config) Namespace() string {
	return c.namespace
}

func (c *Config) Env() Env {
	return c.env
}

func (c *Config) GetCommonTags() map[string]string {
	return map[string]string{
		tagEnv:       string(c.env),
		tagNamespace: c.namespace,
	}
}

func (c *Config) IsTest() bool {
	return os.Getenv(EnvVarTestType) != ""
}

func (c *Config) IsIntegrationTest() bool {
	return os.Getenv(EnvVarTestType) == "integration"
}

func (c *Config) IsCI() bool {
	return os.Getenv(EnvVarCI) != ""
}

func WithNamespace(namespace string) ConfigOption {
	return func(opts *configOptions) {
		opts.Namespace = namespace
	}
}

func WithEnvironment(env Env) ConfigOption {
	return func(opts *configOptions) {
		opts.Env = env
	}
}

func getConfigOptions(opts ...ConfigOption) *configOptions {
	configOpts := &configOptions{}
	for _, opt := range opts {
		opt(configOpts)
	}

	if configOpts.Namespace == "" {
		namespace := os.Getenv(EnvVarNamespace)
		if namespace == "" {
			namespace = DefaultNamespace
		}

		configOpts.Namespace = namespace
	}

	if configOpts.Env == "" {
		configOpts.Env = GetEnv()
	}

	return configOpts
}

func getConfigData(namespace string, env Env) (io.Reader, error) {
	configRoot := GetConfigRoot()
	if env == envSecrets {
		// .secrets.yml is intentionally not embedded in config.Store.
		// Read it from the file system instead.
		if len(configRoot) == 0 {
			_, filename, _, ok := runtime.Caller(0)
			if !ok {
				return nil, xerrors.Errorf("failed to recover the filename information")
			}
			rootDir := strings.TrimSuffix(filename, CurrentFileName)
			configRoot = fmt.Sprintf("%v/config", rootDir)
		}
		configPath := fmt.Sprintf("%v/%v/.secrets.yml", configRoot, namespace)
		reader, err := os.Open(configPath)
		if err != nil {
			return nil, xerrors.Errorf("failed to read config file %v: %w", configPath, err)
		}
		return reader, nil
	}

	configPath := GetConfigPath()
	// If configPath is not set, try to construct the file system path from configRoot.
	if len(configPath) == 0 && len(configRoot) > 0 {
		configPath = fmt.Sprintf("%v/%v/%v.yml", configRoot, namespace, env)
	}

	// If either configRoot or configPath is set, read the config from the file system.
	if len(configPath) > 0 {
		reader, err := os.Open(configPath)
		if err != nil {
			return nil, xerrors.Errorf("failed to read config file %v: %w", configPath, err)
		}
		return reader, nil
	}

	// Read the config from the embedded config.Store.
	configPath = fmt.Sprintf("%v/%v.yml", namespace, env)
	data, err := config.Store.ReadFile(configPath)
	if err != nil {
		return nil, xerrors.Errorf("failed to read config file %v: %w", configPath, err)
	}
	return bytes.NewBuffer(data), nil
}

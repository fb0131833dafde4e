package config

import (
	"fmt"
	"strings"

	internal "github.com/kestler/wordvec/wvec"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Corpus   CorpusConfig   `mapstructure:"corpus"`
	Training TrainingConfig `mapstructure:"training"`
	Query    QueryConfig    `mapstructure:"query"`
}

// CorpusConfig stores corpus acquisition settings.
type CorpusConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

// TrainingConfig stores the CBOW hyperparameter surface.
type TrainingConfig struct {
	WindowRadius int     `mapstructure:"windowRadius"`
	EmbeddingDim int     `mapstructure:"embeddingDim"`
	Epochs       int     `mapstructure:"epochs"`
	BatchSize    int     `mapstructure:"batchSize"`
	LearningRate float64 `mapstructure:"learningRate"`
	Seed         int64   `mapstructure:"seed"`
}

// QueryConfig stores similarity query settings.
type QueryConfig struct {
	TopN int `mapstructure:"topN"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("corpus.url", internal.DefaultCorpusURL)
	viper.SetDefault("corpus.timeoutSeconds", 60)
	viper.SetDefault("training.windowRadius", internal.DefaultWindowRadius)
	viper.SetDefault("training.embeddingDim", internal.DefaultEmbeddingDim)
	viper.SetDefault("training.epochs", internal.DefaultEpochs)
	viper.SetDefault("training.batchSize", internal.DefaultBatchSize)
	viper.SetDefault("training.learningRate", internal.DefaultLearningRate)
	viper.SetDefault("training.seed", internal.DefaultSeed)
	viper.SetDefault("query.topN", internal.DefaultTopN)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. training.windowRadius becomes TRAINING_WINDOWRADIUS

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := AppConfig.Validate(); err != nil {
		return nil, err
	}

	return &AppConfig, nil
}

// Validate rejects hyperparameter combinations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Training.WindowRadius < 1 {
		return fmt.Errorf("training.windowRadius must be >= 1, got %d", c.Training.WindowRadius)
	}
	if c.Training.EmbeddingDim < 1 {
		return fmt.Errorf("training.embeddingDim must be >= 1, got %d", c.Training.EmbeddingDim)
	}
	if c.Training.Epochs < 1 {
		return fmt.Errorf("training.epochs must be >= 1, got %d", c.Training.Epochs)
	}
	if c.Training.BatchSize < 1 {
		return fmt.Errorf("training.batchSize must be >= 1, got %d", c.Training.BatchSize)
	}
	if c.Training.LearningRate <= 0 {
		return fmt.Errorf("training.learningRate must be > 0, got %f", c.Training.LearningRate)
	}
	if c.Query.TopN < 1 {
		return fmt.Errorf("query.topN must be >= 1, got %d", c.Query.TopN)
	}
	return nil
}

package internal

import (
	"os"

	"github.com/rs/zerolog"
)

var (
	DefaultAppName = "wordvec"

	// DefaultCorpusURL points at the Project Gutenberg plain-text edition of
	// Pride and Prejudice, the corpus used for the example run.
	DefaultCorpusURL = "https://www.gutenberg.org/files/1342/1342-0.txt"

	// Default training hyperparameters
	DefaultWindowRadius = 4
	DefaultEmbeddingDim = 100
	DefaultEpochs       = 20
	DefaultBatchSize    = 32
	DefaultLearningRate = 0.001
	DefaultSeed         = int64(42)
	DefaultTopN         = 5
)

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

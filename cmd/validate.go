package cmd

import (
	"log"
	"os"

	"github.com/spigell/cv-matcher/internal/candidate"
	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/render"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var validateCmd = &cobra.Command{
	Use:   "validate <cv.pdf>",
	Short: "Check that a file can be submitted without uploading it",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}
		defer logger.Sync()

		file, err := candidate.Open(args[0])
		if err != nil {
			logger.Fatal("opening the cv", zap.String("path", args[0]), zap.Error(err))
		}

		if err := candidate.Validate(file); err != nil {
			logger.Fatal("the cv can not be submitted", zap.String("path", args[0]), zap.Error(err))
		}

		render.New(os.Stdout).Candidate(file)
		logger.Debug("the cv is valid", zap.String("media_type", file.MediaType), zap.Int("pages", file.Pages))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

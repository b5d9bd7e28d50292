package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/spigell/resume-scorer/internal/vocabulary"
)

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "Inspect the keyword vocabulary",
}

var vocabularyDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective vocabulary as yaml",
	Run: func(_ *cobra.Command, _ []string) {
		vocab, err := vocabulary.Load(viper.GetString("vocabulary-file"))
		if err != nil {
			log.Fatalf("loading vocabulary: %s", err)
		}

		if err := writeVocabulary(os.Stdout, vocab); err != nil {
			log.Fatalf("writing vocabulary: %s", err)
		}
	},
}

func writeVocabulary(w io.Writer, vocab *vocabulary.Vocabulary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(vocab); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	return nil
}

func init() {
	vocabularyCmd.AddCommand(vocabularyDumpCmd)
	rootCmd.AddCommand(vocabularyCmd)
}

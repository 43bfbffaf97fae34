package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/ladle/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Walk through a recipe interactively",
	Long: `Opens an interactive walkthrough session in the terminal.

Recipes can come from a local recipe book directory (--book), from a recipe
page URL via the extraction service (--url, requires extractor_url in the
config), or by ID when the book holds several (--recipe).`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if book, _ := cmd.Flags().GetString("book"); book != "" {
			cfg.BookPath = book
		}

		logger := newLogger(cmd)
		rt, err := cli.BuildRuntime(cmd.Context(), cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing ladle: %v\n", err)
			os.Exit(1)
		}
		defer rt.Close()

		recipeID, _ := cmd.Flags().GetString("recipe")
		url, _ := cmd.Flags().GetString("url")
		plain, _ := cmd.Flags().GetBool("plain")

		if err := cli.RunChat(cmd.Context(), rt.Engine, cli.ChatOptions{
			RecipeID: recipeID,
			URL:      url,
			Plain:    plain,
		}); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("book", "", "Directory containing a local recipe book")
	chatCmd.Flags().String("recipe", "", "ID of the recipe to walk through")
	chatCmd.Flags().String("url", "", "Recipe page URL to extract and walk through")
	chatCmd.Flags().Bool("plain", false, "Disable banner and markdown rendering")
}

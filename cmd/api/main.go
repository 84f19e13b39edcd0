package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmaster/boards/cmd/api/commands"
)

// @title Boards API
// @version 1.0
// @description Kanban boards with lists, cards, checklists, templates and an archive lifecycle

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "boards",
		Short: "Boards API Server",
		Long:  `Boards serves kanban boards over HTTP and ships operator commands for migrations, templates and board copies.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewBoardCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}

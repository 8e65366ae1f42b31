package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// adminCommands bootstraps the system account. The token is printed to
// stdout exactly once and is never logged or stored in plaintext; if the
// account already exists the existing credential is left untouched.
func adminCommands(k *kestrelInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "create the system account and print its one-time token",
		Run: func(cmd *cobra.Command, args []string) {
			result, err := k.kestrel.EnsureSystemAccount(context.Background())
			if err != nil {
				log.Fatalf("Error bootstrapping system account: %v", err)
			}
			if result == nil {
				fmt.Println("system account already exists, token unchanged")
				return
			}
			fmt.Printf("system account created. token (shown once): %s\n", result.Token)
		},
	}

	return cmd
}

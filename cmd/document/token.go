package main

import (
	"errors"
	"fmt"

	"github.com/doclab/doclab/internal/tokens"
	"github.com/spf13/cobra"
)

var tokenSubject tokens.Subject

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an HS256 access token signed with JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}
		m, err := tokens.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		if err != nil {
			return err
		}
		s, err := m.GenerateAccessToken(tokenSubject, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject.Sub, "sub", "", "subject id (required)")
	tokenCmd.Flags().StringVar(&tokenSubject.Name, "name", "", "display name used as document author")
	tokenCmd.Flags().StringVar(&tokenSubject.Email, "email", "", "e-mail claim")
	_ = tokenCmd.MarkFlagRequired("sub")
	rootCmd.AddCommand(tokenCmd)
}

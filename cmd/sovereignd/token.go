package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "sovereign/internal/jwt_token"
	"sovereign/internal/platform/config"
	id "sovereign/pkg/domain"
)

// tokenCommand issues a bearer token for a participant, signed with the
// configured key. Intended for operators and local development.
func tokenCommand() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:     "token <participant>",
		Short:   "Issue a bearer token for a participant",
		Args:    cobra.ExactArgs(1),
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			participant, err := id.ParseParticipantID(args[0])
			if err != nil {
				return err
			}
			if ttl <= 0 {
				return fmt.Errorf("ttl must be positive")
			}
			if cfg.UsingDevSigningKey() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: signing with the development key")
			}

			svc := jwttoken.NewJWTService(cfg.HTTP.JWTSigningKey, cfg.HTTP.JWTIssuer, cfg.HTTP.JWTAudience)
			token, err := svc.GenerateAccessToken(participant, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

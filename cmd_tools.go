package main

import (
	"fmt"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/spf13/cobra"
)

// storefront hash-admin-key <key>
func newHashAdminKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-admin-key <key>",
		Short: "Print the bcrypt hash to set as ADMIN_API_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := middleware.HashAdminKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// storefront dev-token <user-id>
func newDevTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "dev-token <user-id>",
		Short: "Sign a bearer token with IDENTITY_JWT_SECRET for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := bootConfig()
			if rt.cfg.IdentityJWTSecret == "" {
				return fmt.Errorf("dev-token needs IDENTITY_JWT_SECRET")
			}
			identity, err := services.NewIdentityService(rt.cfg.IdentityJWTSecret, "", rt.cfg.IdentityJWTIssuer)
			if err != nil {
				return err
			}
			token, err := identity.IssueToken(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

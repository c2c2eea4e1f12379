package cli

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication helpers",
	}

	cmd.AddCommand(newAuthTokenCmd())
	return cmd
}

func newAuthTokenCmd() *cobra.Command {
	var (
		subject  string
		email    string
		name     string
		audience string
		secret   string
		expires  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a shared-secret JWT and save it to the active profile",
		Long:  "Generate an HS256 JWT for servers configured with JWT_SECRET. The token is saved to the active profile automatically.",
		Example: `  # Token for the bootstrap administrator with the default dev secret
  idmctl auth token --subject admin --secret dev-secret-change-in-production

  # Token with an audience and custom expiry
  idmctl auth token --subject ops@example.com --audience identity-console --secret mysecret --expires 48h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			claims := jwt.MapClaims{
				"sub": subject,
				"iat": now.Unix(),
				"exp": now.Add(expires).Unix(),
			}
			if email != "" {
				claims["email"] = email
			}
			if name != "" {
				claims["name"] = name
			}
			if audience != "" {
				claims["aud"] = audience
			}

			token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
			signed, err := token.SignedString([]byte(secret))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			// Save to active profile
			cfg, err := loadOrNewUserConfig()
			if err != nil {
				return err
			}
			p := cfg.Profiles[cfg.CurrentProfile]
			p.Token = signed
			cfg.Profiles[cfg.CurrentProfile] = p
			if err := SaveUserConfig(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Caller identity (JWT sub claim)")
	cmd.Flags().StringVar(&email, "email", "", "Optional email claim")
	cmd.Flags().StringVar(&name, "name", "", "Optional name claim")
	cmd.Flags().StringVar(&audience, "audience", "", "Audience (aud claim), must match AUTH_AUDIENCE when set")
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret (HS256)")
	cmd.Flags().DurationVar(&expires, "expires", 24*time.Hour, "Token expiry duration")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

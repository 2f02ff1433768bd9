// Command token-generator prints a signed bearer token that authorizes work
// submission. It reads the signing secret and token lifetime from the same
// configuration as the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/phrazzld/taskqueue/internal/config"
	"github.com/phrazzld/taskqueue/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "token-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("token-generator", flag.ContinueOnError)
	flags.SetOutput(stderr)

	subject := flags.String("subject", "", "name of the submitter the token is issued to (required)")
	ttl := flags.Duration("ttl", 0, "token lifetime; defaults to auth.token_lifetime")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if *subject == "" {
		flags.Usage()
		return errors.New("-subject is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	return generate(cfg.Auth, *subject, *ttl, stdout)
}

// generate writes a token for subject to w, overriding the configured lifetime when ttl > 0.
func generate(cfg config.AuthConfig, subject string, ttl time.Duration, w io.Writer) error {
	if !cfg.Enabled() {
		return fmt.Errorf("auth.jwt_secret is not set (use %s_AUTH_JWT_SECRET)", config.EnvPrefix)
	}
	if ttl > 0 {
		cfg.TokenLifetime = ttl
	}

	jwtService, err := auth.NewJWTService(cfg)
	if err != nil {
		return err
	}

	token, err := jwtService.GenerateToken(context.Background(), subject)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, token)
	return err
}

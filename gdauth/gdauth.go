package gdauth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type Config struct {
	CredentialsPath string
	TokenPath       string
}

func FromEnv() (Config, error) {
	// Environment should already be loaded by main.go
	cfg := Config{
		CredentialsPath: os.Getenv("GOOGLE_CREDENTIALS_PATH"),
		TokenPath:       os.Getenv("GOOGLE_TOKEN_PATH"),
	}
	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = "credentials.json"
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = "token.json"
	}
	if _, err := os.Stat(cfg.CredentialsPath); err != nil {
		return cfg, fmt.Errorf("credentials file %s: %w", cfg.CredentialsPath, err)
	}
	return cfg, nil
}

// NewService builds a read-only Drive service. Both service-account and
// OAuth-client credential files are accepted; the kind is detected from the
// JSON itself. The OAuth path expects a previously stored token file.
func NewService(ctx context.Context, cfg Config) (*drive.Service, error) {
	raw, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	if probe.Type == "service_account" {
		svc, err := drive.NewService(ctx,
			option.WithCredentialsJSON(raw),
			option.WithScopes(drive.DriveReadonlyScope))
		if err != nil {
			return nil, fmt.Errorf("build drive service (service account): %w", err)
		}
		return svc, nil
	}

	// OAuth client credentials: reuse the stored token
	oauthCfg, err := google.ConfigFromJSON(raw, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client credentials: %w", err)
	}

	token, err := tokenFromFile(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("no stored token at %s (complete the OAuth flow first): %w", cfg.TokenPath, err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("build drive service (oauth): %w", err)
	}
	return svc, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return token, nil
}

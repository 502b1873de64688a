package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"namecard/internal/domain"
	"namecard/internal/infra/avatar"
	"namecard/internal/infra/filestore"
	"namecard/internal/infra/sources"
	"namecard/internal/usecase"
)

type exportFlags struct {
	profilePath string
	cardPath    string
	token       string
	index       int
	outDir      string
}

func newExporter(api *sources.APIClient) usecase.CardExporter {
	opts := usecase.Options{
		Avatars: avatar.NewHTTPFetcher(avatar.Config{
			Timeout:      cfg.Avatar.Timeout,
			MaxBytes:     cfg.Avatar.MaxBytes,
			AllowedHosts: cfg.Avatar.AllowedHosts,
			AllowPrivate: cfg.Avatar.AllowPrivate,
		}, logger, nil),
		Logger: logger,
	}
	if api != nil {
		opts.Cards = api
		opts.Profiles = api
	}
	return usecase.NewCardExporter(opts)
}

func newExportCmd() *cobra.Command {
	f := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a card from local profile and card JSON files",
		Example: `  namecard export --profile me.json --card card.json --index 0 --out ./cards`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var profile domain.Profile
			if err := readJSON(f.profilePath, &profile); err != nil {
				return err
			}
			var card domain.Card
			if err := readJSON(f.cardPath, &card); err != nil {
				return err
			}

			art, err := newExporter(nil).ExportCard(cmd.Context(), profile, card, f.index)
			if err != nil {
				return err
			}
			return save(cmd, f.outDir, art)
		},
	}

	cmd.Flags().StringVar(&f.profilePath, "profile", "", "profile JSON file")
	cmd.Flags().StringVar(&f.cardPath, "card", "", "card JSON file")
	cmd.Flags().IntVar(&f.index, "index", 0, "position of the card in the user's collection")
	cmd.Flags().StringVarP(&f.outDir, "out", "o", ".", "output directory")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("card")
	return cmd
}

func newFetchCmd() *cobra.Command {
	f := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "fetch <card-id>",
		Short: "Load a card and its owner's profile from the API and export it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid card id %q: %w", args[0], err)
			}
			token := f.token
			if token == "" {
				token = os.Getenv("NAMECARD_TOKEN")
			}

			api := sources.NewAPIClient(sources.APIConfig{
				BaseURL:     cfg.Upstream.BaseURL,
				ProfilePath: cfg.Upstream.ProfilePath,
				CardPath:    cfg.Upstream.CardPath,
				Timeout:     cfg.Upstream.Timeout,
			})

			art, err := newExporter(api).ExportByID(cmd.Context(), token, id, f.index)
			if err != nil {
				return err
			}
			return save(cmd, f.outDir, art)
		},
	}

	cmd.Flags().StringVar(&f.token, "token", "", "API bearer token (default $NAMECARD_TOKEN)")
	cmd.Flags().IntVar(&f.index, "index", 0, "position of the card in the user's collection")
	cmd.Flags().StringVarP(&f.outDir, "out", "o", ".", "output directory")
	return cmd
}

func save(cmd *cobra.Command, dir string, art *domain.ExportArtifact) error {
	path, err := filestore.WriteArtifact(dir, *art)
	if err != nil {
		return err
	}
	logger.Debug("artifact written", zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return nil
}

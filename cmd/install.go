package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"vsixinstall/internal/config"
	"vsixinstall/internal/editor"
	"vsixinstall/internal/extensions"
	"vsixinstall/internal/marketplace"
	"vsixinstall/internal/models"
	"vsixinstall/internal/utils"
)

var errMissingIdentifier = errors.New("missing extension name (e.g., publisher.extension)")

type installOptions struct {
	Identifier string
	Install    bool
	URLOnly    bool
}

type dependencies struct {
	lookup editor.LookupFunc
	runner editor.Runner
	logger *utils.Logger
}

// selectIdentifier picks the last argument that looks like an identifier.
// Marketplace links are reduced to the identifier they point at.
func selectIdentifier(args []string) (string, bool) {
	var selected string
	for _, arg := range args {
		token := marketplace.IdentifierFromToken(arg)
		if strings.Contains(token, ".") {
			selected = token
		}
	}
	return selected, selected != ""
}

func runInstall(ctx context.Context, out io.Writer, cfg config.Config, opts installOptions, deps dependencies) error {
	id, err := models.ParseIdentifier(opts.Identifier)
	if err != nil {
		return err
	}

	var installer *editor.Installer
	if opts.Install && !opts.URLOnly {
		detector := editor.NewDetector(deps.lookup, cfg.EditorCandidates, deps.logger)
		command, err := detector.Detect(cfg.EditorCommand)
		if err != nil {
			return err
		}
		installer = editor.NewInstaller(command, deps.runner, deps.logger)
	}

	client := marketplace.NewClient(cfg.HTTPTimeout, cfg.UserAgent, deps.logger)
	provider, err := marketplace.NewFactory(cfg, client, deps.logger).CreateByType(marketplace.MarketplaceType(cfg.MarketplaceType))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Resolving %s via %s...\n", id, provider.GetName())
	info, err := provider.Resolve(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find VSIX download URL: %w", err)
	}

	if opts.URLOnly {
		fmt.Fprintln(out, info.DownloadURL)
		return nil
	}

	packagePath := filepath.Join(cfg.OutputDir, id.FileName())
	fmt.Fprintf(out, "Downloading VSIX to %s...\n", packagePath)
	result, err := client.DownloadPackage(ctx, info.DownloadURL, packagePath)
	if err != nil {
		return fmt.Errorf("error downloading extension: %w", err)
	}
	fmt.Fprintf(out, "✅ Download complete: %s (%s)\n", result.FilePath, humanize.Bytes(uint64(result.Size)))

	printExtensionInfo(out, result.FilePath, deps.logger)

	if installer == nil {
		fmt.Fprintln(out, "Skipping installation. Use '-i' to install.")
		return nil
	}

	fmt.Fprintf(out, "Installing extension using %s from %s...\n", installer.Command(), result.FilePath)
	if err := installer.Install(ctx, result.FilePath); err != nil {
		return fmt.Errorf("error installing extension: %w", err)
	}
	fmt.Fprintln(out, "✅ Installation complete!")
	return nil
}

// printExtensionInfo is informational only; an unreadable package is not fatal.
func printExtensionInfo(out io.Writer, packagePath string, logger *utils.Logger) {
	ext, err := extensions.NewInspector().ReadExtensionInfo(packagePath)
	if err != nil {
		logger.LogWarning("could not read extension manifest: %v", err)
		return
	}

	fmt.Fprintf(out, "\nExtension information:\n")
	fmt.Fprintf(out, "  ID: %s\n", ext.ID)
	fmt.Fprintf(out, "  Name: %s\n", ext.DisplayName)
	fmt.Fprintf(out, "  Publisher: %s\n", ext.Publisher)
	fmt.Fprintf(out, "  Version: %s\n", ext.Version)
	if ext.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", ext.Description)
	}
}

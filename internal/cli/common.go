package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pomtree/pomtree/pkg/downloader"
	apperrors "github.com/pomtree/pomtree/pkg/errors"
	"github.com/pomtree/pomtree/pkg/httputil"
	"github.com/pomtree/pomtree/pkg/pom"
	"github.com/pomtree/pomtree/pkg/resolve"
	"github.com/pomtree/pomtree/pkg/settings"
)

// resolveOpts holds the flags shared by every command that runs the
// resolver pipeline.
type resolveOpts struct {
	settingsPath string   // settings file (mirrors, credentials, repositories)
	profiles     []string // additional active profiles
	noCache      bool     // bypass the POM response cache
	optional     bool     // also resolve optional dependencies
}

func (o *resolveOpts) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.settingsPath, "settings", "", "settings file (default ~/.config/pomtree/settings.toml)")
	cmd.PersistentFlags().StringSliceVarP(&o.profiles, "profile", "P", nil, "activate additional profiles")
	cmd.PersistentFlags().BoolVar(&o.noCache, "no-cache", false, "bypass the POM response cache")
	cmd.PersistentFlags().BoolVar(&o.optional, "optional", false, "also resolve optional dependencies")
}

// loadSettings reads the execution context from the settings file and
// applies the profile flags.
func (o *resolveOpts) loadSettings() (settings.Context, error) {
	path := o.settingsPath
	if path == "" {
		var err error
		if path, err = settings.DefaultPath(); err != nil {
			return settings.Context{}, err
		}
	}
	sctx, err := settings.Load(path)
	if err != nil {
		return settings.Context{}, fmt.Errorf("loading settings %s: %w", path, err)
	}
	sctx.ActiveProfiles = append(sctx.ActiveProfiles, o.profiles...)
	return sctx, nil
}

// newDownloader builds the HTTP downloader, cached unless --no-cache.
func (o *resolveOpts) newDownloader(ctx context.Context) (*downloader.HTTP, error) {
	var cache *httputil.Cache
	if !o.noCache {
		var err error
		if cache, err = httputil.NewCache("", 24*time.Hour); err != nil {
			return nil, err
		}
	}
	return downloader.NewHTTP(cache, loggerFromContext(ctx)), nil
}

// loadRaw turns the command argument, a pom.xml path or a
// groupId:artifactId:version coordinate, into a raw POM.
func loadRaw(ctx context.Context, d *downloader.HTTP, sctx settings.Context, arg string) (*pom.RawPom, error) {
	if strings.HasSuffix(arg, ".xml") || fileExists(arg) {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		raw, err := pom.Parse(data)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPom, err, "parsing %s", arg)
		}
		if abs, err := filepath.Abs(arg); err == nil {
			raw.Origin = abs
		} else {
			raw.Origin = arg
		}
		return raw, nil
	}
	return d.FetchCoordinate(ctx, arg, sctx.Repositories)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// runResolve executes the full pipeline for one argument, returning the
// model together with the non-fatal errors the resolution reported.
func runResolve(ctx context.Context, opts *resolveOpts, arg string) (*pom.Pom, []error, error) {
	sctx, err := opts.loadSettings()
	if err != nil {
		return nil, nil, err
	}
	d, err := opts.newDownloader(ctx)
	if err != nil {
		return nil, nil, err
	}

	raw, err := loadRaw(ctx, d, sctx, arg)
	if err != nil {
		return nil, nil, err
	}

	var warnings []error
	sctx.OnError = func(err error) {
		warnings = append(warnings, err)
		loggerFromContext(ctx).Debug("resolution warning", "err", err)
	}

	resolver := resolve.New(d, sctx, resolve.Options{
		ResolveOptional: opts.optional,
		Logger:          loggerFromContext(ctx),
	})
	model, err := resolver.Resolve(ctx, raw)
	if err != nil {
		return nil, warnings, err
	}
	return model, warnings, nil
}

// printWarnings surfaces collected resolution warnings after the result.
func printWarnings(warnings []error) {
	for _, w := range warnings {
		printWarning("%s", apperrors.UserMessage(w))
	}
}

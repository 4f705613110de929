// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/minifyimg/pkg/config"
	"github.com/walteh/minifyimg/pkg/imagemin"
	"github.com/walteh/minifyimg/pkg/log"
	"github.com/walteh/minifyimg/pkg/plugin"
	"github.com/walteh/minifyimg/pkg/storage"
)

const (
	defaultInputDir = "src/images/**/*"
	defaultOutDir   = "assets/images"
)

// 🎛️ rootOpts holds the flag values of the root command
type rootOpts struct {
	configFile string
	inputDir   string
	outDir     string
	deepCopy   bool
	plugins    []string
	useWebp    bool
	clean      bool
	debug      bool

	fs storage.FileSystem
}

// 🏭 newRootCmd creates the minifyimg command tree
func newRootCmd() *cobra.Command {
	opts := &rootOpts{fs: storage.NewDisk()}

	cmd := &cobra.Command{
		Use:   "minifyimg [patterns...]",
		Short: "Minify images matched by glob patterns",
		Long: `minifyimg runs every image matched by --input-dir through a chain of
plugins and writes the results below --out-dir.

With --use-webp png and jpeg images are also converted to webp and
written with a .webp extension.

Extra patterns may be passed as arguments. Patterns starting with "!"
exclude matching files.`,
		Example: `  minifyimg
  minifyimg -i 'static/**/*.png' -o dist/img -p png
  minifyimg '!src/images/raw/**'`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.inputDir, "input-dir", "i", defaultInputDir, "glob pattern of the images to minify")
	flags.StringVarP(&opts.outDir, "out-dir", "o", defaultOutDir, "directory to write minified images to")
	flags.BoolVarP(&opts.deepCopy, "deep-copy", "d", true, "keep the directory structure below the input pattern")
	flags.StringSliceVarP(&opts.plugins, "plugin", "p", append([]string(nil), plugin.DefaultNames...), "plugins to run, in order")
	flags.BoolVarP(&opts.useWebp, "use-webp", "w", false, "also convert png and jpeg images to webp")
	flags.BoolVar(&opts.clean, "clean", true, "delete the output directory before minifying")

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", config.DefaultFile, "config file path")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

// 🚀 run executes one minify batch
func (o *rootOpts) run(cmd *cobra.Command, args []string) error {
	level := zerolog.WarnLevel
	if o.debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()
	ctx := zlog.WithContext(cmd.Context())

	console := log.New(cmd.OutOrStdout(), zlog)
	ctx = log.NewContext(ctx, console)

	if err := o.applyConfig(ctx, cmd); err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if o.useWebp && !slices.Contains(o.plugins, plugin.WebPName) {
		o.plugins = append(o.plugins, plugin.WebPName)
	}

	transforms, err := plugin.Resolve(o.plugins)
	if err != nil {
		return errors.Errorf("resolving plugins: %w", err)
	}

	if o.clean {
		if err := o.cleanOutDir(ctx); err != nil {
			return errors.Errorf("cleaning output directory: %w", err)
		}
	}

	inputs := append([]string{o.inputDir}, args...)

	console.Header("minifying images")
	console.StartBatchOperation(ctx, log.BatchOperation{
		Inputs:      inputs,
		Destination: o.outDir,
		Plugins:     o.plugins,
	})

	stopSpinner, err := startSpinner(cmd.ErrOrStderr(), "Minifying images")
	if err != nil {
		return errors.Errorf("starting spinner: %w", err)
	}

	results, err := imagemin.Run(ctx, inputs, imagemin.Options{
		Destination:       o.outDir,
		PreserveStructure: o.deepCopy,
		Plugins:           transforms,
		Glob:              true,
		FS:                o.fs,
	})
	stopSpinner()
	if err != nil {
		return errors.Errorf("minifying images: %w", err)
	}

	if len(results) == 0 {
		console.Warningf("no images matched %s", strings.Join(inputs, ", "))
	}

	for _, r := range results {
		console.LogFileOperation(ctx, log.FileOperation{
			Source:       r.SourcePath,
			Destination:  r.DestinationPath,
			Format:       r.Format.String(),
			OriginalSize: r.OriginalSize,
			Size:         len(r.Data),
		})
	}
	console.EndBatchOperation(ctx)

	return nil
}

// 📚 applyConfig fills every flag the user did not set from the config file
func (o *rootOpts) applyConfig(ctx context.Context, cmd *cobra.Command) error {
	load := config.LoadOptional
	if cmd.Flags().Changed("config") {
		load = config.Load
	}

	cfg, err := load(ctx, o.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if cfg.InputDir != nil && !flags.Changed("input-dir") {
		o.inputDir = *cfg.InputDir
	}
	if cfg.OutDir != nil && !flags.Changed("out-dir") {
		o.outDir = *cfg.OutDir
	}
	if cfg.DeepCopy != nil && !flags.Changed("deep-copy") {
		o.deepCopy = *cfg.DeepCopy
	}
	if cfg.UseWebp != nil && !flags.Changed("use-webp") {
		o.useWebp = *cfg.UseWebp
	}
	if cfg.Clean != nil && !flags.Changed("clean") {
		o.clean = *cfg.Clean
	}
	if len(cfg.Plugin) > 0 && !flags.Changed("plugin") {
		o.plugins = cfg.Plugin
	}

	return nil
}

// 🧹 cleanOutDir removes the output directory and reports what was deleted
func (o *rootOpts) cleanOutDir(ctx context.Context) error {
	if err := checkDeletable(o.outDir); err != nil {
		return err
	}

	deleted, err := o.fs.Glob(ctx, filepath.Join(o.outDir, "**"))
	if err != nil {
		return errors.Errorf("listing %s: %w", o.outDir, err)
	}

	if err := o.fs.RemoveAll(ctx, o.outDir); err != nil {
		return errors.Errorf("removing %s: %w", o.outDir, err)
	}

	console := log.FromContext(ctx)
	for _, path := range deleted {
		console.Infof("deleted %s", path)
	}
	if len(deleted) > 0 {
		console.Successf("cleaned %s", o.outDir)
	}

	return nil
}

// ⏳ startSpinner shows a spinner on w while a batch runs. Non-terminal
// writers get nothing.
func startSpinner(w io.Writer, text string) (func(), error) {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return func() {}, nil
	}

	spinner, err := pterm.DefaultSpinner.
		WithWriter(w).
		WithRemoveWhenDone(true).
		Start(text)
	if err != nil {
		return nil, err
	}
	return func() { _ = spinner.Stop() }, nil
}

// checkDeletable refuses to remove the working directory or one of its parents.
func checkDeletable(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Errorf("resolving %s: %w", dir, err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return errors.Errorf("getting working directory: %w", err)
	}

	rel, err := filepath.Rel(abs, wd)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return errors.Errorf("refusing to delete %s: it contains the working directory", dir)
	}
	return nil
}

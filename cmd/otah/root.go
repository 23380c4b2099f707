// Copyright 2024 by Ong Yong Xin
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
	"github.com/ongyx/otah"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

const (
	outputFlag = "output"
	hostFlag   = "host"
	portFlag   = "port"
	demoFlag   = "demo"
)

func buildInfo(info *debug.BuildInfo, key string) string {
	idx := slices.IndexFunc(info.Settings,
		func(setting debug.BuildSetting) bool {
			return setting.Key == key
		})
	if idx < 0 {
		return ""
	}
	return info.Settings[idx].Value
}

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "otah [flags] [ipa-file]",
		Short:   "otah creates OTA install manifests from iOS .ipa archives",
		Version: `":latest"`, // sorry :p
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info("🗩  otah ... over the air, not over the store")
			log.Info(fmt.Sprintf("   %s", rootCmd.Version))

			app, err := otah.OpenApp(args[0])
			if err != nil {
				return err
			}
			if version, err := app.ShortVersion(); err == nil {
				if _, err := semver.NewVersion(version); err != nil {
					log.Warn(fmt.Sprintf("⚠  app version %q isn't semantic versioning", version))
				}
				log.Info(fmt.Sprintf("🏷  %s %s", app.Name(), version))
			}

			if demo, _ := cmd.Flags().GetBool(demoFlag); demo {
				port, _ := cmd.Flags().GetInt(portFlag)
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return otah.Demo(ctx, app, port)
			}

			host, _ := cmd.Flags().GetString(hostFlag)
			if host == "" {
				return errors.New("no --host given (did you mean --demo?)")
			}
			manifest, err := otah.NewManifest(app, host)
			if err != nil {
				return err
			}

			outname, _ := cmd.Flags().GetString(outputFlag)
			if outname == "" {
				_, err := manifest.WriteTo(cmd.OutOrStdout())
				return err
			}
			outf, err := os.Create(outname)
			if err != nil {
				return fmt.Errorf("cannot create manifest file, reason: %w", err)
			}
			defer outf.Close()
			if _, err := manifest.WriteTo(outf); err != nil {
				return err
			}
			log.Info(fmt.Sprintf("✅  manifest written to %q", outname))
			return nil
		},
	}
	rootCmd.Flags().StringP(outputFlag, "o", "",
		"file to write the manifest to instead of stdout")

	rootCmd.Flags().String(hostFlag, "",
		"URL the .ipa file will be hosted at (i.e. https://mywebsite.com/myapp.ipa)")

	rootCmd.Flags().IntP(portFlag, "p", 8000,
		"port to host the demo server at (use with --demo)")

	rootCmd.Flags().BoolP(demoFlag, "d", false,
		"test OTA by serving the directory of the .ipa file with a manifest alongside")

	if info, biok := debug.ReadBuildInfo(); biok {
		commit := buildInfo(info, "vcs.revision")
		if commit != "" {
			modified := ""
			if buildInfo(info, "vcs.modified") == "true" {
				modified = " (modified)"
			}
			rootCmd.Version = fmt.Sprintf("commit %s%s", commit[:8], modified)
		} else if modver := info.Main.Version; modver != "" {
			rootCmd.Version = modver
		}
	}

	return rootCmd
}

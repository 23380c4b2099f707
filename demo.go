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

package otah

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// demoShutdownGrace is how long the demo file server may take to finish
// in-flight downloads after cancellation before it gets torn down hard.
const demoShutdownGrace = 5 * time.Second

// Demo serves the directory containing the app's .ipa archive over plain
// local HTTP for OTA install testing. It writes a "manifest.plist" next to
// the archive, pointing at the archive as served on the auto-detected local
// network address, and logs the itms-services:// URL to visit on the iDevice.
//
// Demo blocks until the passed context gets cancelled, then shuts the server
// down and removes the manifest again. Note that iDevices insist on https://
// manifest URLs, so the served manifest points at an https URL even though
// the demo server itself speaks plain http; put a TLS proxy in front, or use
// demo mode with tooling that doesn't enforce TLS.
func Demo(ctx context.Context, app *App, port int) error {
	dir, file := filepath.Split(app.Path())
	if dir == "" {
		dir = "."
	}
	address := fmt.Sprintf("%s:%d", OutboundIP(), port)
	manifest, err := NewManifest(app, fmt.Sprintf("https://%s/%s", address, file))
	if err != nil {
		return err
	}
	manifestPath := filepath.Join(dir, "manifest.plist")
	manifestf, err := os.Create(manifestPath)
	if err != nil {
		return fmt.Errorf("cannot create demo manifest, reason: %w", err)
	}
	_, err = manifest.WriteTo(manifestf)
	manifestf.Close()
	if err != nil {
		os.Remove(manifestPath)
		return err
	}
	defer func() {
		log.Info("🧹  removing demo manifest")
		os.Remove(manifestPath)
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: http.FileServer(http.Dir(dir)),
	}
	servefail := make(chan error, 1)
	go func() { servefail <- server.ListenAndServe() }()

	log.Info(fmt.Sprintf("🛰  serving %q at %s", dir, address))
	log.Info(fmt.Sprintf("📲  install %s on your iDevice using 'itms-services://?action=download-manifest&url=%s/manifest.plist'",
		app.Name(), address))

	select {
	case err := <-servefail:
		return fmt.Errorf("demo server failed, reason: %w", err)
	case <-ctx.Done():
	}
	log.Info("🛑  shutting down demo server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), demoShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("cannot shut down demo server, reason: %w", err)
	}
	return nil
}

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
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"regexp"

	"howett.net/plist"

	log "github.com/sirupsen/logrus"
)

// Archives place their single app bundle at "Payload/<AppName>.app/...",
// where the .app stem need not match the archive's file name.
var appBundleRe = regexp.MustCompile(`^Payload/([^/]+)\.app(?:/.*)?$`)

// Error kinds reported when an archive cannot be turned into an App. Callers
// can tell them apart using errors.Is.
var (
	// ErrUnreadableArchive: the archive file is missing, unopenable, or not
	// a zip container at all.
	ErrUnreadableArchive = errors.New("unreadable app archive")
	// ErrNoAppBundle: the archive contains no Payload/*.app entry.
	ErrNoAppBundle = errors.New("no app bundle in archive")
	// ErrUnreadableInfo: the bundle's Info.plist is missing or malformed.
	ErrUnreadableInfo = errors.New("unreadable Info.plist")
)

// MissingKeyError reports a required Info.plist key that the app's metadata
// doesn't carry.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("Info.plist lacks required key %q", e.Key)
}

// Info.plist keys needed for building an OTA manifest.
const (
	bundleIdentifierKey = "CFBundleIdentifier"
	shortVersionKey     = "CFBundleShortVersionString"
)

// App represents the application bundle found inside an .ipa archive,
// together with its decoded Info.plist metadata.
type App struct {
	path string
	name string
	info map[string]any
}

// OpenApp opens the .ipa archive at the specified path, locates the single
// app bundle inside it, and decodes the bundle's Info.plist. The metadata is
// decoded eagerly, so the archive is closed again before OpenApp returns.
func OpenApp(path string) (a *App, err error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q, reason: %w", ErrUnreadableArchive, path, err)
	}
	defer archive.Close()

	name := appName(archive)
	if name == "" {
		return nil, fmt.Errorf("%w: %q lacks any Payload/*.app entry",
			ErrNoAppBundle, path)
	}
	log.Info(fmt.Sprintf("📱  app bundle detected as %q", name))

	info, err := appInfo(archive, name)
	if err != nil {
		return nil, err
	}
	return &App{
		path: path,
		name: name,
		info: info,
	}, nil
}

// appName scans the archive's entries in their stored order and returns the
// bundle name of the first app bundle entry, or "" if there is none. Archives
// with multiple app bundles are not a thing standard tooling produces, so the
// first one simply wins.
func appName(archive *zip.ReadCloser) string {
	for _, entry := range archive.File {
		if m := appBundleRe.FindStringSubmatch(entry.Name); m != nil {
			return m[1]
		}
	}
	return ""
}

// appInfo decodes the named app bundle's Info.plist, in whatever plist flavor
// (binary or XML) it happens to be stored.
func appInfo(archive *zip.ReadCloser, name string) (map[string]any, error) {
	infof, err := archive.Open("Payload/" + name + ".app/Info.plist")
	if err != nil {
		return nil, fmt.Errorf("%w of app %q, reason: %w",
			ErrUnreadableInfo, name, err)
	}
	defer infof.Close()
	raw, err := io.ReadAll(infof)
	if err != nil {
		return nil, fmt.Errorf("%w of app %q, reason: %w",
			ErrUnreadableInfo, name, err)
	}
	var info map[string]any
	if _, err := plist.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("%w of app %q, reason: %w",
			ErrUnreadableInfo, name, err)
	}
	return info, nil
}

// Name returns the app bundle's name, that is, the "<AppName>" stem of the
// archive's "Payload/<AppName>.app/" directory. This is not the bundle id.
func (a *App) Name() string { return a.name }

// Path returns the path of the .ipa archive this App was read from.
func (a *App) Path() string { return a.path }

// BundleIdentifier returns the app's CFBundleIdentifier metadata.
func (a *App) BundleIdentifier() (string, error) {
	return a.lookupString(bundleIdentifierKey)
}

// ShortVersion returns the app's CFBundleShortVersionString metadata.
func (a *App) ShortVersion() (string, error) {
	return a.lookupString(shortVersionKey)
}

// lookupString returns the string value for the specified Info.plist key,
// failing with a *MissingKeyError when the key is absent.
func (a *App) lookupString(key string) (string, error) {
	element, ok := a.info[key]
	if !ok {
		return "", &MissingKeyError{Key: key}
	}
	s, ok := element.(string)
	if !ok {
		return "", fmt.Errorf("Info.plist key %q is not a string", key)
	}
	return s, nil
}

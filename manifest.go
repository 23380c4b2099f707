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
	"fmt"
	"io"

	"howett.net/plist"
)

// Manifest is the OTA install descriptor an iDevice fetches via
// itms-services:// in order to locate and install an app package. The struct
// field order below is the key order the device-side installer has been fed
// since time immemorial; keys are marshaled in declaration order, never
// sorted.
type Manifest struct {
	Items []Item `plist:"items"`
}

// Item describes one installable app: where its package lives and what
// bundle it contains. OTA manifests produced by otah always carry exactly one
// item.
type Item struct {
	Assets   []Asset  `plist:"assets"`
	Metadata Metadata `plist:"metadata"`
}

// Asset points the installer at a downloadable artifact.
type Asset struct {
	Kind string `plist:"kind"`
	URL  string `plist:"url"`
}

// Metadata identifies the app bundle the package contains.
type Metadata struct {
	BundleIdentifier string `plist:"bundle-identifier"`
	BundleVersion    string `plist:"bundle-version"`
	Kind             string `plist:"kind"`
	Title            string `plist:"title"`
}

// NewManifest builds the OTA manifest for the specified app, with hostURL
// taken verbatim as the location the .ipa package will be served from (i.e.
// "https://mywebsite.com/path/to/app.ipa"). It fails with a *MissingKeyError
// when the app's Info.plist lacks a required key.
func NewManifest(app *App, hostURL string) (*Manifest, error) {
	bundleID, err := app.BundleIdentifier()
	if err != nil {
		return nil, err
	}
	version, err := app.ShortVersion()
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Items: []Item{{
			Assets: []Asset{{
				Kind: "software-package",
				URL:  hostURL,
			}},
			Metadata: Metadata{
				BundleIdentifier: bundleID,
				BundleVersion:    version,
				Kind:             "software",
				Title:            app.Name(),
			},
		}},
	}, nil
}

// Bytes serializes the manifest into Apple's binary plist ("bplist00")
// container, as expected by existing OTA install tooling. The output is
// deterministic: same manifest, same bytes.
func (m *Manifest) Bytes() ([]byte, error) {
	b, err := plist.Marshal(m, plist.BinaryFormat)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize manifest, reason: %w", err)
	}
	return b, nil
}

// WriteTo writes the serialized manifest to the specified writer,
// implementing io.WriterTo.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	b, err := m.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	if err != nil {
		return int64(n), fmt.Errorf("cannot write manifest, reason: %w", err)
	}
	return int64(n), nil
}

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
	"io/fs"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

// makeIPA zips the file tree rooted at "tree" into a fresh .ipa archive at
// "ipa". File entries come out in lexical walk order, matching what standard
// packaging tooling produces for the canonical Payload/ layout.
func makeIPA(tree string, ipa string) {
	GinkgoHelper()

	ipaf := Successful(os.Create(ipa))
	defer ipaf.Close()
	zipper := zip.NewWriter(ipaf)
	root := os.DirFS(tree)
	Expect(fs.WalkDir(root, ".", func(path string, dirEntry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if dirEntry.IsDir() {
			return nil
		}
		w, err := zipper.Create(filepath.ToSlash(path))
		if err != nil {
			return err
		}
		contents, err := fs.ReadFile(root, path)
		if err != nil {
			return err
		}
		_, err = w.Write(contents)
		return err
	})).To(Succeed())
	Expect(zipper.Close()).To(Succeed())
}

// tempIPA zips the file tree rooted at "tree" into an .ipa archive inside a
// per-spec temporary directory, returning the archive's path.
func tempIPA(tree string) string {
	GinkgoHelper()

	ipa := filepath.Join(GinkgoT().TempDir(), "fixture.ipa")
	makeIPA(tree, ipa)
	return ipa
}

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
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"howett.net/plist"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

// The TCP port our demo file server gets exposed on during tests; arbitrary,
// but outside the default 8000 as to not interfere with a developer's running
// demo.
const demoPort = 17999

var _ = Describe("demo serving", func() {

	It("serves a manifest beside the archive and cleans up afterwards", slowSpec, func(ctx context.Context) {
		GrabLog(logrus.InfoLevel)

		dir := GinkgoT().TempDir()
		ipa := filepath.Join(dir, "OpenTerm.ipa")
		makeIPA("testdata/app", ipa)
		app := Successful(OpenApp(ipa))

		demoCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		demofail := make(chan error, 1)
		go func() {
			demofail <- Demo(demoCtx, app, demoPort)
		}()

		By("waiting for the manifest to appear next to the archive")
		manifestPath := filepath.Join(dir, "manifest.plist")
		Eventually(manifestPath).Within(5 * time.Second).ProbeEvery(100 * time.Millisecond).
			Should(BeARegularFile())

		By("fetching the manifest from the demo server")
		var served []byte
		Eventually(func() error {
			resp, err := http.Get(
				fmt.Sprintf("http://127.0.0.1:%d/manifest.plist", demoPort))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			served, err = io.ReadAll(resp.Body)
			return err
		}).Within(5 * time.Second).ProbeEvery(100 * time.Millisecond).
			Should(Succeed())

		var manifest Manifest
		Expect(plist.Unmarshal(served, &manifest)).Error().To(Succeed())
		Expect(manifest.Items).To(HaveLen(1))
		Expect(manifest.Items[0].Assets[0].URL).To(Equal(
			fmt.Sprintf("https://%s:%d/OpenTerm.ipa", OutboundIP(), demoPort)))
		Expect(manifest.Items[0].Metadata.Title).To(Equal("OpenTerm"))

		By("cancelling the demo")
		cancel()
		var err error
		Eventually(demofail).Within(10 * time.Second).Should(Receive(&err))
		Expect(err).NotTo(HaveOccurred())
		Expect(manifestPath).NotTo(BeAnExistingFile())
	})

	It("reports when the port is already taken", slowSpec, func(ctx context.Context) {
		GrabLog(logrus.InfoLevel)

		dir := GinkgoT().TempDir()
		ipa := filepath.Join(dir, "OpenTerm.ipa")
		makeIPA("testdata/app", ipa)
		app := Successful(OpenApp(ipa))

		blocker := &http.Server{Addr: fmt.Sprintf(":%d", demoPort)}
		blocked := make(chan struct{})
		go func() {
			defer close(blocked)
			_ = blocker.ListenAndServe()
		}()
		DeferCleanup(func() {
			_ = blocker.Close()
			Eventually(blocked).Should(BeClosed())
		})
		Eventually(func() error {
			_, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", demoPort))
			return err
		}).Within(5 * time.Second).ProbeEvery(100 * time.Millisecond).
			Should(Succeed())

		Expect(Demo(ctx, app, demoPort)).To(MatchError(
			ContainSubstring("demo server failed")))
		Expect(filepath.Join(dir, "manifest.plist")).NotTo(BeAnExistingFile())
	})

})

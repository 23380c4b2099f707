/*
Package otah creates OTA install manifests from iOS .ipa archives for
distribution outside the App Store.

An iDevice installs an app “over the air” by visiting an itms-services:// URL
pointing at a manifest property list; the manifest in turn tells the device
where to fetch the .ipa package and which bundle it contains. otah reads the
app's Info.plist straight out of the .ipa archive and renders such a manifest,
so all that's left is hosting the manifest and archive somewhere the device
trusts. In contrast to signing-and-distribution suites, otah is easily “go
install”-able, including version pinning.

All that otah needs: an .ipa archive produced by the usual tooling, with the
canonical layout:
  - Payload/
  - Payload/$APP.app/
  - Payload/$APP.app/Info.plist (with at least the CFBundleIdentifier and
    CFBundleShortVersionString keys)

The archive file itself may be named differently from the app bundle inside;
the bundle name always wins.
*/
package otah

/*
otah creates OTA install manifests from iOS .ipa archives.

# Usage

	otah [flags] [ipa-file]

# Flags

	-d, --demo            test OTA by serving the directory of the .ipa file with a manifest alongside
	-h, --help            help for otah
	    --host string     URL the .ipa file will be hosted at (i.e. https://mywebsite.com/myapp.ipa)
	-o, --output string   file to write the manifest to instead of stdout
	-p, --port int        port to host the demo server at (use with --demo) (default 8000)
	-v, --version         version for otah
*/
package main

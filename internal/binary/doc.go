// Package binary provisions the ghgrab executable for a host platform.
//
// # Address and layout
//
// Every (version, platform) pair maps to exactly one release asset:
//
//	<base-url>/v<version>/ghgrab-<tag>
//
// where tag is one of win32, darwin, darwin-arm64 or linux. The asset is
// installed as <installDir>/ghgrab (ghgrab.exe on Windows). InstallPath is the
// single source of that layout; the launcher resolves the same path with it.
//
// # Atomic replace
//
// The asset is streamed into a temporary file inside installDir, optionally
// verified, made executable and then renamed over the destination. A failed
// fetch never leaves a partial file at the install path, and processes that
// are already running the previous binary keep a complete file.
//
// # Verification
//
// ghgrab releases publish no checksums or signatures, so verification is
// opt-in: a per-tag SHA256 digest and/or an OpenPGP public key whose detached
// signature is fetched from <asset-url>.sig.
//
// # Usage
//
//	p, err := binary.NewProvisioner(binary.ProvisionerConfig{InstallDir: dir})
//	if err != nil {
//	    return err
//	}
//	installed, err := p.Provision(ctx, target, binary.MustParseReleaseVersion("0.1.0"))
package binary

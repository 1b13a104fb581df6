package binary

import (
	"errors"
	"fmt"
)

// Stage names the provisioning step that failed.
type Stage string

const (
	StageResolve     Stage = "resolve"
	StageLock        Stage = "lock"
	StageDownload    Stage = "download"
	StageVerify      Stage = "verify"
	StagePermissions Stage = "permissions"
	StageWrite       Stage = "write"
)

// ErrNoReceipt is returned by ReadReceipt when nothing has been provisioned yet.
var ErrNoReceipt = errors.New("no install receipt")

// UnsupportedPlatformError is returned before any I/O when ghgrab publishes no
// artifact for the host.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %s", e.Platform)
}

// ProvisionError wraps any failure after the platform check.
type ProvisionError struct {
	Stage Stage
	Err   error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision ghgrab: %s: %v", e.Stage, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

func provisionErr(stage Stage, err error) error {
	return &ProvisionError{Stage: stage, Err: err}
}

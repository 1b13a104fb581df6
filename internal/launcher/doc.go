// Package launcher runs the provisioned ghgrab binary on behalf of the
// ghgrab command.
//
// The launcher is deliberately thin: it resolves the binary path with the
// same function the provisioner installs to, hands the caller's arguments and
// standard streams to the child unchanged, waits for it and reports the
// child's exit status. It never downloads anything; a missing binary is a
// *BinaryNotFoundError pointing at the expected path.
//
// Exit statuses follow shell conventions: the child's own code when it exits
// normally, 128+N when it dies from signal N, 127 when the binary is missing
// and 126 when it exists but cannot be started.
package launcher

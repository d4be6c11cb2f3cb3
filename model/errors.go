package model

import "errors"

var (
	// ErrNotFound represents the error for the cases when some entity is not found.
	ErrNotFound = errors.New("not found")
	// ErrBadInput represents the error for the cases when the user input is invalid.
	ErrBadInput = errors.New("bad input")
	// ErrProvisioning represents the error for the case when the namespace operation failed.
	ErrProvisioning = errors.New("provisioning failed")
	// ErrDeployTimeout represents the error for the case when the endpoint was not resolved within the deadline.
	ErrDeployTimeout = errors.New("deploy timeout")
	// ErrVerificationFailed represents the error for the case when one or more metrics failed the criteria.
	ErrVerificationFailed = errors.New("verification failed")
	// ErrGateRejected represents the error for the case when an operator declined the gate.
	ErrGateRejected = errors.New("gate rejected")
	// ErrPendingApproval represents the state when a manual gate awaits an operator decision.
	ErrPendingApproval = errors.New("pending approval")
	// ErrRunFinished represents the error for the case when a terminal run is asked to transition.
	ErrRunFinished = errors.New("run already finished")
)

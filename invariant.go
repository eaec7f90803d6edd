package gousset

import "sync/atomic"

// maxInvariantReports bounds how often one component logs invariant violations.
const maxInvariantReports = 10

// reportInvariantViolation reports unexpected internal states such as
// "series listed but missing". Release builds log up to maxInvariantReports times;
// debug and race builds panic so the bug surfaces in tests.
func reportInvariantViolation(l Logger, reports *atomic.Int32, kind, subject string) {
	msg := "[gousset] invariant violation: " + kind + " for " + subject

	if isDebugBuild() {
		panic(msg)
	}

	if reports.Add(1) > maxInvariantReports {
		return
	}
	l.Warnf("%s", msg)
}

// isDebugBuild reports whether we're in a "debug" or "race" build.
func isDebugBuild() bool {
	return raceBuild || debugBuild
}

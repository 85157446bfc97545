package flarm

import "errors"

// The §7 error kinds as a closed, errors.Is-matchable value set. None
// of these abort the main loop; every call site that can produce one
// logs it (via logging.go) and continues, matching the teacher's
// pervasive "log and continue" posture rather than panicking.
var (
	ErrDecodeParity = errors.New("flarm: packet failed parity check")
	ErrDecodeIgnored = errors.New("flarm: address is on the ignore list")
	ErrDecodeSelf    = errors.New("flarm: packet address collided with our own")
	ErrTxLoopback    = errors.New("flarm: received payload equals last transmitted payload")
	ErrTableFull     = errors.New("flarm: no replacement policy admitted the track")
	ErrNoFix         = errors.New("flarm: no GNSS fix")
	ErrRadioFault    = errors.New("flarm: radio collaborator reported a fault")
	ErrLowBattery    = errors.New("flarm: battery below safe operating threshold")
)

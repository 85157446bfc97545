// Command flarmtool decodes a hex-encoded Legacy 24-byte frame from
// the command line and prints the resulting track, for offline replay
// of a captured frame against a known reference position. Argument
// handling follows the teacher's ll2utm/utm2ll style of small
// single-purpose conversion tools.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	flarm "github.com/Exadios/SoftRF/src"
)

func main() {
	if len(os.Args) != 6 {
		usage()
		os.Exit(1)
	}

	refLat, err1 := strconv.ParseFloat(os.Args[2], 64)
	refLon, err2 := strconv.ParseFloat(os.Args[3], 64)
	refGeoidSep, err3 := strconv.ParseFloat(os.Args[4], 64)
	ts, err4 := strconv.ParseUint(os.Args[5], 10, 32)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		usage()
		os.Exit(1)
	}

	if err := decodeAndPrint(os.Args[1], refLat, refLon, refGeoidSep, uint32(ts)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// decodeAndPrint decodes hexFrame against the given reference position
// and prints the result the same way main does, split out so tests can
// drive it directly (via flarm.AssertOutputContains) without exec'ing
// the binary.
func decodeAndPrint(hexFrame string, refLat, refLon, refGeoidSep float64, ts uint32) error {
	raw, err := hex.DecodeString(hexFrame)
	if err != nil || len(raw) != 24 {
		return fmt.Errorf("flarmtool: frame must be exactly 24 bytes of hex (%d decoded)", len(raw))
	}

	var frame [24]byte
	copy(frame[:], raw)

	result := flarm.DecodeLegacy(frame, ts, refLat, refLon, refGeoidSep, 0, 0)

	switch result.Outcome {
	case flarm.DecodeOK:
		t := result.Track
		fmt.Printf("address=%06X type=%d lat=%.6f lon=%.6f alt=%.1fm course=%.1f speed=%.1fkt vs=%.1ffpm\n",
			result.Address, t.AircraftType, t.Latitude, t.Longitude, t.AltitudeMSL, t.Course, t.Speed, t.VerticalSpeed)
		fmt.Println(flarm.FormatPSRFL(&t))
	case flarm.DecodeParityFailed:
		fmt.Println("parity check failed")
	case flarm.DecodeSelf:
		fmt.Println("frame carries our own address")
	case flarm.DecodeIgnored:
		fmt.Println("frame address is on the ignore list")
	}
	return nil
}

func usage() {
	fmt.Println("flarmtool: decode a captured Legacy frame")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("\tflarmtool <hex24bytes> <ref-lat> <ref-lon> <ref-geoid-sep> <utc-seconds>")
	fmt.Println()
	fmt.Println("Example:")
	fmt.Println("\tflarmtool 0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF 51.4700 -0.4543 47.0 43200")
}

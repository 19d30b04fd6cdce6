package records

// Record is a decoded top-level record of a .sss stream.
type Record interface {
	RecordType() byte
}

// Top-level record type tags (first payload byte).
const (
	TypeTestResult  byte = 0x01
	TypeMachineInfo byte = 0x55
)

// ScanOptions bounds the decoding of variable-length records.
type ScanOptions struct {
	// MaxHeaderScan limits how many bytes may be skipped while searching for
	// the header/body separator of a test result. Zero means up to the end of
	// the payload.
	MaxHeaderScan int
}

// DefaultScanOptions returns the bounds used when none are configured.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{MaxHeaderScan: 1024}
}

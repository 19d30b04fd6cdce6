package records

// MachineInfoLen is the payload length of a machine info record.
const MachineInfoLen = 40

// MachineInfo identifies the instrument that produced the log.
type MachineInfo struct {
	Model        string `json:"machine_model" yaml:"machine_model"`
	SerialNumber string `json:"machine_serial_number" yaml:"machine_serial_number"`
}

// RecordType implements Record.
func (*MachineInfo) RecordType() byte { return TypeMachineInfo }

// DecodeMachineInfo decodes a machine info payload (without its type tag).
func DecodeMachineInfo(payload []byte) (*MachineInfo, error) {
	c := NewCursor(payload)
	model, err := c.String(20)
	if err != nil {
		return nil, err
	}
	serial, err := c.String(20)
	if err != nil {
		return nil, err
	}
	return &MachineInfo{Model: model, SerialNumber: serial}, nil
}

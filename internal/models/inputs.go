package models

import "fmt"

// AudioInputs maps audio input indices to factory display names, used
// as a fallback when the processor reports a source without a label.
// Common to the MP-50 and MP-60; indices 20-23 are the optional
// 16-channel AES module on the MP-60.
var AudioInputs = map[int]string{
	0:  "None",
	1:  "HDMI",
	3:  "SPDIF 1 (Optical)",
	4:  "SPDIF 2 (Optical)",
	5:  "SPDIF 3 (Optical)",
	6:  "SPDIF 4 (Optical)",
	7:  "SPDIF 5 (AES/EBU)",
	8:  "SPDIF 6 (Coaxial)",
	9:  "SPDIF 7 (Coaxial)",
	10: "SPDIF 8 (Coaxial)",
	11: "Internal Player",
	12: "USB",
	20: "16-Channel (AES)",
	21: "16-Channel 2.0 (AES)",
	22: "16-Channel 5.1 (AES)",
	23: "16-Channel 7.1 (AES)",
	24: "Audio Return Channel",
}

// AudioInputName returns the factory name for an audio input index,
// or a generic placeholder for indices outside the table.
func AudioInputName(index int) string {
	if name, ok := AudioInputs[index]; ok {
		return name
	}
	return fmt.Sprintf("Input %d", index)
}

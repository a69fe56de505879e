package utils

// Embed colors shared across commands and sweeps.
const (
	SuccessColor = 0x2D7D46
	WarningColor = 0xB8860B
	ErrorColor   = 0xA12D2F
	InfoColor    = 0x5865F2
)

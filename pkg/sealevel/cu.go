package sealevel

const (
	CUInvokeUnits                      = 1000
	CUCreateProgramAddressUnits        = 1500
	CUSystemProgramDefaultComputeUnits = 150
)
